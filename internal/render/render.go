// Package render projects widget state into display strings. It performs no
// I/O beyond writing to the supplied writer.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/swelljoe/weatherfinder/internal/weather"
	"github.com/swelljoe/weatherfinder/internal/widget"
)

// Page is everything the lookup page shows.
type Page struct {
	Query   string
	Loading bool
	Error   string
	Result  *View
}

// View is a snapshot formatted for display.
type View struct {
	Location           string `json:"location"`
	Temperature        string `json:"temperature"`
	FeelsLike          string `json:"feels_like"`
	Humidity           string `json:"humidity"`
	Wind               string `json:"wind"`
	Condition          string `json:"condition"`
	Description        string `json:"description"`
	DisplayDescription string `json:"display_description"`
	IconURL            string `json:"icon_url,omitempty"`
}

// Project builds the page for a widget state.
func Project(st widget.State, iconBaseURL string) Page {
	p := Page{
		Query:   st.Query,
		Loading: st.Loading,
	}
	if st.Err != nil {
		p.Error = st.Err.Message
	}
	if st.Snapshot != nil {
		v := Snapshot(st.Snapshot, iconBaseURL)
		p.Result = &v
	}
	return p
}

// Snapshot formats a single snapshot.
func Snapshot(s *weather.Snapshot, iconBaseURL string) View {
	location := s.Location
	if s.Country != "" {
		location = fmt.Sprintf("%s, %s", s.Location, s.Country)
	}

	return View{
		Location:           location,
		Temperature:        Degrees(s.Temperature),
		FeelsLike:          Degrees(s.FeelsLike),
		Humidity:           formatNumber(s.Humidity) + "%",
		Wind:               formatNumber(s.WindSpeed) + " m/s",
		Condition:          s.Condition,
		Description:        s.Description,
		DisplayDescription: Capitalize(s.Description),
		IconURL:            weather.IconURL(iconBaseURL, s.Icon),
	}
}

// Degrees rounds to the nearest whole degree Celsius, halves rounding up.
func Degrees(v float64) string {
	return strconv.Itoa(int(math.Floor(v+0.5))) + "°C"
}

// Capitalize upper-cases the first letter of every word and leaves the rest alone.
// Casers carry state, so each call gets its own.
func Capitalize(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(s)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Text writes the page as plain text.
func Text(w io.Writer, p Page) error {
	if p.Error != "" {
		_, err := fmt.Fprintln(w, p.Error)
		return err
	}
	if p.Loading {
		_, err := fmt.Fprintln(w, "Searching...")
		return err
	}
	if p.Result == nil {
		return nil
	}

	v := p.Result
	_, err := fmt.Fprintf(w, "%s\n  Temperature: %s\n  Feels Like:  %s\n  Weather:     %s\n  Humidity:    %s\n  Wind Speed:  %s\n",
		v.Location, v.Temperature, v.FeelsLike, v.DisplayDescription, v.Humidity, v.Wind)
	return err
}
