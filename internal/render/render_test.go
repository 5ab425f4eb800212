package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swelljoe/weatherfinder/internal/weather"
	"github.com/swelljoe/weatherfinder/internal/widget"
)

const iconBase = "https://openweathermap.org/img/wn"

func london() *weather.Snapshot {
	return &weather.Snapshot{
		Location:    "London",
		Country:     "GB",
		Temperature: 15.4,
		FeelsLike:   14.9,
		Humidity:    80,
		WindSpeed:   3.6,
		Condition:   "Clouds",
		Description: "overcast clouds",
		Icon:        "04d",
	}
}

func TestSnapshot_London(t *testing.T) {
	v := Snapshot(london(), iconBase)

	assert.Equal(t, View{
		Location:           "London, GB",
		Temperature:        "15°C",
		FeelsLike:          "15°C",
		Humidity:           "80%",
		Wind:               "3.6 m/s",
		Condition:          "Clouds",
		Description:        "overcast clouds",
		DisplayDescription: "Overcast Clouds",
		IconURL:            "https://openweathermap.org/img/wn/04d@2x.png",
	}, v)
}

func TestSnapshot_DoesNotMutateValues(t *testing.T) {
	s := london()
	_ = Snapshot(s, iconBase)
	assert.Equal(t, 15.4, s.Temperature)
	assert.Equal(t, 14.9, s.FeelsLike)
}

func TestSnapshot_NoCountryNoIcon(t *testing.T) {
	s := london()
	s.Country = ""
	s.Icon = ""

	v := Snapshot(s, iconBase)
	assert.Equal(t, "London", v.Location)
	assert.Empty(t, v.IconURL)
}

func TestDegrees(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{15.4, "15°C"},
		{14.9, "15°C"},
		{14.5, "15°C"},
		{0, "0°C"},
		{-0.4, "0°C"},
		{-2.5, "-2°C"},
		{-2.6, "-3°C"},
		{30.49, "30°C"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Degrees(tt.in), "Degrees(%v)", tt.in)
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Overcast Clouds", Capitalize("overcast clouds"))
	assert.Equal(t, "Light Intensity Drizzle", Capitalize("light intensity drizzle"))
	assert.Equal(t, "UV Index", Capitalize("UV index"))
	assert.Equal(t, "", Capitalize(""))
}

func TestProject(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		p := Project(widget.State{}, iconBase)
		assert.Equal(t, Page{}, p)
	})

	t.Run("loading", func(t *testing.T) {
		p := Project(widget.State{Query: "Paris", Loading: true}, iconBase)
		assert.True(t, p.Loading)
		assert.Equal(t, "Paris", p.Query)
		assert.Nil(t, p.Result)
		assert.Empty(t, p.Error)
	})

	t.Run("success", func(t *testing.T) {
		p := Project(widget.State{Query: "London", Snapshot: london()}, iconBase)
		require.NotNil(t, p.Result)
		assert.Equal(t, "15°C", p.Result.Temperature)
		assert.Empty(t, p.Error)
	})

	t.Run("error", func(t *testing.T) {
		st := widget.State{
			Query: "Atlantis",
			Err:   weather.Classify(&weather.StatusError{StatusCode: 404}),
		}
		p := Project(st, iconBase)
		assert.Equal(t, weather.MsgCityNotFound, p.Error)
		assert.Nil(t, p.Result)
	})
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, Project(widget.State{Snapshot: london()}, iconBase)))

	out := buf.String()
	assert.Contains(t, out, "London, GB")
	assert.Contains(t, out, "Temperature: 15°C")
	assert.Contains(t, out, "Feels Like:  15°C")
	assert.Contains(t, out, "Weather:     Overcast Clouds")
	assert.Contains(t, out, "Humidity:    80%")
	assert.Contains(t, out, "Wind Speed:  3.6 m/s")
}

func TestText_ErrorAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, Page{Error: weather.MsgFetchFailed}))
	assert.Equal(t, weather.MsgFetchFailed+"\n", buf.String())

	buf.Reset()
	require.NoError(t, Text(&buf, Page{}))
	assert.Empty(t, buf.String())
}
