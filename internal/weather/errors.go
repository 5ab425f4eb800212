package weather

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// User-facing messages for each lookup failure.
const (
	MsgEmptyQuery   = "Please enter a city name"
	MsgCityNotFound = "City not found. Please check the spelling and try again."
	MsgFetchFailed  = "Failed to fetch weather data"
	MsgUnknown      = "An error occurred"
)

// ErrEmptyQuery is returned when the query is empty after trimming.
var ErrEmptyQuery = errors.New("empty query")

// StatusError is returned when the provider answers with a non-OK status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openweathermap API error: status %d: %s", e.StatusCode, e.Body)
}

// Kind classifies a failed lookup.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindFetch      Kind = "fetch_error"
	KindUnknown    Kind = "unknown"
)

// LookupError is a failed lookup as shown to the user.
type LookupError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *LookupError) Error() string { return e.Message }

func (e *LookupError) Unwrap() error { return e.Err }

// HTTPStatus is the status the JSON API answers with for this kind of failure.
func (e *LookupError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Classify maps any lookup error onto the four user-facing kinds.
func Classify(err error) *LookupError {
	if err == nil {
		return nil
	}

	var le *LookupError
	if errors.As(err, &le) {
		return le
	}

	if errors.Is(err, ErrEmptyQuery) {
		return &LookupError{Kind: KindValidation, Message: MsgEmptyQuery, Err: err}
	}

	var se *StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusNotFound {
			return &LookupError{Kind: KindNotFound, Message: MsgCityNotFound, Err: err}
		}
		return &LookupError{Kind: KindFetch, Message: MsgFetchFailed, Err: err}
	}

	return &LookupError{Kind: KindUnknown, Message: unknownMessage(err), Err: err}
}

// unknownMessage returns the error text without the request URL, which carries the API key.
func unknownMessage(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		err = ue.Err
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnknown
}
