package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

const londonJSON = `{
	"name": "London",
	"sys": {"country": "GB"},
	"main": {"temp": 15.4, "feels_like": 14.9, "humidity": 80},
	"weather": [{"main": "Clouds", "description": "overcast clouds", "icon": "04d"}],
	"wind": {"speed": 3.6}
}`

func fakeOWM(t *testing.T, status int, body string) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/weather" || r.URL.Query().Get("q") != "New York" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	t.Setenv("OPENWEATHER_BASE_URL", ts.URL)
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("LOG_LEVEL", "error")
	return &calls
}

func TestRun_Success(t *testing.T) {
	fakeOWM(t, http.StatusOK, londonJSON)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-timeout", "5s", "New", "York"}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "London, GB")
	assert.Contains(t, stdout.String(), "Temperature: 15°C")
	assert.Contains(t, stdout.String(), "Feels Like:  15°C")
	assert.Contains(t, stdout.String(), "Overcast Clouds")
	assert.Contains(t, stdout.String(), "3.6 m/s")
}

func TestRun_LookupErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"not found", http.StatusNotFound, "City not found. Please check the spelling and try again."},
		{"unauthorized", http.StatusUnauthorized, "Failed to fetch weather data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeOWM(t, tt.status, `{"cod":"err"}`)

			var stdout, stderr bytes.Buffer
			code := run([]string{"New York"}, &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"blank city", []string{"  "}},
		{"bad flag", []string{"-bogus", "London"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := fakeOWM(t, http.StatusOK, londonJSON)

			var stdout, stderr bytes.Buffer
			assert.Equal(t, 2, run(tt.args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), "usage: lookup")
			assert.Zero(t, calls.Load())
		})
	}
}
