// Command lookup prints the current weather for a city and exits.
//
// Usage:
//
//	lookup [-timeout 10s] <city name>
//
// Configuration is read from the environment (and .env) the same way the
// server reads it. The exit status is 0 on success, 1 when the lookup fails,
// and 2 on a usage error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/swelljoe/weatherfinder/internal/config"
	"github.com/swelljoe/weatherfinder/internal/observability"
	"github.com/swelljoe/weatherfinder/internal/render"
	"github.com/swelljoe/weatherfinder/internal/weather"
	"github.com/swelljoe/weatherfinder/internal/widget"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	timeout := fs.Duration("timeout", 0, "overall lookup deadline (0 for none)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: lookup [-timeout d] <city name>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	city := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(city) == "" {
		fs.Usage()
		return 2
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(stderr, "load .env:", err)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "load config:", err)
		return 1
	}

	// Logs go to stderr so stdout carries only the result.
	cfg.LogFormat = "text"
	logger := observability.NewLoggerTo(stderr, cfg)

	client := weather.NewClient(cfg.APIKey, cfg.ProviderBaseURL, cfg.ProviderTimeout)
	ctrl := widget.NewController(client, observability.NewMetricsWith(prometheus.NewRegistry()), logger)

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	st := ctrl.Submit(ctx, city)
	page := render.Project(st, cfg.IconBaseURL)

	if st.Err != nil {
		fmt.Fprintln(stderr, page.Error)
		return 1
	}
	if err := render.Text(stdout, page); err != nil {
		fmt.Fprintln(stderr, "write result:", err)
		return 1
	}
	logger.Debug("lookup complete", "duration", time.Since(start))
	return 0
}
