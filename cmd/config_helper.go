package cmd

import (
	"errors"
	"fmt"

	httpPkg "github.com/bascanada/admintail/pkg/http"
	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/client/config"
	"github.com/bascanada/admintail/pkg/log/stream"
	"github.com/bascanada/admintail/pkg/status"
	"github.com/spf13/cobra"
)

// flagConfig holds the values explicitly given on the command line, so they
// can be layered over the config file.
func flagConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	flags := cmd.Flags()

	if flags.Changed("url") {
		cfg.URL.S(backendURL)
	}
	if flags.Changed("backlog") {
		cfg.Backlog.S(backlog)
	}
	if flags.Changed("level") {
		cfg.Level.S(level)
	}
	if flags.Changed("template") {
		cfg.Printer.Template.S(template)
	}
	if flags.Changed("no-color") {
		cfg.Printer.Color.S(!noColor)
	}
	if flags.Changed("no-autoscroll") {
		cfg.AutoScroll.S(!noAutoScroll)
	}
	if flags.Changed("header") {
		h, err := parseHeaders(headers)
		if err != nil {
			return nil, err
		}
		cfg.Headers = h
	}
	return cfg, nil
}

// loadSettings reads the config file, applies the command line on top and
// resolves defaults. The overrides are returned so a reloaded file can be
// layered the same way.
func loadSettings(cmd *cobra.Command) (config.Settings, *config.Config, string, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		errorMsg := "failed to load config"
		switch {
		case errors.Is(err, config.ErrConfigParse):
			errorMsg = "invalid configuration file format"
		case errors.Is(err, config.ErrConfigNotFound):
			errorMsg = "configuration file not found"
		}
		return config.Settings{}, nil, path, fmt.Errorf("%s: %w", errorMsg, err)
	}

	overrides, err := flagConfig(cmd)
	if err != nil {
		return config.Settings{}, nil, path, err
	}
	cfg.Merge(overrides)

	settings, err := cfg.Settings()
	if errors.Is(err, config.ErrNoBaseURL) {
		return settings, nil, path, fmt.Errorf("%w, use --url or run 'admintail configure'", err)
	}
	return settings, overrides, path, err
}

// backend groups the clients built from the settings.
type backend struct {
	http   httpPkg.HttpClient
	admin  *client.AdminClient
	status *status.Client
}

func newBackend(settings config.Settings) backend {
	c := httpPkg.GetClient(settings.URL, settings.Headers)
	return backend{
		http:   c,
		admin:  client.NewAdminClient(c),
		status: status.NewClient(c),
	}
}

func (b backend) subscriber(settings config.Settings) *stream.Subscriber {
	return stream.NewSubscriber(stream.Options{
		URL:            b.admin.StreamURL,
		Client:         httpPkg.StreamClient(),
		Headers:        b.http.Headers(),
		InitialBackoff: settings.InitialBackoff,
		MaxBackoff:     settings.MaxBackoff,
		Logger:         appLogger,
	})
}

// initialFilter is the filter the log tab starts with.
func initialFilter(settings config.Settings) client.FilterState {
	return client.FilterState{Level: settings.Level, Search: search}
}
