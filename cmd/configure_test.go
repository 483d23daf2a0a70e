// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"testing"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/client/config"
	"github.com/bascanada/admintail/pkg/ty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardAnswers_Defaults(t *testing.T) {
	a := answersFrom(&config.Config{})
	assert.Equal(t, "", a.URL)
	assert.Equal(t, "100", a.Backlog)
	assert.Equal(t, string(client.LevelAll), a.Level)
	assert.True(t, a.AutoScroll)
	assert.Equal(t, colorAuto, a.Color)
}

func TestWizardAnswers_RoundTrip(t *testing.T) {
	cfg := &config.Config{
		URL:     ty.OptWrap("http://backend:8000"),
		Level:   ty.OptWrap("warn"),
		Headers: ty.MS{"X-Proxy": "abc"},
	}
	cfg.Printer.Color.S(false)

	a := answersFrom(cfg)
	assert.Equal(t, string(client.LevelWarning), a.Level)
	assert.Equal(t, colorNever, a.Color)

	a.Backlog = "300"
	a.Level = string(client.LevelAll)
	a.Color = colorAlways
	a.Template = "{{.Message}}"
	require.NoError(t, a.apply(cfg))

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, 300, settings.Backlog)
	assert.Equal(t, client.LevelAll, settings.Level)
	require.NotNil(t, settings.Color)
	assert.True(t, *settings.Color)
	assert.Equal(t, "{{.Message}}", settings.Template)
	assert.Equal(t, "abc", settings.Headers["X-Proxy"], "unasked settings are kept")
	assert.False(t, cfg.Level.Set)
}

func TestWizardValidators(t *testing.T) {
	assert.NoError(t, validateURL("https://example.com"))
	assert.Error(t, validateURL("example.com"))

	assert.NoError(t, validateBacklog("50"))
	assert.Error(t, validateBacklog("0"))
	assert.Error(t, validateBacklog("many"))

	assert.NoError(t, validateTemplate(""))
	assert.NoError(t, validateTemplate("{{.Time}} {{.Message}}"))
	assert.Error(t, validateTemplate("{{.Message"))
}
