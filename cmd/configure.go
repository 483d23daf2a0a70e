// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/client/config"
	"github.com/bascanada/admintail/pkg/log/printer"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive wizard to generate a configuration file",
	Long: `Launch an interactive wizard to point admintail at your backend.

The wizard asks for the backend URL and the log tab defaults, then writes a
ready-to-use config file. Existing values are offered as defaults.

Example:
  admintail configure
  admintail configure -c /path/to/config.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConfigWizard(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// wizardAnswers are the raw form values.
type wizardAnswers struct {
	URL        string
	Backlog    string
	Level      string
	AutoScroll bool
	Color      string
	Template   string
}

func answersFrom(cfg *config.Config) wizardAnswers {
	a := wizardAnswers{
		URL:        cfg.URL.Or(""),
		Backlog:    strconv.Itoa(cfg.Backlog.Or(client.DefaultBacklog)),
		Level:      string(client.LevelAll),
		AutoScroll: cfg.AutoScroll.Or(true),
		Color:      colorAuto,
		Template:   cfg.Printer.Template.Or(""),
	}
	if lvl, ok := client.ParseLevel(cfg.Level.Or("")); ok {
		a.Level = string(lvl)
	}
	if cfg.Printer.Color.Set && cfg.Printer.Color.Valid {
		a.Color = colorNever
		if cfg.Printer.Color.Value {
			a.Color = colorAlways
		}
	}
	return a
}

// apply writes the answers into cfg, keeping the settings the wizard does
// not ask about.
func (a wizardAnswers) apply(cfg *config.Config) error {
	cfg.URL.S(strings.TrimSpace(a.URL))

	n, err := strconv.Atoi(strings.TrimSpace(a.Backlog))
	if err != nil {
		return fmt.Errorf("invalid backlog %q: %w", a.Backlog, err)
	}
	cfg.Backlog.S(n)

	if a.Level == string(client.LevelAll) {
		cfg.Level.U()
	} else {
		cfg.Level.S(a.Level)
	}
	cfg.AutoScroll.S(a.AutoScroll)

	switch a.Color {
	case colorAlways:
		cfg.Printer.Color.S(true)
	case colorNever:
		cfg.Printer.Color.S(false)
	default:
		cfg.Printer.Color.U()
	}

	if t := strings.TrimSpace(a.Template); t != "" {
		cfg.Printer.Template.S(t)
	} else {
		cfg.Printer.Template.U()
	}
	return nil
}

func validateURL(str string) error {
	str = strings.TrimSpace(str)
	if !strings.HasPrefix(str, "http://") && !strings.HasPrefix(str, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

func validateBacklog(str string) error {
	n, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil || n <= 0 {
		return fmt.Errorf("backlog must be a positive number")
	}
	return nil
}

func validateTemplate(str string) error {
	if strings.TrimSpace(str) == "" {
		return nil
	}
	_, err := printer.NewFormatter(printer.Options{Format: printer.FormatText, Template: str})
	return err
}

func runConfigWizard(cfgPath string) error {
	targetPath := config.ResolvePath(cfgPath)
	if targetPath == "" {
		return fmt.Errorf("failed to get home directory, use --config")
	}

	cfg, _, err := config.Load(cfgPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		cfg = &config.Config{}
	} else if err != nil {
		return err
	}
	answers := answersFrom(cfg)

	var levelOptions []huh.Option[string]
	for _, l := range client.Levels {
		levelOptions = append(levelOptions, huh.NewOption(string(l), string(l)))
	}

	// Welcome message
	fmt.Println("Welcome to the admintail configuration wizard!")
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL of the backend exposing /api/admin").
				Placeholder("http://localhost:8000").
				Value(&answers.URL).
				Validate(validateURL),

			huh.NewInput().
				Title("Backlog size").
				Description("How many recent entries to load when the log tab opens").
				Value(&answers.Backlog).
				Validate(validateBacklog),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default level filter").
				Options(levelOptions...).
				Value(&answers.Level),

			huh.NewConfirm().
				Title("Autoscroll to new entries?").
				Value(&answers.AutoScroll),

			huh.NewSelect[string]().
				Title("Colored output").
				Options(
					huh.NewOption("Auto (when writing to a terminal)", colorAuto),
					huh.NewOption("Always", colorAlways),
					huh.NewOption("Never", colorNever),
				).
				Value(&answers.Color),

			huh.NewInput().
				Title("Line template").
				Description("Optional Go template, fields .Time .Level .Logger .Message .ID").
				Placeholder(printer.DefaultTemplate).
				Value(&answers.Template).
				Validate(validateTemplate),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	if err := answers.apply(cfg); err != nil {
		return err
	}

	// Preview Configuration
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	fmt.Println("\n" + strings.Repeat("─", 60))
	fmt.Println("Generated Configuration:")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Println(string(out))
	fmt.Println(strings.Repeat("─", 60) + "\n")

	var confirm bool
	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Description(fmt.Sprintf("Target: %s", targetPath)).
				Affirmative("Yes, save it!").
				Negative("No, cancel").
				Value(&confirm),
		),
	)

	if err := confirmForm.Run(); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("Configuration not saved. Run 'admintail configure' again when ready.")
		return nil
	}

	if err := config.Save(targetPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n\n", targetPath)
	fmt.Println("You're all set! Try it now:")
	fmt.Println("   admintail tui")
	return nil
}
