package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"roster/internal/config"
	"roster/internal/logging"
)

// RootOptions holds global flags and the hooks commands use to reach the
// roster.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"

	LoadConfig func() (*config.Config, error)
	Open       func(*config.Config) (*App, error)

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

func DefaultOptions() *RootOptions {
	return &RootOptions{
		LoadConfig: config.Load,
		Open:       OpenApp,
	}
}

// NewRootCommand creates the roster CLI with the default configuration
// and storage hooks.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(DefaultOptions())
}

func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "roster",
		Short:         "Student roster editor",
		Long:          "Keep a roster of student records: add, edit and delete them from a web form, the JSON API or this CLI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			cfg, err := opts.LoadConfig()
			if err != nil {
				return WrapExitError(ExitCommandError, "load configuration", err)
			}
			level := cfg.Logging.Level
			if opts.Verbose {
				level = "debug"
			}
			logging.SetupWriter(cmd.ErrOrStderr(), level, cfg.Logging.Format)
			slog.Debug("configuration loaded", "driver", cfg.Database.Driver, "storage_key", cfg.StorageKey)
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// withApp opens the roster for the duration of fn.
func (o *RootOptions) withApp(fn func(*App) error) error {
	app, err := o.Open(o.cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "open roster storage", err)
	}
	defer app.Close()
	return fn(app)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
