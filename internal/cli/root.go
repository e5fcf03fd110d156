package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/viant/btuid"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string
	URL     string
	Store   string
	Verbose bool
}

// NewRootCommand creates the root command for the btuid CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "btuid",
		Short:         "Compact collision free identifiers",
		Long:          "Issues identifiers from a persisted partition of the 2^64 hex space and converts them to and from their display form.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "configuration URL (yaml)")
	cmd.PersistentFlags().StringVar(&opts.URL, "url", "", "persisted state location, overrides configuration")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "state store (fs|sqlite|memory), overrides configuration")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewIssueCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewStateCommand(opts))

	return cmd
}

// newService builds the service described by the global flags.
func newService(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*btuid.Service, error) {
	config := btuid.DefaultConfig()
	if opts.Config != "" {
		var err error
		if config, err = btuid.LoadConfig(ctx, opts.Config); err != nil {
			return nil, err
		}
	}
	if opts.URL != "" {
		config.URL = opts.URL
	}
	if opts.Store != "" {
		config.Store = opts.Store
	}
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(cmd.ErrOrStderr(), level)
	return btuid.New(ctx, btuid.WithConfig(config), btuid.WithLogger(logger))
}

// withService runs fn and then shuts the service down, flushing its state.
func withService(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, srv *btuid.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	srv, err := newService(ctx, cmd, opts)
	if err != nil {
		return err
	}
	err = fn(ctx, srv)
	if sErr := srv.Shutdown(ctx); sErr != nil && err == nil {
		err = fmt.Errorf("failed to save state: %w", sErr)
	}
	return err
}
