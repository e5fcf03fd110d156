package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/btuid"
)

// IssueOptions holds flags for the issue command.
type IssueOptions struct {
	*RootOptions
	Count int
	Raw   bool
	Bare  bool
}

// NewIssueCommand creates the issue command.
func NewIssueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IssueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue new identifiers",
		Long: `Issues identifiers and prints one per line.

By default each line is a token: 16 hex digits, a dash and a 16 hex digit
random suffix. --bare prints the identifier only, --raw its decimal value.

Example:
  btuid issue --url state.json -n 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssue(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of identifiers")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "print decimal values")
	cmd.Flags().BoolVar(&opts.Bare, "bare", false, "print identifiers without suffix")
	cmd.MarkFlagsMutuallyExclusive("raw", "bare")

	return cmd
}

func runIssue(cmd *cobra.Command, opts *IssueOptions) error {
	if opts.Count < 1 {
		return fmt.Errorf("count must be >= 1, got %d", opts.Count)
	}
	return withService(cmd, opts.RootOptions, func(ctx context.Context, srv *btuid.Service) error {
		out := cmd.OutOrStdout()
		for i := 0; i < opts.Count; i++ {
			var line string
			switch {
			case opts.Raw:
				value, err := srv.IssueRawID(ctx)
				if err != nil {
					return err
				}
				line = value.String()
			case opts.Bare:
				id, err := srv.IssueID(ctx)
				if err != nil {
					return err
				}
				line = id
			default:
				token, err := srv.IssueToken(ctx)
				if err != nil {
					return err
				}
				line = token
			}
			fmt.Fprintln(out, line)
		}
		return nil
	})
}
