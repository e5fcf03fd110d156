package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/btuid"
)

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the persisted allocator state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(ctx context.Context, srv *btuid.Service) error {
				data, err := srv.Record().Encode()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
}
