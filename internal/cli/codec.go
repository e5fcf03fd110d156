package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/btuid"
)

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	return newCodecCommand(rootOpts, "encode", "Convert a token to its display form",
		func(srv *btuid.Service, token, key string) (string, error) { return srv.Encode(token, key) })
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	return newCodecCommand(rootOpts, "decode", "Convert a display token back to its canonical form",
		func(srv *btuid.Service, token, key string) (string, error) { return srv.Decode(token, key) })
}

func newCodecCommand(rootOpts *RootOptions, name, short string, fn func(srv *btuid.Service, token, key string) (string, error)) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   name + " <token>",
		Short: short,
		Long: short + `.

The substitution table is read from the persisted state, so --url must point
at the same state for encode and decode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rootOpts, func(ctx context.Context, srv *btuid.Service) error {
				output, err := fn(srv, args[0], key)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "passphrase")
	return cmd
}
