package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/spf13/cobra"
)

func (a *App) newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.Ping(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is up\n", a.config.ServerEndpointAddr)
				return nil
			})
		},
	}
}
