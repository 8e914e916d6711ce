package cli

import (
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/filex"
	"github.com/spf13/cobra"
)

func (a *App) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := filex.RemoveSecret(a.config.TokenFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
