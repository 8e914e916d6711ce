package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/filex"
	"github.com/spf13/cobra"
)

type loginOptions struct {
	email      string
	printToken bool
}

func (a *App) newLoginCmd() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "account email")
	cmd.Flags().BoolVar(&opts.printToken, "print-token", false, "also print the access token")

	return cmd
}

func (a *App) runLogin(cmd *cobra.Command, opts *loginOptions) error {
	email, err := a.prompt(cmd, opts.email, "Enter email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Enter password", cmd.OutOrStdout())
	if err != nil {
		return err
	}

	return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
		token, err := c.Login(ctx, email, password)
		if err != nil {
			return err
		}

		if err := filex.WriteSecret(a.config.TokenFile, token.AccessToken); err != nil {
			return fmt.Errorf("save token: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Login successful, token valid until %s\n", token.ExpiresAt.Local().Format(time.RFC1123))
		if opts.printToken {
			fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
		}
		return nil
	})
}
