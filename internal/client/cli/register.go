package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/spf13/cobra"
)

var errPasswordMismatch = errors.New("passwords do not match")

type registerOptions struct {
	name  string
	email string
}

func (a *App) newRegisterCmd() *cobra.Command {
	opts := &registerOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRegister(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "account name (4-16 characters)")
	cmd.Flags().StringVar(&opts.email, "email", "", "account email")

	return cmd
}

func (a *App) runRegister(cmd *cobra.Command, opts *registerOptions) error {
	name, err := a.prompt(cmd, opts.name, "Enter account name")
	if err != nil {
		return err
	}
	email, err := a.prompt(cmd, opts.email, "Enter email")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	password, err := GetPassword(a.reader, "Enter password", out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.reader, "Repeat password", out)
	if err != nil {
		return err
	}
	if password != confirm {
		return errPasswordMismatch
	}

	return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
		account, err := c.Register(ctx, name, email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered account #%d (%s, %s)\n", account.ID, account.Name, account.Email)
		return nil
	})
}
