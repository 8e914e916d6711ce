package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/filex"
	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in, run login first")

func (a *App) newWhoAmICmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWhoAmI(cmd, token)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "use this access token instead of the stored one")

	return cmd
}

func (a *App) runWhoAmI(cmd *cobra.Command, token string) error {
	if token == "" {
		stored, err := filex.ReadSecret(a.config.TokenFile)
		if errors.Is(err, filex.ErrNoSecret) {
			return errNotLoggedIn
		}
		if err != nil {
			return err
		}
		token = stored
	}

	return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
		c.SetAccessToken(token)

		account, err := c.WhoAmI(ctx)
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("%w (run login again)", err)
		}
		if err != nil {
			return err
		}

		printAccount(cmd, account)
		return nil
	})
}

func printAccount(cmd *cobra.Command, a *models.Account) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", a.ID)
	fmt.Fprintf(w, "Name:\t%s\n", a.Name)
	fmt.Fprintf(w, "Email:\t%s\n", a.Email)
	fmt.Fprintf(w, "Admin:\t%t\n", a.IsAdmin)
	fmt.Fprintf(w, "Active:\t%t\n", a.IsActive)
	fmt.Fprintf(w, "Email verified:\t%t\n", a.EmailVerified)
	fmt.Fprintf(w, "Last login:\t%s\n", formatTime(a.LastLogin))
	fmt.Fprintf(w, "Created:\t%s\n", formatTime(a.CreatedAt))
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.RFC1123)
}
