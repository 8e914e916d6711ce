package cli

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
	"github.com/spf13/cobra"
)

// Dialer opens a connection to the server described by cfg.
type Dialer func(cfg *config.Config) (client.Client, error)

// DialGRPC is the production Dialer.
func DialGRPC(cfg *config.Config) (client.Client, error) {
	return client.NewAuthClient(cfg.ServerEndpointAddr)
}

// App holds the state shared by all subcommands.
type App struct {
	dial   Dialer
	config *config.Config
	reader *bufio.Reader

	configFile string
	addr       string
	timeout    time.Duration
	tokenFile  string
}

// NewRootCmd creates the root command of the authkeeper CLI.
func NewRootCmd(dial Dialer) *cobra.Command {
	a := &App{dial: dial}

	cmd := &cobra.Command{
		Use:           "authkeeper",
		Short:         "authkeeper account client",
		Long:          `Register, log in and inspect accounts on an authkeeper server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file path")
	cmd.PersistentFlags().StringVarP(&a.addr, "addr", "a", "", "server address (host:port)")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "per request timeout")
	cmd.PersistentFlags().StringVar(&a.tokenFile, "token-file", "", "where the access token is stored")

	// Add subcommands
	cmd.AddCommand(a.newRegisterCmd())
	cmd.AddCommand(a.newLoginCmd())
	cmd.AddCommand(a.newWhoAmICmd())
	cmd.AddCommand(a.newLogoutCmd())
	cmd.AddCommand(a.newPingCmd())

	return cmd
}

// init loads the configuration and lets explicitly set flags win.
func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.ServerEndpointAddr = a.addr
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = a.timeout
	}
	if flags.Changed("token-file") {
		cfg.TokenFile = a.tokenFile
	}

	a.config = cfg
	a.reader = bufio.NewReader(cmd.InOrStdin())
	return nil
}

// withClient dials the server, runs fn under the request timeout and closes
// the connection.
func (a *App) withClient(cmd *cobra.Command, fn func(ctx context.Context, c client.Client) error) error {
	c, err := a.dial(a.config)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", a.config.ServerEndpointAddr, err)
	}
	defer c.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	return fn(ctx, c)
}

// prompt returns value, or asks for it when it is empty.
func (a *App) prompt(cmd *cobra.Command, value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return GetSimpleText(a.reader, label, cmd.OutOrStdout())
}
