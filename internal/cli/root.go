// Package cli implements the tickerctl command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickgao/tickerwatch/internal/api"
	"github.com/rickgao/tickerwatch/internal/config"
	"github.com/rickgao/tickerwatch/internal/retry"
	"github.com/rickgao/tickerwatch/internal/version"
)

// Client is the subset of api.Client used by the commands.
type Client interface {
	Register(ctx context.Context, email, ticker string) (*api.MutationResponse, error)
	Update(ctx context.Context, email, ticker string) (*api.MutationResponse, error)
	Delete(ctx context.Context, email string) (*api.MutationResponse, error)
	Login(ctx context.Context, email string) (*api.LoginUserResponse, error)
	LatestValue(ctx context.Context, email string) (*api.GetLatestValueResponse, error)
	AverageValue(ctx context.Context, email string, count int32) (*api.GetAverageValueResponse, error)
	Close() error
}

// Dialer creates a Client from the loaded configuration.
type Dialer func(cfg *config.ClientConfig, logger *slog.Logger) (Client, error)

// DialGRPC connects to the server named in cfg.
func DialGRPC(cfg *config.ClientConfig, logger *slog.Logger) (Client, error) {
	return api.NewClient(cfg.Server.Addr,
		api.WithLogger(logger),
		api.WithRetryPolicy(retry.Policy{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			AttemptTimeout: cfg.Retry.AttemptTimeout,
			Delay:          cfg.Retry.Delay,
		}),
	)
}

// App holds the command state shared by all subcommands.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	dial   Dialer

	configPath string
	addr       string
	verbose    bool

	client Client
	logger *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithDialer replaces the gRPC dialer.
func WithDialer(d Dialer) Option {
	return func(a *App) {
		a.dial = d
	}
}

// NewRootCommand builds the tickerctl command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &App{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		dial:   DialGRPC,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "tickerctl",
		Short: "Manage ticker subscriptions",
		Long: `tickerctl registers, updates and deletes ticker subscriptions and reads
the latest and average values of the subscribed ticker.

Mutations are retried on timeouts with the same request id, so a retried
request is applied at most once.`,
		Version:           version.String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.connect,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.client != nil {
				return a.client.Close()
			}
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Client config file (YAML)")
	root.PersistentFlags().StringVar(&a.addr, "addr", "", "Server address (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(
		a.registerCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.loginCmd(),
		a.latestCmd(),
		a.averageCmd(),
		a.sessionCmd(),
	)
	return root
}

// Execute runs tickerctl with os.Args.
func Execute(ctx context.Context) error {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func (a *App) connect(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadClientAndValidate(a.configPath)
	if err != nil {
		return err
	}
	if a.addr != "" {
		cfg.Server.Addr = a.addr
	}

	level := cfg.Log.SlogLevel()
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	client, err := a.dial(cfg, a.logger)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Server.Addr, err)
	}
	a.client = client
	return nil
}
