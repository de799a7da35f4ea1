package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"

	"github.com/rickgao/tickerwatch/internal/api"
)

const (
	msgUnreachable = "Could not reach the server after several attempts."
	msgNoData      = "No values available. The data collector may not be up to date."
)

// describe turns a call error into a user-facing line.
func describe(err error) string {
	switch {
	case api.IsUnreachable(err):
		return msgUnreachable
	case api.IsNotFound(err):
		return msgNoData
	}
	if st, ok := status.FromError(err); ok {
		return "Request failed: " + st.Message()
	}
	return "Request failed: " + err.Error()
}

// errReported marks an error already shown to the user.
var errReported = errors.New("request failed")

func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, describe(err))
	return fmt.Errorf("%w: %w", errReported, err)
}

func (a *App) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <email> <ticker>",
		Short: "Register a subscription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Register(cmd.Context(), args[0], args[1])
			if err != nil {
				return a.fail(err)
			}
			fmt.Fprintln(a.out, resp.Message)
			return nil
		},
	}
}

func (a *App) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <email> <ticker>",
		Short: "Change the subscribed ticker",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Update(cmd.Context(), args[0], args[1])
			if err != nil {
				return a.fail(err)
			}
			fmt.Fprintln(a.out, resp.Message)
			return nil
		},
	}
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Delete(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			fmt.Fprintln(a.out, resp.Message)
			return nil
		},
	}
}

func (a *App) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Check that a subscription exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Login(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			fmt.Fprintln(a.out, resp.Message)
			return nil
		},
	}
}

func (a *App) latestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest <email>",
		Short: "Show the latest value of the subscribed ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.LatestValue(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			printLatest(a, resp)
			return nil
		},
	}
}

func (a *App) averageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "average <email> <count>",
		Short: "Show the mean of the last <count> values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := parseCount(args[1])
			if err != nil {
				return err
			}
			resp, err := a.client.AverageValue(cmd.Context(), args[0], count)
			if err != nil {
				return a.fail(err)
			}
			printAverage(a, resp)
			return nil
		},
	}
}

func parseCount(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("count must be an integer: %q", s)
	}
	return int32(n), nil
}

func printLatest(a *App, resp *api.GetLatestValueResponse) {
	fmt.Fprintf(a.out, "Latest value for %s: %v (timestamp: %s)\n", resp.Ticker, resp.Value, resp.Timestamp)
}

func printAverage(a *App, resp *api.GetAverageValueResponse) {
	fmt.Fprintf(a.out, "Average value for %s: %v\n", resp.Ticker, resp.AverageValue)
}
