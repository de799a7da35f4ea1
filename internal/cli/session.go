package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rickgao/tickerwatch/internal/service"
)

func (a *App) sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &session{app: a, scanner: bufio.NewScanner(a.in)}
			s.run(cmd.Context())
			return nil
		},
	}
}

type session struct {
	app     *App
	scanner *bufio.Scanner
	email   string
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.app.out, format, args...)
}

// prompt reads one line. ok is false at end of input.
func (s *session) prompt(label string) (line string, ok bool) {
	s.printf("%s", label)
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *session) run(ctx context.Context) {
	for {
		s.printf("\n--- Main menu ---\n1. Login\n2. Register\n3. Exit\n")
		choice, ok := s.prompt("Choose an option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			email, ok := s.prompt("Email: ")
			if !ok {
				return
			}
			resp, err := s.app.client.Login(ctx, email)
			if err != nil {
				s.printf("%s\n", describe(err))
				continue
			}
			s.printf("%s\n", resp.Message)
			if resp.Success {
				s.email = email
				if !s.userLoop(ctx) {
					return
				}
			}
		case "2":
			email, ok := s.prompt("Email: ")
			if !ok {
				return
			}
			ticker, ok := s.prompt("Ticker: ")
			if !ok {
				return
			}
			resp, err := s.app.client.Register(ctx, email, ticker)
			if err != nil {
				s.printf("%s\n", describe(err))
				continue
			}
			s.printf("%s\n", resp.Message)
			if service.Outcome(resp.Outcome) == service.OutcomeRegistered {
				s.email = email
				if !s.userLoop(ctx) {
					return
				}
			}
		case "3":
			s.printf("Goodbye!\n")
			return
		default:
			s.printf("Invalid choice, try again.\n")
		}
	}
}

// userLoop serves the logged-in menu. It returns false at end of input.
func (s *session) userLoop(ctx context.Context) bool {
	for {
		s.printf("\n--- Welcome %s ---\n1. Update ticker\n2. Delete account\n3. Latest value\n4. Average of last values\n5. Logout\n", s.email)
		choice, ok := s.prompt("Choose an option: ")
		if !ok {
			return false
		}

		switch choice {
		case "1":
			ticker, ok := s.prompt("New ticker: ")
			if !ok {
				return false
			}
			resp, err := s.app.client.Update(ctx, s.email, ticker)
			if err != nil {
				s.printf("%s\n", describe(err))
				continue
			}
			s.printf("%s\n", resp.Message)
		case "2":
			resp, err := s.app.client.Delete(ctx, s.email)
			if err != nil {
				s.printf("%s\n", describe(err))
				continue
			}
			s.printf("%s\n", resp.Message)
			if service.Outcome(resp.Outcome) == service.OutcomeDeleted {
				s.email = ""
				s.printf("You have been logged out.\n")
				return true
			}
		case "3":
			resp, err := s.app.client.LatestValue(ctx, s.email)
			if err != nil {
				s.printf("%s\n", describe(err))
				continue
			}
			printLatest(s.app, resp)
		case "4":
			raw, ok := s.prompt("How many values? ")
			if !ok {
				return false
			}
			count, err := parseCount(raw)
			if err != nil {
				s.printf("Please enter a whole number.\n")
				continue
			}
			resp, err := s.app.client.AverageValue(ctx, s.email, count)
			if err != nil {
				s.printf("%s\n", describe(err))
				continue
			}
			printAverage(s.app, resp)
		case "5":
			s.printf("Logged out.\n")
			s.email = ""
			return true
		default:
			s.printf("Invalid choice, try again.\n")
		}
	}
}
