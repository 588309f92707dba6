// Command worklogctl drives the time tracker API from a terminal, one page per command.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/client"
	"github.com/spf13/cobra"
)

type app struct {
	baseURL string
	timeout time.Duration
	asJSON  bool

	out io.Writer
	err io.Writer
}

func (a *app) client() *client.Client {
	return client.New(a.baseURL, &http.Client{Timeout: a.timeout})
}

// terminalNotifier prints toasts to stderr so stdout stays parseable.
type terminalNotifier struct{ w io.Writer }

func (n terminalNotifier) Success(m string) { fmt.Fprintln(n.w, "ok:", m) }
func (n terminalNotifier) Error(m string)   { fmt.Fprintln(n.w, "error:", m) }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "worklogctl",
		Short:         "Manage users and work logs of the time tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := os.Getenv("TIMETRACKER_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	root.PersistentFlags().StringVar(&a.baseURL, "api", defaultURL, "API base URL (env TIMETRACKER_API_URL)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "per request timeout")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of a table")

	root.AddCommand(newUsersCmd(a), newLogsCmd(a), newDashboardCmd(a))
	return root
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{out: os.Stdout, err: os.Stderr}

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
