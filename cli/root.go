// Package cli implements the payroll command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/tutor-payroll/payroll"
	"github.com/warp/tutor-payroll/transfer"
	"golang.org/x/term"
)

// DefaultPayloadPath is where the payload is looked for without --payload.
const DefaultPayloadPath = "tutorpayrollpayload.json"

// App holds the process surroundings the commands use. Tests replace them.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Now func() time.Time

	// Interactive reports whether In is a terminal a person can answer on.
	Interactive func() bool

	// Getenv reads configuration from the environment.
	Getenv func(string) string

	// NewGateway builds the transfer gateway from an API key.
	NewGateway func(apiKey string) (payroll.TransferGateway, error)
}

// DefaultApp wires the real terminal, clock, environment and Stripe.
func DefaultApp() *App {
	return &App{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Now:         time.Now,
		Interactive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		Getenv:      os.Getenv,
		NewGateway: func(apiKey string) (payroll.TransferGateway, error) {
			return transfer.NewStripe(apiKey)
		},
	}
}

type options struct {
	payloadPath string
	envFile     string
	yes         bool
}

// NewRootCmd builds the command tree bound to app.
func NewRootCmd(app *App) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "payroll",
		Short: "Compute, document and send monthly tutor payroll",
		Long: `Reconcile the Square invoice export against the tutor roster in the
payroll payload and compute each tutor's take-home pay.

Without a subcommand an interactive menu asks what to do.

Subcommands:
  report    Show how much to transfer to Stripe before paying
  document  Write the payroll ledger without sending money
  pay       Write the ledger and send direct deposits (asks to confirm)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompter := NewPrompter(app.In, app.Out)
			mode, err := prompter.ChooseMode()
			if err != nil {
				return err
			}
			if mode.Transfers() {
				ok, err := prompter.ConfirmTransfers()
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			return runMode(cmd.Context(), app, opts, mode)
		},
	}
	root.PersistentFlags().StringVar(&opts.payloadPath, "payload", DefaultPayloadPath, "payroll payload file (.json or .toml)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file holding stripe_api_key")

	root.AddCommand(&cobra.Command{
		Use:   "report",
		Short: "Show how much to transfer to Stripe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd.Context(), app, opts, payroll.ModeReportOnly)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "document",
		Short: "Document tutors' monthly direct deposits without paying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd.Context(), app, opts, payroll.ModeDocumentOnly)
		},
	})

	payCmd := &cobra.Command{
		Use:   "pay",
		Short: "Send and document tutors' monthly direct deposits",
		Long: `Send a Stripe transfer to every payable tutor with a positive take-home
and write the payroll ledger.

Transfers cannot be undone. The command asks for confirmation; --yes
answers it up front, and is required when stdin is not a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.yes {
				if !app.Interactive() {
					return errors.New("refusing to send deposits without confirmation: pass --yes")
				}
				ok, err := NewPrompter(app.In, app.Out).ConfirmTransfers()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.Out, "No deposits sent.")
					return nil
				}
			}
			return runMode(cmd.Context(), app, opts, payroll.ModePayAndDocument)
		},
	}
	payCmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "confirm sending deposits without prompting")
	root.AddCommand(payCmd)

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	app := DefaultApp()
	root := NewRootCmd(app)
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(app.Err, "%s %v\n", errorStyle.Render("Error:"), err)
		return 1
	}
	return 0
}
