package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/tutor-payroll/document"
	"github.com/warp/tutor-payroll/factory"
	"github.com/warp/tutor-payroll/ingestion"
	"github.com/warp/tutor-payroll/payroll"
	"github.com/warp/tutor-payroll/payroll/store"
)

const lockTimeout = 5 * time.Second

// runMode loads inputs, runs the pipeline for mode and prints its outcome.
func runMode(ctx context.Context, app *App, opts *options, mode payroll.Mode) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := factory.LoadPayload(opts.payloadPath)
	if err != nil {
		return err
	}
	rows, err := ingestion.LoadInvoices(cfg.InvoicePath)
	if err != nil {
		return err
	}

	startedAt := app.Now()
	logger, closer, err := document.OpenRunLog(cfg.DocumentDir, startedAt)
	if err != nil {
		return err
	}
	defer closer.Close()

	invoices := store.NewMemory(rows)
	logger.Printf("Loaded %d invoice rows from %s", invoices.Len(), cfg.InvoicePath)

	runner := payroll.NewRunner(cfg, invoices)
	runner.Logger = logger
	runner.Now = func() time.Time { return startedAt }
	runner.OnTutor = func(t payroll.Tutor) {
		fmt.Fprintln(app.Out, dimStyle.Render(fmt.Sprintf("Handling tutor %s @%s", t.Name, t.ID)))
	}

	if mode.Documents() {
		lock, err := document.LockDir(ctx, cfg.DocumentDir, lockTimeout)
		if err != nil {
			return err
		}
		defer lock.Unlock()
		runner.Sink = document.NewWriter(cfg.DocumentDir)
	}

	if mode.Transfers() {
		gateway, err := app.NewGateway(stripeKey(app, opts.envFile))
		if err != nil {
			return fmt.Errorf("connect to Stripe: %w", err)
		}
		runner.Gateway = gateway
	}

	result, err := runner.Run(ctx, mode)
	if err != nil {
		return err
	}

	printResult(app, result)
	return nil
}

// stripeKey reads the key from the environment, loading envFile first if it
// exists. Variables already set in the environment win.
func stripeKey(app *App, envFile string) string {
	if envFile != "" {
		env, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(app.Err, "%s reading %s: %v\n", warningStyle.Render("Warning:"), envFile, err)
		}
		for _, name := range []string{"stripe_api_key", "STRIPE_API_KEY"} {
			if v := app.Getenv(name); v != "" {
				return v
			}
			if v := env[name]; v != "" {
				return v
			}
		}
		return ""
	}
	if v := app.Getenv("stripe_api_key"); v != "" {
		return v
	}
	return app.Getenv("STRIPE_API_KEY")
}

func printResult(app *App, result *payroll.RunResult) {
	w := app.Out
	fmt.Fprintln(w)
	printPayoutTable(w, result.Payouts)
	fmt.Fprintln(w)

	switch result.Mode {
	case payroll.ModeReportOnly:
		fmt.Fprintf(w, "Total to Transfer to Stripe: %s\n", boldStyle.Render(result.Total.StringFixed(payroll.CentPlaces)))
		return
	case payroll.ModeDocumentOnly:
		fmt.Fprintf(w, "Ledger written to %s\n", result.LedgerPath)
		return
	}

	fmt.Fprintf(w, "Ledger written to %s\n", result.LedgerPath)
	if len(result.Failures) > 0 {
		fmt.Fprintln(w, warningStyle.Render("Unable to send direct deposits to the following:"))
		for _, t := range result.Failures {
			fmt.Fprintf(w, "%s %s\n", t.Name, t.ID)
		}
		return
	}
	fmt.Fprintln(w, successStyle.Render("Success! All tutors have been paid."))
}
