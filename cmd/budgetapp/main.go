// Package main provides the budgetapp binary: an HTTP server for the web
// client and subcommands that work on the same local store.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"budgetapp/internal/backend"
	"budgetapp/internal/cli"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "budgetapp"
)

// appKey carries the opened App through the command context.
type appKey struct{}

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := execute(rootCmd()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs root and closes the app opened for the executed command.
func execute(root *cobra.Command) error {
	cmd, err := root.ExecuteC()
	if cmd != nil && cmd.Context() != nil {
		if app, ok := cmd.Context().Value(appKey{}).(*cli.App); ok {
			if cerr := app.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}
	return err
}

func rootCmd() *cobra.Command {
	var overrides cli.Overrides

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Personal expense ledger with a monthly budget",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipApp"] == "true" {
				return nil
			}
			cli.LoadEnvFile()
			cfg, err := cli.LoadConfig(overrides)
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(cfg, os.Stderr)
			app, err := cli.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&overrides.Backend, "backend", "",
		fmt.Sprintf("Storage backend (%s); overrides DATA_BACKEND", strings.Join(backend.GetBackendTypeStrings(), ", ")))
	cmd.PersistentFlags().StringVar(&overrides.DBPath, "db", "", "SQLite database path; overrides SQLITE_DB_PATH")

	cmd.AddCommand(
		serveCmd(),
		signupCmd(),
		loginCmd(),
		profileCmd(),
		logoutCmd(),
		budgetCmd(),
		expenseCmd(),
		summaryCmd(),
		chartCmd(),
		&cobra.Command{
			Use:         "version",
			Short:       "Print version information",
			Annotations: map[string]string{"skipApp": "true"},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)
	return cmd
}

// appFrom returns the App opened by the root command.
func appFrom(cmd *cobra.Command) *cli.App {
	app, ok := cmd.Context().Value(appKey{}).(*cli.App)
	if !ok {
		// Only reachable when a command skips PersistentPreRunE by mistake.
		panic("budgetapp: command ran without an opened app")
	}
	return app
}
