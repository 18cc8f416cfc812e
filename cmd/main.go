package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "groupbuy",
	Short: "Group-buying campaign lifecycle and settlement engine",
	Long: `groupbuy runs group-buying campaigns: organizations pledge quantities,
the committed total picks a discount bracket, and locked campaigns are
invoiced, charged and fulfilled.`,
	SilenceUsage: true,
}

// main is the entry point of the groupbuy service. Subcommands load their
// configuration from environment variables; SIGINT and SIGTERM cancel the
// command's context so servers and schedulers shut down gracefully.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		cancel()
		os.Exit(1)
	}
}
