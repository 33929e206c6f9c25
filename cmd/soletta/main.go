// Command soletta is an interactive Solana wallet: balances, transfers,
// airdrops, stake and vote account management, and ledger inspection,
// driven by a menu loop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solettadev/soletta/internal/config"
	"github.com/solettadev/soletta/internal/logger"
	"github.com/solettadev/soletta/internal/router"
	"github.com/solettadev/soletta/internal/session"
	"github.com/solettadev/soletta/internal/ui"
)

var configFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:           "soletta",
		Short:         "Interactive Solana wallet",
		Long:          "Soletta is an interactive command-line Solana wallet: transfers, airdrops, stake and vote account management, and ledger inspection.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	rootCmd.Flags().StringVar(&configFlag, "config", "", "path to config file (default ~/.soletta/config.toml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := configFlag
	if cfgPath == "" {
		var err error
		cfgPath, err = config.Path()
		if err != nil {
			return err
		}
	}

	// First run: write defaults so the operator has a file to edit.
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.Save(config.Default(), cfgPath); err != nil {
			return err
		}
		fmt.Printf("Created default configuration at %s\n", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	sess, err := session.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	console := ui.NewConsole()
	console.Dimf("Wallet: %s", sess.Pubkey.String())
	console.Dimf("Endpoint: %s (%s)", cfg.RPCURL, cfg.Commitment)

	r := router.New(cfg, cfgPath, sess, console, ui.NewPrompter(), log)
	r.Run(ctx)
	return nil
}
