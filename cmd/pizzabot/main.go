package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccastromar/pizzabot/internal/app"
)

const botName = "pizzabot"

var version = "dev"

// runner is the minimal interface our app must satisfy for running.
type runner interface{ Run(context.Context) error }

// appCtor is a constructor indirection to enable testing without launching the real app.
var appCtor = func() (runner, error) { return app.New(botName) }

// fatalf indirection allows testing fatal paths without exiting the test process.
var fatalf = log.Fatalf

func run(ctx context.Context) {
	a, err := appCtor()
	if err != nil {
		fatalf("Error: %v", err)
		return
	}
	if err := a.Run(ctx); err != nil {
		fatalf("Error: %v", err)
		return
	}
}

var rootCmd = &cobra.Command{
	Use:   botName,
	Short: "Order from Zalo's Pizzeria in your terminal",
	Long: `pizzabot takes a pizza order through a conversation with a hosted LLM.
It keeps a priced running order, prints the final summary and offers to
start another order. Type quit, exit or bye to leave.

The API key is read from GOOGLE_API_KEY or GEMINI_API_KEY, or from a .env
file in the working directory.`,
	Args:          cobra.NoArgs,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd.Context())
	},
}

func main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
