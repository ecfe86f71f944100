package main

import (
	"fmt"
	"os"

	"b2bdesk/internal/infrastructure/logger"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative tooling for the wholesale back office",
	Long: `Administrative CLI for provisioning and maintaining the
wholesale back office. It talks to the same DynamoDB endpoint the API
uses, so a local stack only needs DYNAMODB_ENDPOINT set.`,
}

func main() {
	if err := logger.Setup(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("admin")
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
