package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khedut-saathi/khedut/internal/app"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "khedut",
	Short:        "Khedut Saathi chat client",
	Long:         `Khedut Saathi is a terminal chat client for farmers and buyers, talking to the Khedut Saathi backend.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	application, err := app.NewApplication(verbose)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(profileCmd)
}
