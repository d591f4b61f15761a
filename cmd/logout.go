package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khedut-saathi/khedut/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := sessionStore(dir).Invalidate(); err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		sess, err := sessionStore(dir).Load()
		if err != nil {
			return err
		}
		fmt.Println(sess.Greeting())
		if sess.Authenticated && sess.Email != "" {
			fmt.Println(sess.Email)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
