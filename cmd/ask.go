package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khedut-saathi/khedut/internal/app"
	"github.com/khedut-saathi/khedut/internal/channel"
	"github.com/khedut-saathi/khedut/internal/config"
	"github.com/khedut-saathi/khedut/internal/core"
	"github.com/khedut-saathi/khedut/internal/exchange"
	"github.com/khedut-saathi/khedut/internal/logging"
	"github.com/khedut-saathi/khedut/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask [message...]",
	Short: "Send a single message and print the answer",
	Long:  `Send one message to the active profile's backend and print the answer. Exits with status 1 when the exchange fails.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.IsValid() {
			return fmt.Errorf("profile '%s' has no backend URL; run: khedut profile edit %s", cfg.ActiveProfile, cfg.ActiveProfile)
		}

		dir, err := config.Dir()
		if err != nil {
			return err
		}
		logger, err := logging.NewFile(dir, verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		sess, err := sessionStore(dir).Load()
		if err != nil {
			logger.Warn("failed to load session", zap.Error(err))
		}

		ch, err := channel.NewHTTPChannel(channel.Options{
			BaseURL: cfg.GetBackendURL(),
			Timeout: cfg.GetTimeout(),
			Session: sess,
			Logger:  logger.Named("channel"),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ex, err := core.Ask(ctx, ch, strings.Join(args, " "))
		if errors.Is(err, exchange.ErrEmptyInput) {
			return errors.New(core.NoticeEmptyInput)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ex.Answer)
		if ex.Status == exchange.StatusFailed {
			logger.Info("exchange failed", zap.String("id", ex.ID), zap.Error(ex.Err))
			return fmt.Errorf("exchange failed: %w", ex.Err)
		}
		return nil
	},
}

func sessionStore(dir string) *session.Store {
	return session.NewStore(filepath.Join(dir, app.SessionFileName))
}

func init() {
	rootCmd.AddCommand(askCmd)
}
