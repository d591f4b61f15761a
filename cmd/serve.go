package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khedut-saathi/khedut/internal/config"
	"github.com/khedut-saathi/khedut/internal/devserver"
	"github.com/khedut-saathi/khedut/internal/logging"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development backend",
	Long: `Run a local backend that implements POST /messages, the product catalog and
sign-up. Answers come from the OpenAI API when an API key is configured,
otherwise the message is echoed back. The catalog starts with demo data.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := logging.NewConsole(verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		var responder devserver.Responder = devserver.EchoResponder{}
		if key := cfg.GetAPIKey(); key != "" {
			responder = devserver.NewOpenAIResponder(key, "", cfg.GetModel())
			logger.Info("answering with OpenAI", zap.String("model", cfg.GetModel()))
		} else {
			logger.Warn("no API key configured, echoing messages back")
		}

		addr := cfg.GetListenAddr()
		if listenAddr != "" {
			addr = listenAddr
		}
		srv, err := devserver.New(devserver.Options{
			Addr:          addr,
			AllowedOrigin: cfg.GetAllowedOrigin(),
			Responder:     responder,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "address to listen on (default from KHEDUT_LISTEN or :8080)")
	rootCmd.AddCommand(serveCmd)
}
