package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"monadswap/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mini-app backend",
	Long: `Run the HTTP backend for the mini app: the quote proxy that keeps
the 0x API key server-side, the Farcaster manifest, and the webhook
receiver. Configured through MONADSWAP_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scfg, err := server.LoadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			scfg.Addr = serveAddr
		}
		if scfg.ZeroExAPIKey == "" && cfg.ZeroExAPIKey != "" {
			scfg.ZeroExAPIKey = cfg.ZeroExAPIKey
		}

		log := logrus.New()
		log.SetFormatter(&logrus.JSONFormatter{})
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		srv := server.New(scfg, server.NewHandlers(scfg, log), log)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		log.WithField("addr", scfg.Addr).Info("serving")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sig:
		case <-cmd.Context().Done():
		}

		log.Info("shutting down")
		return srv.Shutdown(context.Background())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
}
