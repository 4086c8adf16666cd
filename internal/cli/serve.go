package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/api"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/template"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve template previews and version history over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			variants, err := a.selectedVariants()
			if err != nil {
				return err
			}
			format, err := template.ParseFormat(a.cfg.Output.Format)
			if err != nil {
				return err
			}

			svc, closeFn, err := a.openService()
			if err != nil {
				return err
			}
			defer closeFn()

			router := api.NewRouter(svc, api.Options{
				APIKey:   a.cfg.Server.APIKey,
				Variants: variants,
				Format:   format,
				Logger:   a.logger,
			})

			// Create HTTP server
			server := &http.Server{
				Addr:         a.cfg.Server.Addr(),
				Handler:      router,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server listening",
					zap.String("addr", server.Addr),
					zap.String("stack", svc.StackName()),
					zap.Bool("auth", a.cfg.Server.APIKey != ""))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server")

			// Graceful shutdown with timeout
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}
