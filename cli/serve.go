package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			sugar := application.Logger.Sugar()
			if port == "" {
				port = application.Config.AppPort
			}
			if port == "" {
				port = "3000"
			}

			srv := &http.Server{
				Addr:    ":" + port,
				Handler: application.Router(),
			}

			errCh := make(chan error, 1)
			go func() {
				sugar.Infof("Server is running on port %s", port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			// The root context is cancelled on SIGINT or SIGTERM.
			select {
			case err := <-errCh:
				if err != nil {
					sugar.Errorf("ListenAndServe error: %v", err)
				}
				return err
			case <-cmd.Context().Done():
			}
			sugar.Info("Shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				sugar.Errorf("Server forced to shutdown: %v", err)
				return err
			}
			sugar.Info("Server exiting")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (defaults to APP_PORT)")
	return cmd
}
