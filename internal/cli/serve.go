package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"popdash/internal/api"
	"popdash/internal/config"
	"popdash/internal/engine"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API.",
		Long: `Serve the dashboard API.
	The server starts immediately and answers 503 until the countries CSV
	has been loaded in the background.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Addr = getString(cmd, "addr")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().String("addr", "", "listen `address` (default $POPDASH_ADDR)")
	return cmd
}

// serve runs until ctx is cancelled or loading fails.
func serve(ctx context.Context, cfg config.Config) error {
	// The API is "live" right away but returns 503 until SetData.
	h := api.NewHandler(nil, cfg.TopN)
	e := api.NewServer(h, cfg.RateLimit)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("BACKGROUND: Loading countries table...")
		t0 := time.Now()

		t, err := engine.LoadFile(cfg.DataPath, cfg.Years)
		if err != nil {
			return err
		}
		h.SetData(t)

		log.Infof("BACKGROUND: Load complete in %v. API is fully ready.", time.Since(t0))
		return nil
	})

	g.Go(func() error {
		log.Infof("Server ready on %s (data loading in background...)", cfg.Addr)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("Shutting down")
		return e.Shutdown(sctx)
	})

	return g.Wait()
}
