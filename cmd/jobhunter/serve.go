package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobhunter/internal/events"
	"jobhunter/internal/httpapi"
	"jobhunter/internal/task"
)

var flagPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, with optional periodic scraping",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hub := events.NewHub()
		eng := a.engine(hub)

		port := a.cfg.App.Port
		if flagPort != 0 {
			port = flagPort
		}

		srv := &http.Server{
			Addr: fmt.Sprintf("127.0.0.1:%d", port),
			Handler: httpapi.Handler(httpapi.Deps{
				DB:        a.db.Pool,
				Cfg:       a.cfg,
				Log:       a.log,
				Hub:       hub,
				Tasks:     task.NewRegistry(),
				RunScrape: eng.Scrape,
				RunScore:  eng.Score,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			a.log.Info("api listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutCtx)
		})

		if iv := a.cfg.Poll.IntervalMinutes; iv > 0 {
			g.Go(func() error {
				ticker := time.NewTicker(time.Duration(iv) * time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						if _, err := eng.Scrape(ctx, nil); err != nil {
							a.log.Warn("periodic scrape failed", zap.Error(err))
						}
					}
				}
			})
		}

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (overrides the config)")
}
