package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campuspulse/activity-rank/internal/server"
	"github.com/campuspulse/activity-rank/internal/store"
	"github.com/campuspulse/activity-rank/internal/timeparse"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ranking HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		reg, err := loadRegistry()
		if err != nil {
			return eris.Wrap(err, "load registry")
		}

		var st store.Store
		if cfg.Store.Driver != "" {
			st, err = openStore(ctx)
			if err != nil {
				return eris.Wrap(err, "open store")
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
		}

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		cache := timeparse.NewCache(cfg.Cache.MaxEntries)
		srv := server.New(serverCfg, reg, cache, st, cfg.Rank.Language)

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			if err := srv.Shutdown(context.Background()); err != nil {
				zap.L().Error("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", serverCfg.Port))
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
