package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/wordbridge/internal/housekeeping"
	"github.com/abhisek/wordbridge/internal/server"
	"github.com/abhisek/wordbridge/internal/sessioncache"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and close stale sessions in the background",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = e.cfg.HTTP.Addr
		}

		var cache sessioncache.Cache
		if e.cfg.Redis.URL != "" {
			rc, err := sessioncache.NewRedis(ctx, e.cfg.Redis.URL, e.cfg.Session.CacheTTL)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer rc.Close()
			cache = rc
			e.logger.Info("session cache", zap.String("backend", "redis"))
		} else {
			cache = sessioncache.NewMemory(e.cfg.Session.CacheTTL)
			e.logger.Info("session cache", zap.String("backend", "memory"))
		}

		ctrl := e.controller()
		srv := server.New(server.Config{
			Sessions: ctrl,
			Settings: e.store.Settings(),
			Stats:    e.store.Stats(),
			Cache:    cache,
			Logger:   e.logger.Named("http"),
		})
		hk := housekeeping.New(ctrl, e.cfg.Housekeeping.Interval, e.cfg.Housekeeping.StaleAfter,
			e.logger.Named("housekeeping"))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.ListenAndServe(gctx, addr) })
		g.Go(func() error { return hk.Run(gctx) })
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: http.addr from config)")
}
