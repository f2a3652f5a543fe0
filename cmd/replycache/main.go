package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/replycache/config"
	"github.com/unkn0wn-root/replycache/internal/app"
	zaplog "github.com/unkn0wn-root/replycache/log/zap"
)

var version = "dev"

type globals struct {
	configPath string
	debug      bool
	model      string
	temp       float64
}

func main() {
	g := &globals{}
	root := &cobra.Command{
		Use:           "replycache",
		Short:         "Supportive replies served through a response cache",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to YAML config (REPLYCACHE_* env vars override it)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "development logging at debug level")
	root.PersistentFlags().StringVar(&g.model, "model", "", "model name for the cache key (default from config)")
	root.PersistentFlags().Float64Var(&g.temp, "temperature", -1, "temperature for the cache key (default from config)")

	root.AddCommand(
		newAskCmd(g),
		newChatCmd(g),
		newStatsCmd(g),
		newClearCmd(g),
		newInvalidateCmd(g),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// open loads config and builds the app. The returned func releases both.
func (g *globals) open(ctx context.Context) (*app.App, *zap.Logger, func(), error) {
	zl, err := newLogger(g.debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		_ = zl.Sync()
		return nil, nil, nil, err
	}
	if g.model != "" {
		cfg.Model = g.model
	}
	if g.temp >= 0 {
		cfg.Temperature = g.temp
	}

	a, err := app.Build(ctx, cfg, app.Options{Logger: zaplog.New(zl)})
	if err != nil {
		_ = zl.Sync()
		return nil, nil, nil, err
	}
	done := func() {
		_ = a.Close(context.Background())
		_ = zl.Sync()
	}
	return a, zl, done, nil
}
