//go:build !raspi

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"bedclock/app"
	"bedclock/hal"
	"bedclock/internal/buildinfo"
	"bedclock/internal/config"
)

func main() {
	var cfg hal.HeadlessConfig
	var (
		tui        bool
		script     string
		configPath string
		version    bool
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless and terminal mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&script, "script", "", `Buttons clicked one per second in headless mode, e.g. "o+o-c".`)
	flag.BoolVar(&tui, "tui", false, "Render the panel in the terminal.")
	flag.StringVar(&configPath, "config", "", "Configuration file (TOML or YAML).")
	flag.BoolVar(&version, "version", false, "Print the version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	appCfg, opts, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Script, err = hal.ParseButtons(script); err != nil {
		fmt.Fprintln(os.Stderr, "-script:", err)
		os.Exit(2)
	}
	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case cfg.Enabled:
		err = hal.RunHeadless(ctx, opts, newApp, cfg)
	case tui:
		err = hal.RunTerminal(ctx, opts, newApp, cfg.Hz)
	default:
		err = hal.RunWindow(opts, newApp)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (app.Config, hal.Options, error) {
	if path == "" {
		return app.DefaultConfig(), hal.Options{}, nil
	}
	f, err := config.Load(path)
	if err != nil {
		return app.Config{}, hal.Options{}, err
	}
	cfg, err := f.AppConfig(time.Now())
	if err != nil {
		return app.Config{}, hal.Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, f.HALOptions(), nil
}
