//go:build raspi

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bedclock/app"
	"bedclock/hal"
	"bedclock/internal/config"
)

func main() {
	var (
		configPath string
		stepEvery  int
	)
	flag.StringVar(&configPath, "config", "/etc/bedclock.toml", "Configuration file (TOML or YAML).")
	flag.IntVar(&stepEvery, "step-every", 10, "Milliseconds between app steps.")
	flag.Parse()

	appCfg := app.DefaultConfig()
	var opts hal.Options
	if f, err := config.Load(configPath); err == nil {
		if appCfg, err = f.AppConfig(time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", configPath, err)
			os.Exit(2)
		}
		opts = f.HALOptions()
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := hal.Run(ctx, opts, func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}, hal.RunConfig{StepEvery: stepEvery})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
