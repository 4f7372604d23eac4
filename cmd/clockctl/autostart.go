package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bedclock/internal/buildinfo"

	"github.com/emersion/go-autostart"
)

// clockApp describes the bedclock binary next to clockctl.
func clockApp(execPath string, args []string) (*autostart.App, error) {
	if execPath == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, err
		}
		if self, err = filepath.EvalSymlinks(self); err != nil {
			return nil, err
		}
		execPath = filepath.Join(filepath.Dir(self), "bedclock")
	}
	return &autostart.App{
		Name:        "bedclock",
		DisplayName: "Bedside clock",
		Exec:        append([]string{execPath}, args...),
	}, nil
}

func runAutostart(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: autostart enable|disable|status", errUsage)
	}
	action := args[0]
	fs := newFlagSet("autostart " + action)
	execPath := fs.String("exec", "", "bedclock binary (default: next to clockctl).")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	a, err := clockApp(*execPath, fs.Args())
	if err != nil {
		return err
	}

	switch action {
	case "enable":
		if a.IsEnabled() {
			fmt.Fprintln(stdout, "autostart already enabled")
			return nil
		}
		if err := a.Enable(); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		fmt.Fprintf(stdout, "autostart enabled: %v\n", a.Exec)
	case "disable":
		if !a.IsEnabled() {
			fmt.Fprintln(stdout, "autostart already disabled")
			return nil
		}
		if err := a.Disable(); err != nil {
			return fmt.Errorf("disable autostart: %w", err)
		}
		fmt.Fprintln(stdout, "autostart disabled")
	case "status":
		fmt.Fprintf(stdout, "autostart enabled: %v\n", a.IsEnabled())
	default:
		return fmt.Errorf("%w: autostart enable|disable|status", errUsage)
	}
	return nil
}

func runVersion(args []string, stdout io.Writer) error {
	fmt.Fprintln(stdout, buildinfo.String())
	return nil
}
