// Command clockctl inspects and prepares bedclock alarm storage from a
// workstation.
//
//	clockctl next     [-config f] [-backup f] [-at "2006-01-02 15:04"]
//	clockctl set      -slot n [-enabled] (-schedule cron | -one-time HH:MM) [-backup f]
//	clockctl encode   [-enabled] (-schedule cron | -one-time HH:MM)
//	clockctl decode   word
//	clockctl ics      [-config f] [-backup f] [-out f] [-tz zone] [-device name]
//	clockctl autostart enable|disable|status [-exec path]
//	clockctl version
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

var errUsage = errors.New("usage: clockctl next|set|encode|decode|ics|autostart|version [flags]")

type command struct {
	name string
	run  func(args []string, stdout io.Writer) error
}

var commands = []command{
	{"next", runNext},
	{"set", runSet},
	{"encode", runEncode},
	{"decode", runDecode},
	{"ics", runICS},
	{"autostart", runAutostart},
	{"version", runVersion},
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(args[1:], stdout)
		}
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet("clockctl "+name, flag.ContinueOnError)
}
