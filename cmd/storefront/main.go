package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/httpclient"
	"github.com/niksmo/storefront/internal/app"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/spf13/pflag"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const exitUnauthorized = 3

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	global.String("config", "", "config file")
	global.String("api-url", "", "backend base URL")
	global.Usage = func() { printUsage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if global.NArg() == 0 {
		printUsage(stderr, global)
		return 2
	}

	name, cmdArgs := global.Arg(0), global.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		printUsage(stderr, global)
		return 2
	}

	cfg, err := config.LoadArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 2
	}
	if name == "config" {
		cfg.Print()
		return 0
	}

	sigCtx, stop := sigctx.NotifyContext(context.Background())
	defer stop()

	ctx, cancel := context.WithCancel(sigCtx)
	a := app.New(ctx, cfg)
	a.Run()
	defer func() {
		cancel()
		a.Close()
	}()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	exec := cmd.setup(fs)
	if err := fs.Parse(cmdArgs); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	out, err := exec(ctx, a.Service, fs.Args())
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "usage: storefront %s %s\n", name, cmd.usage)
			fs.PrintDefaults()
			return 2
		}
		fmt.Fprintln(stderr, httpclient.ErrorMessage(err))
		if httpclient.IsUnauthorized(err) {
			fmt.Fprintln(stderr, "sign in and set api.session_token to the session cookie value")
			return exitUnauthorized
		}
		return 1
	}

	if out == nil {
		return 0
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, string(b))
	return 0
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: storefront [--config file] [--api-url url] <command> [flags] [args]")
	fmt.Fprintln(w, "\ncommands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-14s %s\n", name, commands[name].usage)
	}

	fmt.Fprintln(w, "\nflags:")
	global.SetOutput(w)
	global.PrintDefaults()
}
