// Command estecon fetches one endpoint of the API and prints the decoded JSON.
//
//	estecon [--base-url URL] [--compact] <endpoint>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/estecon/estecon-client/internal/config"
	"github.com/estecon/estecon-client/internal/logger"
	"github.com/estecon/estecon-client/pkg/fetcher"
	"github.com/estecon/estecon-client/pkg/httpclient"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit code. Fetch failures are logged to stderr by
// the fetcher boundary and are not printed again.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("estecon", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	baseURL := fs.String("base-url", "", "API base address (default from api_base_url)")
	compact := fs.Bool("compact", false, "print JSON on a single line")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: estecon [--base-url URL] [--compact] <endpoint>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	overrides := map[string]any{}
	if *baseURL != "" {
		overrides["api_base_url"] = *baseURL
	}
	cfg, err := config.LoadWithOverrides(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	// stdout carries the fetched document only.
	log, err := logger.InitWithWriter(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	base, err := fetcher.New(cfg.APIBaseURL, httpclient.NewRestyClient(httpclient.WithLogger(log.Sugared())))
	if err != nil {
		fmt.Fprintf(stderr, "init fetcher: %v\n", err)
		return 1
	}

	data, err := fetcher.Fetch(ctx, fetcher.NewLogged(base, log), fs.Arg(0))
	if err != nil {
		return 1
	}

	enc := json.NewEncoder(stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}
