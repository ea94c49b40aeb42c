package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/ping-network/internal/runner"
)

func main() {
	options := runner.ParseOptions()
	pingRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup close handler, a second signal exits immediately
	go func() {
		<-c
		fmt.Fprintln(os.Stderr, "\r- Ctrl+C pressed in Terminal, stopping scan...")
		cancel()
		<-c
		os.Exit(130)
	}()

	if err := pingRunner.Run(ctx); err != nil {
		gologger.Fatal().Msgf("Could not run ping-network: %s\n", err)
	}
}
