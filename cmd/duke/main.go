// Package main is the entry point for the duke CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"duke/internal/backend/file"
	"duke/internal/backend/googletasks"
	"duke/internal/cli"
	"duke/internal/commands"
	"duke/internal/config"
	"duke/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		// A second interrupt falls through to the default handler.
		signal.Stop(sigChan)
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService, os.Stdin)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// newService picks the backend named in the config.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendGoogle:
		if !cfg.HasOAuthClient() {
			return nil, errors.New("auth: " + config.OAuthClientFile + " not found in " + cfg.Dir + " (run: duke login)")
		}
		if !cfg.HasToken() {
			return nil, errors.New("auth: not logged in (run: duke login)")
		}
		return googletasks.New(ctx, cfg)
	default:
		return file.New(cfg.DataPath, cfg.Log()), nil
	}
}
