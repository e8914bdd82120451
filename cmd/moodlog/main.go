package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/emotion-log/internal/cli"
	"github.com/dtroode/emotion-log/internal/client"
	"github.com/dtroode/emotion-log/internal/client/credential"
	"github.com/dtroode/emotion-log/internal/config"
	"github.com/dtroode/emotion-log/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewClientConfig()
	if err != nil {
		log.Printf("failed to parse config: %v", err)
		return 1
	}

	fs := flag.NewFlagSet("moodlog", flag.ContinueOnError)
	apiURL := fs.String("api-url", cfg.APIURL, "base URL of the emotion log API")
	dataDir := fs.String("data-dir", cfg.DataDir, "directory holding the saved session")
	ephemeral := fs.Bool("ephemeral", false, "keep the session in memory only")
	version := fs.Bool("version", false, "print build information and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}

	if *version {
		fmt.Printf("moodlog %s (%s, %s)\n", buildVersion, buildCommit, buildDate)
		return 0
	}

	// Logs go to stderr so command output stays clean.
	logger := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	var store credential.Store
	if *ephemeral {
		store = credential.NewMemory()
	} else {
		badgerStore, err := credential.NewBadger(*dataDir, logger)
		if err != nil {
			logger.Error("failed to open session store", "dir", *dataDir, "error", err)
			return 1
		}
		defer badgerStore.Close()
		store = badgerStore
	}

	c, err := client.New(client.Options{BaseURL: *apiURL, Timeout: cfg.Timeout}, store, logger)
	if err != nil {
		logger.Error("failed to initialize client", "error", err)
		return 1
	}

	app := cli.New(c, os.Stdin, os.Stdout, logger)
	code := app.Run(ctx, fs.Args())

	// Wait for a background profile fetch before the store is closed.
	c.Auth.WaitProfile()
	return code
}
