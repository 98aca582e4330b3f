package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/t-800m101/spothinta-go/archive"
	"github.com/t-800m101/spothinta-go/cache"
	"github.com/t-800m101/spothinta-go/config"
	"github.com/t-800m101/spothinta-go/porssisahko"
	"github.com/t-800m101/spothinta-go/task"
	"github.com/t-800m101/spothinta-go/www"
)

var Version = "?.?.?"

func main() {
	configPath := flag.String("config", "", "path to config file")
	serve := flag.Bool("serve", false, "regenerate on a schedule and serve the pages")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)
	logger.Debug("spothinta is starting...", slog.String("version", Version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var arch *archive.Archive
	if cnfg.Archive.Path != "" {
		arch, err = archive.New(ctx, cnfg.Archive.Path)
		if err != nil {
			exitWithError(logger, fmt.Errorf("failed to open price archive: %w", err))
		}
		defer arch.Close()
		arch.SetLogger(logger.With("module", "archive"))
	}

	tm, err := www.NewTemplateManager(logger.With("module", "www"), cnfg.Serve.WwwDir)
	if err != nil {
		exitWithError(logger, fmt.Errorf("template manager initialization error: %w", err))
	}

	client := porssisahko.New(
		cnfg.Feed.GetHourlyURL(),
		cnfg.Feed.GetQuarterURL(),
		cnfg.Feed.GetTimeout())
	store := cache.NewStore(cnfg.Cache.Dir, logger.With("module", "cache"))

	gen := task.NewGenerator(logger.With("module", "generator"), cnfg, client, store, arch, tm)

	if !*serve {
		if err := gen.Run(ctx); err != nil {
			exitWithError(logger, err)
		}
		logger.Info("pages generated", slog.String("dir", cnfg.Pages.OutputDir))
		return
	}

	// serve mode: generate now, then on schedule, and keep a preview
	// server in front of the output directory
	tasks := task.NewTasks(gen, arch, cnfg)
	tasks.GenerateTask()
	tasks.Run()
	defer tasks.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal", slog.Any("signal", sig))
		cancel()
	}()

	server := www.NewServer(cnfg.Serve.Address, cnfg.Serve.Port, cnfg.Pages.OutputDir)
	server.Run(ctx)
	logger.Info("spothinta is shutting down...")
}

func exitWithError(logger *slog.Logger, err error) {
	logger.Error("aborting run", slog.Any("error", err))
	os.Exit(1)
}
