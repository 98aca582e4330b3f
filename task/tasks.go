package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/t-800m101/spothinta-go/archive"
	"github.com/t-800m101/spothinta-go/config"
)

// Tasks schedules page regeneration and archive maintenance in serve
// mode. A failed regeneration keeps the previous pages on disk and is
// retried on the next tick.
type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	GenerateTask    func()
	MaintenanceTask func()
}

func NewTasks(gen *Generator, arch *archive.Archive, cnfg *config.AppConfig) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		GenerateTask:    newGenerateTask(logger.With(slog.String("task", "generate")), gen),
		MaintenanceTask: newMaintenanceTask(logger.With(slog.String("task", "maintenance")), arch, cnfg),
	}
}

func (t *Tasks) Run() {
	if _, err := t.cron.AddFunc(t.cnfg.Serve.GetRegenerateAt(), t.GenerateTask); err != nil {
		panic(err)
	}
	if _, err := t.cron.AddFunc("30 3 * * *", t.MaintenanceTask); err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}

func newGenerateTask(logger *slog.Logger, gen *Generator) func() {
	return func() {
		logger.Debug("running generation task...")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := gen.Run(ctx); err != nil {
			logger.Error("page generation failed", slog.Any("error", err))
			return
		}
		logger.Info("generation task done")
	}
}

func newMaintenanceTask(logger *slog.Logger, arch *archive.Archive, cnfg *config.AppConfig) func() {
	return func() {
		if arch == nil {
			return
		}
		logger.Debug("running maintenance task...")
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := arch.Purge(ctx, cnfg.Archive.GetRetentionDays()); err != nil {
			logger.Error("archive purge failed", slog.Any("error", err))
		}
	}
}
