package commands

import (
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/aaz50/ByteIntern/config"
	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/logger"
)

// WatchCmd runs the pipeline on a fixed interval until interrupted.
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on a schedule until interrupted",
	Long: `Watch runs a full pipeline pass immediately and then again on the
configured interval (watch.every, default 1h). A pass still in flight when the
next tick fires causes that tick to be skipped. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadValidatedConfig()
		if err != nil {
			return err
		}
		return runWatch(cmd, cfg)
	},
}

func runWatch(cmd *cobra.Command, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var running sync.Mutex
	pass := func() {
		if !running.TryLock() {
			logger.Warnw("Previous pass still running, skipping this tick")
			return
		}
		defer running.Unlock()

		if err := executeRun(ctx, cfg, false); err != nil {
			logger.Errorw("Scheduled pass failed", "error", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc("@every "+cfg.Watch.Every, pass); err != nil {
		return errors.Wrapf(err, "invalid watch interval %q", cfg.Watch.Every)
	}

	fmt.Printf("Watching for new listings every %s, press Ctrl-C to stop\n", cfg.Watch.Every)

	pass()
	c.Start()

	<-ctx.Done()
	logger.Infof("Shutting down")
	<-c.Stop().Done()
	return nil
}
