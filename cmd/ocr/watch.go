package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opencodereview/opencodereview/storage"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Revalidate a review document whenever it changes",
		Long: `Watch monitors a review document and reports its validity and derived
status after every change, until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := args[0]
			report(path, storageLoadResult(path))

			w, err := storage.NewWatcher(path, cfg.Watch.GetDebounceDelay(), slog.Default())
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			done := make(chan struct{})
			go func() {
				defer close(done)
				for ev := range w.Events() {
					report(ev.Path, ev)
				}
			}()

			err = w.Run(ctx)
			<-done
			if ctx.Err() != nil {
				// Interrupted; a clean exit.
				return nil
			}
			return err
		},
	}

	return cmd
}

func storageLoadResult(path string) storage.Event {
	rev, err := storage.Load(path)
	return storage.Event{Path: path, Review: rev, Err: err}
}

func report(path string, ev storage.Event) {
	if ev.Err != nil {
		fmt.Printf("%s: INVALID: %v\n", path, ev.Err)
		return
	}
	fmt.Printf("%s: OK (%d activities, %d visible, status %s)\n",
		path, len(ev.Review.Activities), len(ev.Review.VisibleActivities()), ev.Review.Status())
}
