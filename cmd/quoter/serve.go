package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"curve-mm-go/internal/container"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"
)

func serveCmd(ctx context.Context, cfgPath *string) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "requote on an interval and publish ladders to the venue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := container.New(*cfgPath, container.Options{DryRun: dryRun})
			if err != nil {
				return err
			}
			if err := c.Build(); err != nil {
				return err
			}
			if err := c.Start(ctx); err != nil {
				return err
			}
			if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "sd_notify: %v\n", err)
			}

			<-ctx.Done()
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			return c.Stop()
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "仅日志输出，不推送到交易场所")
	return cmd
}
