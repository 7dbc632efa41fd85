package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"systemdcron/internal/config"
	"systemdcron/internal/generator"
	logx "systemdcron/pkg/logx"
)

// rootCmd is invoked by systemd as "<generator> normal-dir early-dir late-dir".
// Only the first directory is used. Without arguments it runs in debug
// mode and writes into the temp dir.
var rootCmd = &cobra.Command{
	Use:   "systemd-crontab-generator [normal-dir [early-dir late-dir]]",
	Short: "Translate crontab and anacrontab entries into systemd timers",
	Long: `systemd-crontab-generator reads /etc/crontab, /etc/anacrontab, /etc/cron.d,
the /etc/cron.<period> run-parts directories and the per-user crontab spool,
and writes one .timer/.service pair per job into the output directory.`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func run(cmd *cobra.Command, args []string) error {
	debug := len(args) == 0
	dest := os.TempDir()
	if !debug {
		dest = args[0]
	}

	cfgPath := config.ResolvePath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", logx.DefaultTag, err)
		return err
	}

	svc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Tag:     logx.DefaultTag,
		Debug:   debug,
		Journal: cfg.Logging.Journal,
		Kmsg: logx.KmsgConfig{
			Path:       cfg.Logging.Kmsg,
			RatePerSec: cfg.Logging.KmsgRatePerSec,
			Burst:      cfg.Logging.KmsgBurst,
		},
	})
	defer svc.Close()

	unix.Umask(0o022)

	log.Debug("starting", logx.String("dest", dest), logx.String("config", cfgPath))
	if _, err := generator.New(cfg, dest, log).Run(); err != nil {
		log.Error("aborting", logx.Err(err))
		return err
	}
	return nil
}
