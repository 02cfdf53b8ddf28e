package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"srcfix/internal/emailsync"
)

func (c *cli) newSyncEmailCmd() *cobra.Command {
	var dryRun bool
	var plistPath string
	var baseDir string
	var watch bool
	var debounce time.Duration
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "sync-email",
		Aliases: []string{"email"},
		Short:   "Copy SUPPORT_EMAIL from Info.plist into the legal documents",
		Long: `Reads the support address from Info.plist and writes it into the markdown
legal documents, replacing the placeholder address or any address following an
"Email:" label. With --watch the documents are re-synced whenever the plist
changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.cfg.SyncOptions()
			opts.DryRun = dryRun
			opts.Logger = c.logger
			if plistPath != "" {
				opts.PlistPath = plistPath
			}
			if baseDir != "" {
				opts.BaseDir = baseDir
			}

			out := cmd.OutOrStdout()
			report, err := emailsync.Sync(opts)
			if printErr := printSyncReport(out, report, jsonOutput); printErr != nil {
				return printErr
			}
			if err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return emailsync.Watch(ctx, opts, debounce, func(report emailsync.Report, err error) {
				if err != nil {
					c.logger.Error("sync failed", zap.Error(err))
					return
				}
				if printErr := printSyncReport(out, report, jsonOutput); printErr != nil {
					c.logger.Error("print report failed", zap.Error(printErr))
				}
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report which documents would change")
	cmd.Flags().StringVar(&plistPath, "plist", "", "Info.plist path (default legal.plist from config)")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "directory holding the documents (default legal.base_dir from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-sync when the plist changes")
	cmd.Flags().DurationVar(&debounce, "debounce", emailsync.DefaultDebounce, "delay before re-syncing after a change")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	return cmd
}

func printSyncReport(w io.Writer, report emailsync.Report, jsonOutput bool) error {
	if jsonOutput {
		return emitJSON(w, report)
	}
	for _, doc := range report.Documents {
		switch {
		case doc.Error != "":
			fmt.Fprintf(w, "%s %s error=%s\n", doc.Path, doc.Status, doc.Error)
		case doc.Replacements > 0:
			fmt.Fprintf(w, "%s %s replacements=%d\n", doc.Path, doc.Status, doc.Replacements)
		default:
			fmt.Fprintf(w, "%s %s\n", doc.Path, doc.Status)
		}
	}
	if report.Email != "" {
		fmt.Fprintf(w, "sync-email: %s=%s updated=%d/%d\n", report.Key, report.Email, report.Updated, report.Total)
	}
	if report.DryRun {
		fmt.Fprintln(w, "sync-email: dry-run (drop --dry-run to write documents)")
	}
	return nil
}
