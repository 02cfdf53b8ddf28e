package main

import (
	"github.com/spf13/cobra"

	"srcfix/internal/loggerfix"
)

func (c *cli) newFixLoggerCmd() *cobra.Command {
	var dryRun bool
	var backup bool
	var jsonOutput bool
	var failOnChanges bool
	var workers int

	cmd := &cobra.Command{
		Use:     "fix-logger [path]",
		Aliases: []string{"fixlog"},
		Short:   "Repair logger calls left malformed by replace-prints",
		Long: `Truncates leftover text or a stray quote after a complete
<receiver>.<level>("...", category: .<category>) call.

Calls whose message was cut at a nil-coalescing operator (?? "") are reported
for manual review and left unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := c.cfg.SourceDir
			if len(args) == 1 {
				target = args[0]
			}

			fileOpts, err := c.cfg.FileOptions(target)
			if err != nil {
				return err
			}
			fixer, err := loggerfix.New(loggerfix.Options{
				Receiver: c.cfg.Logger.Receiver,
				DryRun:   dryRun,
				Backup:   backup,
				Files:    fileOpts,
				Workers:  firstPositive(workers, c.cfg.Workers),
				Logger:   c.logger,
			})
			if err != nil {
				return err
			}

			report, runErr := fixer.Run(target)
			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := emitJSON(out, report); err != nil {
					return err
				}
			} else {
				printEdits(out, report)
				printSummary(out, "fix-logger", report)
			}
			if runErr != nil {
				return runErr
			}
			if failOnChanges && dryRun && report.PlannedEdits > 0 {
				return pendingChangesError("fix-logger", report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report what would be fixed")
	cmd.Flags().BoolVar(&backup, "backup", false, "keep a .backup copy of every fixed file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	cmd.Flags().BoolVar(&failOnChanges, "fail-on-changes", false, "with --dry-run, exit 3 when fixes are pending")
	cmd.Flags().IntVar(&workers, "workers", 0, "files processed concurrently (default workers from config, else GOMAXPROCS)")
	return cmd
}
