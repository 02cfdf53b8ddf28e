package main

import (
	"errors"

	"github.com/spf13/cobra"

	"srcfix/internal/model"
	"srcfix/internal/printfix"
)

func (c *cli) newReplacePrintsCmd() *cobra.Command {
	var dryRun bool
	var filePath string
	var dir string
	var jsonOutput bool
	var failOnChanges bool
	var workers int

	cmd := &cobra.Command{
		Use:     "replace-prints [path]",
		Aliases: []string{"prints"},
		Short:   "Rewrite print(...) calls into structured logger calls",
		Long: `Rewrites print("...") calls into <receiver>.<level>("...", category: .<category>).

The level comes from emoji markers or keywords in the message, the category
from the file path. Every rewritten file keeps its original content in a
.backup file next to it. Files that already mention the logger type are skipped.`,
		Example: `  srcfix replace-prints --dry-run
  srcfix replace-prints --file Hohma/Core/Services/NetworkManager.swift
  srcfix replace-prints --dir Hohma --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath != "" && len(args) == 1 {
				return errors.New("use either --file or a path argument, not both")
			}
			positional := ""
			if len(args) == 1 {
				positional = args[0]
			}
			target := firstNonEmpty(filePath, positional, dir, c.cfg.SourceDir)

			fileOpts, err := c.cfg.FileOptions(target)
			if err != nil {
				return err
			}
			rewriter, err := printfix.New(printfix.Options{
				Rules:   c.cfg.Logger,
				DryRun:  dryRun,
				Files:   fileOpts,
				Workers: firstPositive(workers, c.cfg.Workers),
				Logger:  c.logger,
			})
			if err != nil {
				return err
			}

			var report model.Report
			var runErr error
			if filePath != "" {
				report, runErr = rewriter.RunFile(filePath)
			} else {
				report, runErr = rewriter.Run(target)
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := emitJSON(out, report); err != nil {
					return err
				}
			} else {
				printEdits(out, report)
				printSummary(out, "replace-prints", report)
			}
			if runErr != nil {
				return runErr
			}
			if failOnChanges && dryRun && report.PlannedEdits > 0 {
				return pendingChangesError("replace-prints", report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report what would be replaced")
	cmd.Flags().StringVar(&filePath, "file", "", "process a single file, even one that already uses the logger")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to scan (default source_dir from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
	cmd.Flags().BoolVar(&failOnChanges, "fail-on-changes", false, "with --dry-run, exit 3 when rewrites are pending")
	cmd.Flags().IntVar(&workers, "workers", 0, "files processed concurrently (default workers from config, else GOMAXPROCS)")
	return cmd
}
