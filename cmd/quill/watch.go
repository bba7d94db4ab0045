package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/quillworks/quill"
	"github.com/quillworks/quill/pkg/core"
	"github.com/quillworks/quill/pkg/lint"
	"github.com/quillworks/quill/pkg/site"
	"github.com/spf13/cobra"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch the vault and re-lint changed posts",
	Long: `Watch observes the vault for changes and lints each post as it is
created or modified. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		cfg, err := site.LoadConfig("", dir)
		if err != nil {
			fatal("Failed to load config", err)
		}

		service, err := quill.New(cfg.ContentDir,
			quill.WithVersioning(!bare),
			quill.WithMustExist(true),
			quill.WithIgnore(cfg.Ignore),
			quill.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open vault", err)
		}

		registry := lint.Defaults()
		if len(cfg.Lint.Disable) > 0 {
			registry.Disable(cfg.Lint.Disable...)
		}
		analyzer := lint.NewAnalyzer(registry, lint.WithIgnore(cfg.Ignore))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := service.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Println("Watching for changes. Ctrl-C to stop.")
		for event := range events {
			if event.Type == core.EventDelete {
				fmt.Printf("deleted: %s\n", event.ID)
				continue
			}

			relPath := event.ID + ".md"
			src, err := os.ReadFile(filepath.Join(cfg.ContentDir, relPath))
			if err != nil {
				slog.Default().Warn("failed to read changed post", "id", event.ID, "error", err)
				continue
			}

			diags := analyzer.AnalyzePost(relPath, src)
			if len(diags) == 0 {
				fmt.Printf("ok: %s\n", relPath)
				continue
			}
			for _, d := range diags {
				fmt.Println(d.String())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Only watch posts matching this glob (e.g. 'debugging/**')")
}
