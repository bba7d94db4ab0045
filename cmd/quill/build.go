package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/quillworks/quill"
	"github.com/quillworks/quill/pkg/core"
	"github.com/quillworks/quill/pkg/site"
	"github.com/spf13/cobra"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Build the static HTML site",
	Long: `Build renders every non-draft post in the vault to HTML under the
configured output directory, with syntax-highlighted code blocks and an
index page sorted by date.`,
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
		if buildOut != "" {
			cfg.OutputDir = buildOut
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

		ctx := context.Background()

		listed, err := service.ListPosts(ctx)
		if err != nil {
			fatal("Failed to list posts", err)
		}

		// List may serve metadata from the index; rendering needs the body.
		posts := make([]core.Post, 0, len(listed))
		for _, p := range listed {
			full, err := service.GetPost(ctx, p.ID)
			if err != nil {
				fatal(fmt.Sprintf("Failed to read post %s", p.ID), err)
			}
			posts = append(posts, full)
		}

		builder, err := site.NewBuilder(cfg, slog.Default())
		if err != nil {
			fatal("Failed to create builder", err)
		}

		result, err := builder.Build(ctx, posts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Build finished with errors:\n%v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Rendered %d pages (%d drafts skipped) to %s\n", result.Pages, result.Skipped, cfg.OutputDir)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Override the output directory")
}
