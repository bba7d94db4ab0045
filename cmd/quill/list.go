package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/quillworks/quill"
	"github.com/quillworks/quill/pkg/core"
	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	filterTag  string
	listDrafts bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all posts in the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		service, err := quill.New(cwd,
			quill.WithVersioning(!bare),
			quill.WithMustExist(true),
			quill.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open vault", err)
		}

		posts, err := service.ListPosts(context.Background())
		if err != nil {
			fatal("Failed to list posts", err)
		}

		var filtered []core.Post
		for _, post := range posts {
			if post.Draft() && !listDrafts {
				continue
			}
			if filterTag != "" && !hasTag(post, filterTag) {
				continue
			}
			filtered = append(filtered, post)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Title", "Date", "Tags"})
		for _, post := range filtered {
			t.AppendRow(table.Row{post.ID, post.Title(), post.Date(), strings.Join(post.Tags(), ", ")})
		}
		t.Render()
	},
}

func hasTag(post core.Post, tag string) bool {
	for _, t := range post.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter posts by tag")
	listCmd.Flags().BoolVar(&listDrafts, "drafts", false, "Include draft posts")
}
