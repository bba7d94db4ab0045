package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/quillworks/quill"
	"github.com/quillworks/quill/pkg/core"
	"github.com/spf13/cobra"
)

var (
	newTitle string
	newTags  []string
	newSlug  string
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a post title into a filesystem and URL safe slug.
func slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new draft post",
	Long: `Create a new post with front-matter scaffolding: the given title,
today's date, optional tags, and draft: true. The post ID is derived from
the title unless --slug is given.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := strings.Join(args, " ")
		if newTitle != "" {
			title = newTitle
		}

		id := newSlug
		if id == "" {
			id = slugify(title)
		}
		if id == "" {
			fatal("Cannot derive slug", fmt.Errorf("title %q produces an empty slug", title))
		}

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

		meta := core.Metadata{
			"title": title,
			"date":  time.Now().Format("2006-01-02"),
			"draft": true,
		}
		if len(newTags) > 0 {
			meta["tags"] = newTags
		}

		ctx := context.WithValue(context.Background(), core.ChangeReasonKey, "post: draft "+id)
		if err := service.SavePost(ctx, id, "", meta); err != nil {
			fatal("Failed to create post", err)
		}

		fmt.Printf("Created draft '%s.md'\n", id)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Post title (defaults to the arguments)")
	newCmd.Flags().StringSliceVar(&newTags, "tag", nil, "Tags for the post (repeatable)")
	newCmd.Flags().StringVar(&newSlug, "slug", "", "Explicit post slug")
}
