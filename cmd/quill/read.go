package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/quillworks/quill"
	"github.com/spf13/cobra"
)

var (
	readJSON   bool
	readPretty bool
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a post from the vault",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

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

		post, err := service.GetPost(context.Background(), id)
		if err != nil {
			fatal("Failed to read post", err)
		}

		if readJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(post); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		if readPretty {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				fatal("Failed to create renderer", err)
			}
			out, err := renderer.Render(post.Content)
			if err != nil {
				fatal("Failed to render post", err)
			}
			fmt.Print(out)
			return
		}

		fmt.Print(post.Content)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output post and metadata as JSON")
	readCmd.Flags().BoolVar(&readPretty, "pretty", false, "Render Markdown for the terminal")
}
