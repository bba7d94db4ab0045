package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/quillworks/quill"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a quill vault (git init)",
	Long:  `Initialize a new Quill vault in the current directory. This effectively runs 'git init'.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		_, err = quill.Init(cwd,
			quill.WithAutoInit(true),
			quill.WithVersioning(!bare),
			quill.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize vault", err)
		}

		fmt.Println("Initialized quill vault in", cwd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
