package main

import (
	"fmt"

	"github.com/quillworks/quill"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quill",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quill version %s\n", quill.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
