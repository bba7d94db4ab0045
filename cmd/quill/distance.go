package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/quillworks/quill/pkg/textdist"
	"github.com/spf13/cobra"
)

var distanceTable bool

var distanceCmd = &cobra.Command{
	Use:   "distance [a] [b]",
	Short: "Compute the Levenshtein edit distance between two strings",
	Long: `Distance prints the minimum number of single-character insertions,
deletions, and substitutions needed to turn one string into the other.
With --table, the full dynamic programming matrix is printed.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a, b := args[0], args[1]

		if !distanceTable {
			fmt.Println(textdist.Distance(a, b))
			return
		}

		m := textdist.Matrix(a, b)
		bRunes := []rune(b)
		aRunes := []rune(a)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)

		header := table.Row{"", ""}
		for _, r := range bRunes {
			header = append(header, string(r))
		}
		t.AppendHeader(header)

		for i, row := range m {
			label := ""
			if i > 0 {
				label = string(aRunes[i-1])
			}
			out := table.Row{label}
			for _, v := range row {
				out = append(out, v)
			}
			t.AppendRow(out)
		}
		t.Render()

		fmt.Printf("distance: %d\n", m[len(aRunes)][len(bRunes)])
	},
}

func init() {
	rootCmd.AddCommand(distanceCmd)
	distanceCmd.Flags().BoolVar(&distanceTable, "table", false, "Print the full distance matrix")
}
