package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/quillworks/quill/pkg/lint"
	"github.com/quillworks/quill/pkg/site"
	"github.com/spf13/cobra"
)

var lintJSON bool

var lintCmd = &cobra.Command{
	Use:   "lint [path...]",
	Short: "Check posts for front-matter, snippet, link, and transcript problems",
	Long: `Lint walks the vault and reports structural problems: missing or
invalid front-matter, unclosed code fences, snippets that fail to lex,
broken relative links, console transcripts whose claimed output is wrong,
and duplicate slugs. Arguments may be a vault directory or individual
Markdown files. Exits non-zero if any error-level diagnostic is found.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		var diags []lint.Diagnostic
		for _, arg := range args {
			d, err := lintPath(arg)
			if err != nil {
				fatal("Lint failed", err)
			}
			diags = append(diags, d...)
		}
		lint.Sort(diags)

		if lintJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(diags); err != nil {
				fatal("Failed to encode JSON", err)
			}
		} else if len(diags) == 0 {
			fmt.Println("No problems found.")
		} else {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Location", "Severity", "Rule", "Message"})
			for _, d := range diags {
				loc := d.Path
				if d.Line > 0 {
					loc = fmt.Sprintf("%s:%d", d.Path, d.Line)
				}
				t.AppendRow(table.Row{loc, d.Severity.String(), d.RuleID, d.Message})
			}
			t.Render()
		}

		if lint.HasErrors(diags) {
			os.Exit(1)
		}
	},
}

// lintPath lints a single argument: a whole vault for directories, a single
// post for .md files.
func lintPath(arg string) ([]lint.Diagnostic, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		cfg, err := site.LoadConfig("", arg)
		if err != nil {
			return nil, err
		}

		registry := lint.Defaults()
		if len(cfg.Lint.Disable) > 0 {
			registry.Disable(cfg.Lint.Disable...)
		}

		analyzer := lint.NewAnalyzer(registry, lint.WithIgnore(cfg.Ignore))
		return analyzer.AnalyzeVault(cfg.ContentDir)
	}

	src, err := os.ReadFile(arg)
	if err != nil {
		return nil, err
	}

	// Resolve link targets against the file's directory.
	dir := filepath.Dir(arg)
	analyzer := lint.NewAnalyzer(lint.Defaults(), lint.WithExists(func(rel string) bool {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
		return err == nil
	}))
	return analyzer.AnalyzePost(filepath.ToSlash(arg), src), nil
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintJSON, "json", false, "Output diagnostics as JSON")
}
