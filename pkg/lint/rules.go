package lint

import (
	"fmt"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/quillworks/quill/pkg/markdown"
)

// consoleLanguages are the info-string labels treated as shell transcripts.
// They are judged by the transcript rules instead of MD04: chroma lexes the
// command halves fine but the output halves are arbitrary text.
var consoleLanguages = map[string]bool{
	"console":       true,
	"shell-session": true,
	"sh":            true,
	"bash":          true,
	"shell":         true,
}

func builtinRules() []RuleDef {
	return []RuleDef{
		{
			ID: "FM01", Name: "frontmatter.missing", Group: "frontmatter",
			Description: "post has no front-matter block",
			Severity:    SeverityError,
			Check:       checkFrontMatterMissing,
		},
		{
			ID: "FM02", Name: "frontmatter.unclosed", Group: "frontmatter",
			Description: "front-matter block is opened but never closed",
			Severity:    SeverityError,
			Check:       checkFrontMatterUnclosed,
		},
		{
			ID: "FM03", Name: "frontmatter.invalid-yaml", Group: "frontmatter",
			Description: "front-matter is not valid YAML",
			Severity:    SeverityError,
			Check:       checkFrontMatterYAML,
		},
		{
			ID: "FM04", Name: "frontmatter.missing-title", Group: "frontmatter",
			Description: "front-matter has no title",
			Severity:    SeverityError,
			Check:       checkTitle,
		},
		{
			ID: "FM05", Name: "frontmatter.bad-date", Group: "frontmatter",
			Description: "front-matter date is missing or not an accepted layout",
			Severity:    SeverityError,
			Check:       checkDate,
		},
		{
			ID: "FM06", Name: "frontmatter.unknown-field", Group: "frontmatter",
			Description: "front-matter has fields outside the schema",
			Severity:    SeverityWarning,
			Check:       checkUnknownFields,
		},
		{
			ID: "MD01", Name: "markdown.unclosed-fence", Group: "markdown",
			Description: "fenced code block is never closed",
			Severity:    SeverityError,
			Check:       checkUnclosedFence,
		},
		{
			ID: "MD02", Name: "markdown.bare-fence", Group: "markdown",
			Description: "fenced code block has no language label",
			Severity:    SeverityWarning,
			Check:       checkBareFence,
		},
		{
			ID: "MD03", Name: "markdown.unknown-language", Group: "markdown",
			Description: "code block language label is unknown to the lexer registry",
			Severity:    SeverityWarning,
			Check:       checkUnknownLanguage,
		},
		{
			ID: "MD04", Name: "markdown.invalid-snippet", Group: "markdown",
			Description: "code block fails to lex in its labeled language",
			Severity:    SeverityError,
			Check:       checkSnippetLexes,
		},
		{
			ID: "MD05", Name: "markdown.broken-link", Group: "markdown",
			Description: "relative link target does not exist in the vault",
			Severity:    SeverityError,
			Check:       checkLinks,
		},
		{
			ID: "TS01", Name: "transcript.output-mismatch", Group: "transcript",
			Description: "transcript claims an output the command does not produce",
			Severity:    SeverityError,
			Check:       checkTranscriptOutput,
		},
		{
			ID: "TS02", Name: "transcript.orphan-output", Group: "transcript",
			Description: "transcript has output lines before any command",
			Severity:    SeverityWarning,
			Check:       checkTranscriptOrphans,
		},
		{
			ID: "ST01", Name: "site.duplicate-slug", Group: "site",
			Description: "two posts render to the same output path",
			Severity:    SeverityError,
			// Cross-post rule, evaluated by Analyzer.AnalyzeVault.
			Check: nil,
		},
	}
}

// --- Front-matter rules ---

func checkFrontMatterMissing(ctx *Context) []Diagnostic {
	if ctx.Doc.HasFrontMatter {
		return nil
	}
	return []Diagnostic{{
		RuleID: "FM01", Severity: SeverityError, Path: ctx.Path, Line: 1,
		Message: "post has no front-matter block; expected a YAML header with title and date",
	}}
}

func checkFrontMatterUnclosed(ctx *Context) []Diagnostic {
	if ctx.Doc.FrontMatterErr != markdown.ErrUnclosedFrontMatter {
		return nil
	}
	return []Diagnostic{{
		RuleID: "FM02", Severity: SeverityError, Path: ctx.Path, Line: 1,
		Message: "front-matter block is opened but the closing '---' is missing",
	}}
}

func checkFrontMatterYAML(ctx *Context) []Diagnostic {
	err := ctx.Doc.FrontMatterErr
	if err == nil || err == markdown.ErrUnclosedFrontMatter {
		return nil
	}
	return []Diagnostic{{
		RuleID: "FM03", Severity: SeverityError, Path: ctx.Path, Line: 1,
		Message: err.Error(),
	}}
}

func checkTitle(ctx *Context) []Diagnostic {
	fm := ctx.Doc.FrontMatter
	if fm == nil || strings.TrimSpace(fm.Title) != "" {
		return nil
	}
	return []Diagnostic{{
		RuleID: "FM04", Severity: SeverityError, Path: ctx.Path, Line: 1,
		Message: "front-matter has no title",
	}}
}

func checkDate(ctx *Context) []Diagnostic {
	fm := ctx.Doc.FrontMatter
	if fm == nil {
		return nil
	}
	if _, err := fm.Time(); err != nil {
		return []Diagnostic{{
			RuleID: "FM05", Severity: SeverityError, Path: ctx.Path, Line: 1,
			Message: err.Error(),
		}}
	}
	return nil
}

func checkUnknownFields(ctx *Context) []Diagnostic {
	var diags []Diagnostic
	for _, field := range ctx.Doc.UnknownFields {
		diags = append(diags, Diagnostic{
			RuleID: "FM06", Severity: SeverityWarning, Path: ctx.Path, Line: 1,
			Message: fmt.Sprintf("unknown front-matter field %q; use \"extra\" for custom fields", field),
		})
	}
	return diags
}

// --- Markdown rules ---

func checkUnclosedFence(ctx *Context) []Diagnostic {
	body := ctx.Doc.Body
	if body == nil {
		return nil
	}

	openLine := scanUnclosedFence(body)
	if openLine == 0 {
		return nil
	}
	return []Diagnostic{{
		RuleID: "MD01", Severity: SeverityError, Path: ctx.Path,
		Line:    openLine + ctx.Doc.BodyLine(),
		Message: "fenced code block is never closed",
	}}
}

// scanUnclosedFence returns the 1-based body line of an unterminated fence,
// or 0 when fences are balanced.
func scanUnclosedFence(body []byte) int {
	var openChar byte
	var openLen, openLine int

	lines := strings.Split(string(body), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if len(line)-len(trimmed) > 3 {
			continue // indented too far to be a fence
		}

		char, length := fenceMarker(trimmed)
		if length < 3 {
			continue
		}

		if openChar == 0 {
			openChar = char
			openLen = length
			openLine = i + 1
			continue
		}

		// A closing fence uses the same character, is at least as long,
		// and has no info string.
		rest := strings.TrimSpace(trimmed[length:])
		if char == openChar && length >= openLen && rest == "" {
			openChar = 0
		}
	}

	if openChar != 0 {
		return openLine
	}
	return 0
}

func fenceMarker(line string) (byte, int) {
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return 0, 0
	}
	char := line[0]
	length := 0
	for length < len(line) && line[length] == char {
		length++
	}
	return char, length
}

func checkBareFence(ctx *Context) []Diagnostic {
	var diags []Diagnostic
	for _, block := range ctx.Doc.CodeBlocks() {
		if block.Language != "" {
			continue
		}
		diags = append(diags, Diagnostic{
			RuleID: "MD02", Severity: SeverityWarning, Path: ctx.Path, Line: block.Line,
			Message: "fenced code block has no language label",
		})
	}
	return diags
}

func checkUnknownLanguage(ctx *Context) []Diagnostic {
	var diags []Diagnostic
	for _, block := range ctx.Doc.CodeBlocks() {
		if block.Language == "" || consoleLanguages[block.Language] {
			continue
		}
		if lexers.Get(block.Language) != nil {
			continue
		}
		diags = append(diags, Diagnostic{
			RuleID: "MD03", Severity: SeverityWarning, Path: ctx.Path, Line: block.Line,
			Message: fmt.Sprintf("unknown code block language %q", block.Language),
		})
	}
	return diags
}

func checkSnippetLexes(ctx *Context) []Diagnostic {
	var diags []Diagnostic
	for _, block := range ctx.Doc.CodeBlocks() {
		if block.Language == "" || consoleLanguages[block.Language] {
			continue
		}
		lexer := lexers.Get(block.Language)
		if lexer == nil {
			continue // MD03 reports this
		}

		iterator, err := chroma.Coalesce(lexer).Tokenise(nil, block.Body)
		if err != nil {
			diags = append(diags, Diagnostic{
				RuleID: "MD04", Severity: SeverityError, Path: ctx.Path, Line: block.Line,
				Message: fmt.Sprintf("failed to lex %s snippet: %v", block.Language, err),
			})
			continue
		}

		offset := 0
		for token := iterator(); token != chroma.EOF; token = iterator() {
			if token.Type == chroma.Error {
				line := block.Line + strings.Count(block.Body[:offset], "\n") + 1
				diags = append(diags, Diagnostic{
					RuleID: "MD04", Severity: SeverityError, Path: ctx.Path, Line: line,
					Message: fmt.Sprintf("code block is not valid %s near %q", block.Language, snippetAround(token.Value)),
				})
				break // one finding per block is enough
			}
			offset += len(token.Value)
		}
	}
	return diags
}

func snippetAround(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > 20 {
		value = value[:20] + "..."
	}
	return value
}

func checkLinks(ctx *Context) []Diagnostic {
	if ctx.Exists == nil {
		return nil
	}

	var diags []Diagnostic
	for _, link := range ctx.Doc.Links() {
		dest := link.Destination
		if dest == "" || strings.Contains(dest, "://") ||
			strings.HasPrefix(dest, "mailto:") ||
			strings.HasPrefix(dest, "#") ||
			strings.HasPrefix(dest, "/") {
			continue
		}

		// Drop fragment and query before resolving.
		if i := strings.IndexAny(dest, "#?"); i >= 0 {
			dest = dest[:i]
		}
		if dest == "" {
			continue
		}

		target := path.Clean(path.Join(path.Dir(ctx.Path), dest))
		if ctx.Exists(target) {
			continue
		}
		diags = append(diags, Diagnostic{
			RuleID: "MD05", Severity: SeverityError, Path: ctx.Path, Line: link.Line,
			Message: fmt.Sprintf("link target %q does not exist in the vault", link.Destination),
		})
	}
	return diags
}

// --- Transcript rules ---

func checkTranscriptOutput(ctx *Context) []Diagnostic {
	var diags []Diagnostic
	for _, block := range ctx.Doc.CodeBlocks() {
		if !consoleLanguages[block.Language] {
			continue
		}
		tr := markdown.ParseTranscript(block.Body)
		if !tr.HasCommands() {
			continue
		}

		for _, entry := range tr.Entries {
			name, args := resolveCommand(entry.Command)
			verifier, ok := ctx.Verifiers[name]
			if !ok || len(entry.Output) == 0 {
				continue
			}

			want, ok := verifier(args)
			if !ok {
				continue
			}

			claimed := strings.TrimSpace(entry.Output[0])
			if claimed != want {
				diags = append(diags, Diagnostic{
					RuleID: "TS01", Severity: SeverityError, Path: ctx.Path,
					Line:    block.Line + entry.Line + 1,
					Message: fmt.Sprintf("transcript claims %q but `%s` produces %q", claimed, entry.Command, want),
				})
			}
		}
	}
	return diags
}

func checkTranscriptOrphans(ctx *Context) []Diagnostic {
	var diags []Diagnostic
	for _, block := range ctx.Doc.CodeBlocks() {
		if !consoleLanguages[block.Language] {
			continue
		}
		tr := markdown.ParseTranscript(block.Body)
		if !tr.HasCommands() {
			continue
		}
		for _, orphan := range tr.Orphans {
			diags = append(diags, Diagnostic{
				RuleID: "TS02", Severity: SeverityWarning, Path: ctx.Path,
				Line:    block.Line + orphan + 1,
				Message: "output line appears before any command in the transcript",
			})
		}
	}
	return diags
}

// resolveCommand maps a transcript command line to a verifier key and its
// arguments. Tool wrappers ("quill distance a b", "./quill distance a b")
// resolve to the subcommand.
func resolveCommand(command string) (string, []string) {
	fields := splitArgs(command)
	if len(fields) == 0 {
		return "", nil
	}

	name := path.Base(fields[0])
	args := fields[1:]
	if name == "quill" && len(args) > 0 {
		name = args[0]
		args = args[1:]
	}
	return name, args
}

// splitArgs splits a command line on spaces, honoring single and double
// quotes. Quotes are stripped from the resulting arguments.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	var quote byte
	inArg := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				current.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inArg = true
		case c == ' ' || c == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteByte(c)
			inArg = true
		}
	}
	if inArg {
		args = append(args, current.String())
	}
	return args
}
