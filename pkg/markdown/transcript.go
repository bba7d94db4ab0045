package markdown

import "strings"

// CommandPrefix marks a command line inside a shell-session code block.
const CommandPrefix = "$ "

// Transcript models a shell-session code block: commands prefixed with "$ "
// each followed by their claimed output lines.
type Transcript struct {
	Entries []TranscriptEntry
	// Orphans are the 0-based line indexes of non-empty output lines that
	// appear before the first command.
	Orphans []int
}

// TranscriptEntry is one command and the output the transcript claims for it.
type TranscriptEntry struct {
	Command string
	Output  []string
	Line    int // 0-based line index within the block
}

// HasCommands reports whether the block contained at least one command line.
func (t Transcript) HasCommands() bool {
	return len(t.Entries) > 0
}

// ParseTranscript parses the body of a console code block.
// Empty lines are ignored; everything that is not a command line is claimed
// output of the preceding command.
func ParseTranscript(code string) Transcript {
	var tr Transcript
	var current *TranscriptEntry

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, CommandPrefix) {
			tr.Entries = append(tr.Entries, TranscriptEntry{
				Command: strings.TrimSpace(strings.TrimPrefix(trimmed, CommandPrefix)),
				Line:    i,
			})
			current = &tr.Entries[len(tr.Entries)-1]
			continue
		}

		if current == nil {
			tr.Orphans = append(tr.Orphans, i)
			continue
		}
		current.Output = append(current.Output, trimmed)
	}

	return tr
}
