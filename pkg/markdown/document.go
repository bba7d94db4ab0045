package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// engine is the shared CommonMark parser. GFM is enabled because the posts
// use tables and autolinks.
var engine = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Document is a parsed post: typed front-matter plus the CommonMark AST of
// the body. Front-matter problems are carried as fields rather than a parse
// failure so that analysis of the body can still proceed.
type Document struct {
	HasFrontMatter bool
	FrontMatter    *FrontMatter
	UnknownFields  []string
	FrontMatterErr error

	// Body is the Markdown source after the front-matter block.
	// Nil when the front-matter block is unclosed.
	Body []byte

	bodyLine int // lines consumed by the header, for file-relative positions
	root     ast.Node
}

// CodeBlock is a fenced code block with its info-string language.
type CodeBlock struct {
	Language string
	Body     string
	Line     int // 1-based line of the opening fence in the source file
}

// Link is a link destination found in the body.
type Link struct {
	Destination string
	Line        int
}

// Heading is a section heading in the body.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Parse builds a Document from raw post bytes. It never fails outright:
// front-matter defects are recorded on the Document for rule evaluation.
func Parse(data []byte) *Document {
	doc := &Document{}

	fm, body, hasFM, err := SplitFrontMatter(data)
	doc.HasFrontMatter = hasFM
	if err != nil {
		doc.FrontMatterErr = err
		return doc
	}

	doc.Body = body
	doc.bodyLine = bytes.Count(data[:len(data)-len(body)], []byte("\n"))

	if hasFM {
		parsed, unknown, perr := ParseFrontMatter(fm)
		if perr != nil {
			doc.FrontMatterErr = perr
		} else {
			doc.FrontMatter = parsed
			doc.UnknownFields = unknown
		}
	}

	doc.root = engine.Parser().Parse(text.NewReader(body))
	return doc
}

// CodeBlocks returns all fenced code blocks in document order.
func (d *Document) CodeBlocks() []CodeBlock {
	if d.root == nil {
		return nil
	}

	var blocks []CodeBlock
	_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		cb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		block := CodeBlock{
			Language: string(cb.Language(d.Body)),
			Body:     d.segmentsText(cb.Lines()),
		}

		// The fence itself has no AST position; derive it from the first
		// content line (one above) or the info string.
		if cb.Lines().Len() > 0 {
			block.Line = d.lineOf(cb.Lines().At(0).Start) - 1
		} else if cb.Info != nil {
			block.Line = d.lineOf(cb.Info.Segment.Start)
		}

		blocks = append(blocks, block)
		return ast.WalkContinue, nil
	})
	return blocks
}

// Links returns all link destinations (links and images) in document order.
func (d *Document) Links() []Link {
	if d.root == nil {
		return nil
	}

	var links []Link
	_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var dest string
		switch l := n.(type) {
		case *ast.Link:
			dest = string(l.Destination)
		case *ast.Image:
			dest = string(l.Destination)
		default:
			return ast.WalkContinue, nil
		}

		// Inline nodes carry no segment; locate the destination textually.
		line := 0
		if idx := bytes.Index(d.Body, []byte(dest)); idx >= 0 {
			line = d.lineOf(idx)
		}

		links = append(links, Link{Destination: dest, Line: line})
		return ast.WalkContinue, nil
	})
	return links
}

// Headings returns all headings in document order.
func (d *Document) Headings() []Heading {
	if d.root == nil {
		return nil
	}

	var headings []Heading
	_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		heading := Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(d.segmentsText(h.Lines())),
		}
		if h.Lines().Len() > 0 {
			heading.Line = d.lineOf(h.Lines().At(0).Start)
		}

		headings = append(headings, heading)
		return ast.WalkContinue, nil
	})
	return headings
}

// BodyLine returns the number of file lines consumed by the front-matter
// header, so body-relative line numbers can be mapped to the file.
func (d *Document) BodyLine() int {
	return d.bodyLine
}

// lineOf converts a byte offset in Body to a 1-based line in the source file.
func (d *Document) lineOf(offset int) int {
	if offset > len(d.Body) {
		offset = len(d.Body)
	}
	return bytes.Count(d.Body[:offset], []byte("\n")) + 1 + d.bodyLine
}

func (d *Document) segmentsText(lines *text.Segments) string {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(d.Body))
	}
	return sb.String()
}
