package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Basiic0110/Obdly/internal/index"
)

// MarkdownSource splits a markdown document on heading boundaries so that
// logical sections stay intact, then lets the index window each section.
type MarkdownSource struct {
	path string
	md   goldmark.Markdown
}

// NewMarkdownSource creates a source over the markdown file at path.
func NewMarkdownSource(path string) *MarkdownSource {
	return &MarkdownSource{path: path, md: goldmark.New()}
}

func (s *MarkdownSource) Name() string { return filepath.Base(s.path) }

func (s *MarkdownSource) Documents(_ context.Context) ([]index.Document, error) {
	src, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading markdown: %w", err)
	}

	var docs []index.Document
	for _, section := range splitSections(s.md, src) {
		if strings.TrimSpace(section) == "" {
			continue
		}
		docs = append(docs, index.Document{
			Text:   section,
			Source: s.Name(),
			Meta:   map[string]string{},
		})
	}
	return docs, nil
}

// splitSections parses src and joins plain text per heading-delimited
// section. The heading text itself belongs to the section it opens.
func splitSections(md goldmark.Markdown, src []byte) []string {
	root := md.Parser().Parse(text.NewReader(src))

	var sections []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
	}

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if _, isHeading := node.(*ast.Heading); isHeading {
			flush()
		}
		if txt := blockText(node, src); txt != "" {
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(txt)
		}
	}
	flush()
	return sections
}

// blockText collects the raw text of a block node, including fenced code
// lines, joined with spaces.
func blockText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.Write(t.Segment.Value(src))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := child.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.Write(seg.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
