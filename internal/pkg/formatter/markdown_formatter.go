package formatter

import (
	"bytes"
	"fmt"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", doc.title())

	for _, section := range doc.Sections {
		fmt.Fprintf(&buf, "\n## %s\n\n", section.Heading)
		for _, p := range section.Paragraphs {
			fmt.Fprintf(&buf, "%s\n\n", p)
		}
		for _, item := range section.Items {
			fmt.Fprintf(&buf, "- %s\n", item)
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
