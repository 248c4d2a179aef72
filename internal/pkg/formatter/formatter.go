package formatter

import (
	"fmt"

	"github.com/futig/behavior-profile/internal/entity"
)

const baseTitle = "Perfil Comportamental"

type Formatter interface {
	Format(doc *Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

// Document is a format-neutral report
type Document struct {
	Title    string
	Sections []Section
}

// Section has optional free text followed by a bullet list
type Section struct {
	Heading    string
	Paragraphs []string
	Items      []string
}

func (d *Document) title() string {
	if d.Title == "" {
		return baseTitle
	}
	return d.Title
}
