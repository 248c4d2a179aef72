package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(doc *Document) ([]byte, error) {
	out := document.New()
	defer out.Close()

	titlePar := out.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(doc.title())

	for _, section := range doc.Sections {
		heading := out.AddParagraph()
		heading.SetStyle("Heading2")
		heading.AddRun().AddText(section.Heading)

		for _, p := range section.Paragraphs {
			out.AddParagraph().AddRun().AddText(p)
		}
		for _, item := range section.Items {
			par := out.AddParagraph()
			par.SetStyle("ListBullet")
			par.AddRun().AddText(item)
		}
	}

	var buf bytes.Buffer
	if err := out.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
