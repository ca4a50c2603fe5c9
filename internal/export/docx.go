package export

import (
	"embed"
	"io"
	"io/fs"
	"strings"

	"github.com/fumiama/go-docx"
)

// titleStyle is defined in template/styles.xml.
const titleStyle = "Heading1"

//go:embed template/styles.xml
var styles embed.FS

// docxTemplate serves go-docx's default package parts with our styles
// part in place of the stock one, which has no heading styles.
type docxTemplate struct{}

func (docxTemplate) Open(name string) (fs.File, error) {
	if name == "xml/default/word/styles.xml" {
		return styles.Open("template/styles.xml")
	}
	return docx.TemplateXMLFS.Open(name)
}

// renderDOCX writes a Heading 1 title followed by one paragraph per task.
// Newlines inside a task become line breaks.
func renderDOCX(w io.Writer, tasks []string) error {
	doc := docx.New().UseTemplate("default", docx.DefaultTemplateFilesList, docxTemplate{})

	doc.AddParagraph().Style(titleStyle).AddText(Title)
	for _, line := range NumberedLines(tasks) {
		run := doc.AddParagraph().AddText(strings.ReplaceAll(line, "\r\n", "\n"))
		for _, child := range run.Children {
			if t, ok := child.(*docx.Text); ok {
				t.XMLSpace = "preserve"
			}
		}
	}
	doc.Document.Body.Items = append(doc.Document.Body.Items, &docx.SectPr{
		PgSz: &docx.PgSz{W: int(PageWidth * 20), H: int(PageHeight * 20)},
	})

	_, err := doc.WriteTo(w)
	return err
}
