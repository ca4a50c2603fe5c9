package export

import (
	"io"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/go-fonts/dejavu/dejavusans"
	"github.com/go-fonts/dejavu/dejavusansbold"
)

// fixedDate is stamped into every PDF so identical input renders
// identical bytes.
var fixedDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const bodyFamily = "clil-body"

func renderPDF(w io.Writer, tasks []string, cfg Config) error {
	pdf, err := buildPDF(tasks, cfg)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// buildPDF draws the document without serializing it. Text is set in
// DejaVu Sans, which covers the Kazakh alphabet, unless cfg.FontPath
// names another TrueType font.
func buildPDF(tasks []string, cfg Config) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(MarginLeft, MarginTop, MarginLeft)
	pdf.SetCreationDate(fixedDate)
	pdf.SetModificationDate(fixedDate)
	pdf.SetTitle(Title, true)

	if cfg.FontPath != "" {
		pdf.AddUTF8Font(bodyFamily, "", cfg.FontPath)
		pdf.AddUTF8Font(bodyFamily, "B", cfg.FontPath)
	} else {
		pdf.AddUTF8FontFromBytes(bodyFamily, "", dejavusans.TTF)
		pdf.AddUTF8FontFromBytes(bodyFamily, "B", dejavusansbold.TTF)
	}
	if err := pdf.Error(); err != nil {
		return nil, err
	}

	for i, page := range Paginate(tasks, cfg.WrapWidth) {
		pdf.AddPage()
		if i == 0 {
			pdf.SetFont(bodyFamily, "B", 14)
			pdf.Text(MarginLeft, MarginTop, Title)
		}
		pdf.SetFont(bodyFamily, "", 12)
		for _, line := range page.Lines {
			pdf.Text(MarginLeft, line.Y, drawable(line.Text))
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	return pdf, nil
}

// drawable removes what fpdf cannot encode in a text string: runes above
// U+FFFF, such as the 📖 and 🗣 labels. A variation selector or joiner
// attached to a removed rune goes with it, and so does the space after
// it when that would leave a double or leading space.
func drawable(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r > 0xFFFF }) {
		return s
	}

	var b strings.Builder
	dropped := false
	for _, r := range s {
		switch {
		case r > 0xFFFF:
			dropped = true
			continue
		case dropped && (r == '\u200d' || (r >= '\ufe00' && r <= '\ufe0f')):
			continue
		case dropped && r == ' ' && (b.Len() == 0 || strings.HasSuffix(b.String(), " ")):
			dropped = false
			continue
		}
		dropped = false
		b.WriteRune(r)
	}
	return b.String()
}
