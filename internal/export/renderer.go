package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat accepts "pdf" or "docx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatDOCX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want pdf or docx)", s)
	}
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// Filename is the attachment name offered to clients.
func (f Format) Filename() string {
	return "clil_tasks." + string(f)
}

// Config controls rendering.
type Config struct {
	// Dir holds the temporary export files. Empty means the OS temp dir.
	Dir string `mapstructure:"dir"`

	// WrapWidth is the PDF hard-wrap column in runes; 0 disables wrapping.
	WrapWidth int `mapstructure:"wrap_width"`

	// FontPath replaces the embedded DejaVu Sans with another TrueType
	// font file for PDF text.
	FontPath string `mapstructure:"font_path"`
}

// DefaultConfig returns the rendering settings the service ships with.
func DefaultConfig() Config {
	return Config{WrapWidth: DefaultWrapWidth}
}

// ErrRender is matched by every rendering failure.
var ErrRender = errors.New("render failure")

// RenderError wraps a failure to produce an export file.
type RenderError struct {
	Format Format
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == ErrRender }

// Renderer turns an ordered task list into a document. It holds no
// mutable state and is safe for concurrent use.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a Renderer.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render writes the document for tasks to w.
func (r *Renderer) Render(w io.Writer, format Format, tasks []string) error {
	var err error
	switch format {
	case FormatPDF:
		err = renderPDF(w, tasks, r.cfg)
	case FormatDOCX:
		err = renderDOCX(w, tasks)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return &RenderError{Format: format, Err: err}
	}
	return nil
}

// RenderToTemp renders into a fresh clil_*.<format> file under the
// configured directory. The caller must call cleanup once the file has
// been sent; cleanup is safe to call more than once. On error nothing is
// left behind.
func (r *Renderer) RenderToTemp(format Format, tasks []string) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp(r.cfg.Dir, "clil_*."+string(format))
	if err != nil {
		return "", nil, &RenderError{Format: format, Err: fmt.Errorf("create temp file: %w", err)}
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	bw := bufio.NewWriter(f)
	err = r.Render(bw, format, tasks)
	if err == nil {
		if ferr := bw.Flush(); ferr != nil {
			err = &RenderError{Format: format, Err: ferr}
		}
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = &RenderError{Format: format, Err: cerr}
	}
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
