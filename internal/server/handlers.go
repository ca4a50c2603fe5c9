package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/clil/internal/export"
	"github.com/abhisek/clil/internal/logger"
	"github.com/abhisek/clil/internal/taskgen"
)

// HeaderGenerationOutcome tells clients whether /generate served the
// model's tasks ("parsed") or the fallback set ("fallback").
const HeaderGenerationOutcome = "X-Generation-Outcome"

// ExportRequest is the body of the export endpoints. A missing tasks
// field is an empty list.
type ExportRequest struct {
	Tasks []string `json:"tasks"`
}

type handlers struct {
	gen      taskgen.Generator
	renderer *export.Renderer
	log      *logger.Logger
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// bindPayload decodes and normalizes a generation request.
func bindPayload(c *gin.Context) (taskgen.Request, bool) {
	var p taskgen.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, fmt.Errorf("invalid JSON body: %w", err))
		return taskgen.Request{}, false
	}
	req, err := p.Request()
	if err != nil {
		respondFor(c, err)
		return taskgen.Request{}, false
	}
	return req, true
}

// POST /generate
func (h *handlers) generate(c *gin.Context) {
	req, ok := bindPayload(c)
	if !ok {
		return
	}

	res, err := h.gen.Generate(c.Request.Context(), req)
	if err != nil {
		respondFor(c, err)
		return
	}

	c.Header(HeaderGenerationOutcome, res.Outcome.String())
	c.JSON(http.StatusOK, res.Tasks)
}

// POST /generate_gpt answers with the display lines of the task set, the
// shape older clients expect.
func (h *handlers) generateLines(c *gin.Context) {
	req, ok := bindPayload(c)
	if !ok {
		return
	}

	res, err := h.gen.Generate(c.Request.Context(), req)
	if err != nil {
		respondFor(c, err)
		return
	}

	c.Header(HeaderGenerationOutcome, res.Outcome.String())
	c.JSON(http.StatusOK, gin.H{"tasks": res.Tasks.Lines()})
}

// POST /generate/list
func (h *handlers) generateList(c *gin.Context) {
	req, ok := bindPayload(c)
	if !ok {
		return
	}

	list, err := h.gen.GenerateList(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		respondFor(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// exportAs serves the task list rendered in format as an attachment. The
// temp file lives only until the body has been written.
func (h *handlers) exportAs(format export.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExportRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, fmt.Errorf("invalid JSON body: %w", err))
			return
		}

		path, cleanup, err := h.renderer.RenderToTemp(format, req.Tasks)
		if err != nil {
			_ = c.Error(err)
			respondFor(c, err)
			return
		}
		defer cleanup()

		c.Header("Content-Type", format.ContentType())
		c.FileAttachment(path, format.Filename())
	}
}
