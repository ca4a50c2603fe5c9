package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/clil/internal/export"
)

func newRouter(allowedOrigin string, h *handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		requestID(),
		requestLogger(h.log),
		recovery(h.log),
		corsFor(allowedOrigin),
	)

	router.GET("/healthcheck", healthCheck)

	router.POST("/generate", h.generate)
	router.POST("/generate/list", h.generateList)

	router.POST("/export/docx", h.exportAs(export.FormatDOCX))
	router.POST("/export/pdf", h.exportAs(export.FormatPDF))

	// Routes kept for clients of the first release.
	router.POST("/generate_gpt", h.generateLines)
	router.POST("/download_docx", h.exportAs(export.FormatDOCX))
	router.POST("/download_pdf", h.exportAs(export.FormatPDF))

	return router
}
