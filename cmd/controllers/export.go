package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	generationFilename = "generation.xlsx"
)

type GenerationExporter interface {
	ExportGenerationXlsx(ctx context.Context, eventID *string) ([]byte, error)
}

type ExportController struct {
	service GenerationExporter
}

func NewExportController(service GenerationExporter) (*ExportController, error) {
	if service == nil {
		return nil, errors.New("export service is nil")
	}

	return &ExportController{service: service}, nil
}

func (c *ExportController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("export controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/export/generation.xlsx", c.exportGeneration)
	return nil
}

func (c *ExportController) exportGeneration(ctx *gin.Context) {
	payload, err := c.service.ExportGenerationXlsx(ctx.Request.Context(), nil)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to export generation data"})
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+generationFilename)
	ctx.Data(http.StatusOK, xlsxContentType, payload)
}
