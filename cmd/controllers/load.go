package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gridwatch/internal/models"
	"gridwatch/internal/services"
)

type LoadFetcher interface {
	GetLoad(ctx context.Context, opts services.LoadOptions, eventID *string) ([]models.LoadPoint, error)
}

// LoadController fetches load live from the operator on each request:
// mode=latest scrapes the status page, mode=forecast pulls the 7-day
// report. There is no default mode.
type LoadController struct {
	service LoadFetcher
}

func NewLoadController(service LoadFetcher) (*LoadController, error) {
	if service == nil {
		return nil, errors.New("load service is nil")
	}

	return &LoadController{service: service}, nil
}

func (c *LoadController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("load controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/load", c.getLoad)
	return nil
}

func (c *LoadController) getLoad(ctx *gin.Context) {
	opts, err := parseLoadOptions(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	points, err := c.service.GetLoad(ctx.Request.Context(), opts, nil)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "load requires mode=latest or mode=forecast"})
			return
		}
		if errors.Is(err, services.ErrParse) {
			ctx.JSON(http.StatusBadGateway, ErrorResponse{Error: "operator page could not be parsed"})
			return
		}
		if errors.Is(err, services.ErrReportNotFound) {
			ctx.JSON(http.StatusBadGateway, ErrorResponse{Error: "report not available"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch load"})
		return
	}

	ctx.JSON(http.StatusOK, points)
}

func parseLoadOptions(ctx *gin.Context) (services.LoadOptions, error) {
	opts := services.LoadOptions{
		Market: ctx.Query("market"),
		Freq:   ctx.Query("freq"),
	}

	switch ctx.Query("mode") {
	case "latest":
		opts.Latest = true
	case "forecast":
		opts.Forecast = true
	case "":
		// Left unset on purpose; the service rejects it.
	default:
		return services.LoadOptions{}, errors.New("mode must be latest or forecast")
	}

	if from := ctx.Query("from"); from != "" {
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return services.LoadOptions{}, errors.New("from must be RFC3339")
		}
		opts.Start = start
	}
	if to := ctx.Query("to"); to != "" {
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return services.LoadOptions{}, errors.New("to must be RFC3339")
		}
		opts.End = end
	}

	return opts, nil
}
