package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gridwatch/internal/models"
	"gridwatch/internal/services"
)

type DataProvider interface {
	GetGenerationPoints(ctx context.Context, fuel string, from string, to string, limit string) ([]models.GenerationPoint, error)
	GetLoadPoints(ctx context.Context, from string, to string, limit string) ([]models.LoadPoint, error)
	DeleteData(ctx context.Context) (int, error)
}

// DataController serves the stored fetch results and clears them on
// demand. Live retrieval lives on the load controller.
type DataController struct {
	service DataProvider
}

type DeleteDataResponse struct {
	Deleted int `json:"deleted"`
}

func NewDataController(service DataProvider) (*DataController, error) {
	if service == nil {
		return nil, errors.New("data service is nil")
	}

	return &DataController{service: service}, nil
}

func (c *DataController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("data controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/generation", c.getGeneration)
	router.GET("/load/history", c.getLoadHistory)
	router.DELETE("/data", c.deleteData)
	return nil
}

func (c *DataController) getGeneration(ctx *gin.Context) {
	fuel := ctx.Query("fuel")
	from := ctx.Query("from")
	to := ctx.Query("to")
	limit := ctx.Query("limit")

	points, err := c.service.GetGenerationPoints(ctx.Request.Context(), fuel, from, to, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFuel) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid fuel"})
			return
		}
		if errors.Is(err, services.ErrInvalidWindow) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time window"})
			return
		}
		if errors.Is(err, services.ErrInvalidLimit) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load generation data"})
		return
	}

	ctx.JSON(http.StatusOK, points)
}

func (c *DataController) getLoadHistory(ctx *gin.Context) {
	from := ctx.Query("from")
	to := ctx.Query("to")
	limit := ctx.Query("limit")

	points, err := c.service.GetLoadPoints(ctx.Request.Context(), from, to, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time window"})
			return
		}
		if errors.Is(err, services.ErrInvalidLimit) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load load data"})
		return
	}

	ctx.JSON(http.StatusOK, points)
}

func (c *DataController) deleteData(ctx *gin.Context) {
	deleted, err := c.service.DeleteData(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete data"})
		return
	}

	ctx.JSON(http.StatusOK, DeleteDataResponse{Deleted: deleted})
}
