package rest

import (
	"context"
	"errors"
	"io"
	"net/http"

	"relatedItems/domain"
	"relatedItems/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PipelineHandler struct {
		validate      *validator.Validate
		pipeline      PipelineService
		importService ImportService
		runs          RunHistory
	}

	PipelineService interface {
		Rebuild(ctx context.Context) (domain.RunSummary, error)
	}

	ImportService interface {
		ImportCSV(ctx context.Context, r io.Reader) (domain.ImportStats, error)
	}

	RunHistory interface {
		RecentRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error)
	}

	RunsQuery struct {
		N int `query:"n" validate:"omitempty,gt=0"`
	}
)

func NewPipelineHandler(pipeline PipelineService, importService ImportService, runs RunHistory) *PipelineHandler {
	return &PipelineHandler{
		validate:      validator.New(),
		pipeline:      pipeline,
		importService: importService,
		runs:          runs,
	}
}

func (h *PipelineHandler) Run(c echo.Context) error {
	summary, err := h.pipeline.Rebuild(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoOrderItems) {
			return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: "no order items available, import orders first"})
		}
		logger.Error("Pipeline rebuild failed", "run_id", summary.RunID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

func (h *PipelineHandler) Import(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing file upload"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	defer file.Close()

	stats, err := h.importService.ImportCSV(c.Request().Context(), file)
	if err != nil {
		logger.Error("CSV import failed", "filename", fileHeader.Filename, "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(stats))
}

func (h *PipelineHandler) Runs(c echo.Context) error {
	var q RunsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	limit := q.N
	if limit <= 0 {
		limit = 20
	}

	runs, err := h.runs.RecentRuns(c.Request().Context(), limit)
	if err != nil {
		logger.Error("Failed to list pipeline runs", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(runs))
}
