package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
	"github.com/noah-isme/centerkech-api/pkg/response"
)

type submissionService interface {
	Submit(ctx context.Context, req dto.SubmitRequest) (*dto.SubmitResult, error)
	List(ctx context.Context, query dto.SubmissionQuery) (*dto.SubmissionList, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, actorID string) (*models.Submission, error)
	Delete(ctx context.Context, id string) error
}

type submissionExporter interface {
	ExportSubmissions(ctx context.Context, query dto.ExportQuery) (*dto.ExportFile, error)
}

// SubmissionHandler serves the public form endpoint and the admin submission endpoints.
type SubmissionHandler struct {
	service  submissionService
	exporter submissionExporter
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service submissionService, exporter submissionExporter) *SubmissionHandler {
	return &SubmissionHandler{service: service, exporter: exporter}
}

// Submit godoc
// @Summary Submit a public form
// @Tags Forms
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRequest true "Submission"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /forms/submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	res, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Form submitted successfully", res)
}

// List godoc
// @Summary List submissions
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, contacted, enrolled or rejected"
// @Param source query string false "join, contact or services"
// @Param sort query string false "createdAt, updatedAt, name or status, prefixed with - for descending"
// @Param page query int false "Page, starting at 1"
// @Param limit query int false "Page size, 1 to 100"
// @Success 200 {object} response.Envelope
// @Router /forms [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	query := dto.SubmissionQuery{
		Status: c.Query("status"),
		Source: c.Query("source"),
		Sort:   c.Query("sort"),
	}
	var err error
	if query.Page, err = intQuery(c, "page"); err != nil {
		response.Error(c, err)
		return
	}
	if query.Limit, err = intQuery(c, "limit"); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", res)
}

// Get godoc
// @Summary Get a submission
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forms/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", sub)
}

// UpdateStatus godoc
// @Summary Change a submission status
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param payload body dto.UpdateStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forms/{id}/status [patch]
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, "Invalid status"))
		return
	}
	sub, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Status updated successfully", sub)
}

// Delete godoc
// @Summary Delete a submission
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forms/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Submission deleted successfully", nil)
}

// Export godoc
// @Summary Download submissions
// @Tags Forms
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Param status query string false "Status filter"
// @Param source query string false "Source filter"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /forms/export [get]
func (h *SubmissionHandler) Export(c *gin.Context) {
	query := dto.ExportQuery{Format: c.Query("format"), Status: c.Query("status"), Source: c.Query("source")}
	file, err := h.exporter.ExportSubmissions(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(200, file.ContentType, file.Body)
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}
