package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/api/metrics"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
	"github.com/civicvoice/civicvoice-api/internal/infrastructure/pdf"
)

// photoExtensions whitelists the image types the intake form accepts.
// Anything else is rejected before touching disk.
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type ReportHandler struct {
	reportService ports.ReportService
	uploadDir     string
	maxUploadSize int64
}

func NewReportHandler(reportService ports.ReportService, uploadDir string, maxUploadSize int64) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create files a new report. The body is multipart form data so an optional
// photo can ride along with the fields.
//
// @Summary      Submit a report
// @Tags         reports
// @Accept       mpfd
// @Produce      json
// @Success      201  {object}  domain.Report
// @Failure      400  {object}  map[string]string
// @Router       /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	in := ports.SubmitReportInput{
		UserID:      user.ID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Location:    c.FormValue("location"),
		Priority:    c.FormValue("priority"),
	}
	if lat := c.FormValue("latitude"); lat != "" {
		v, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid latitude")
		}
		in.Latitude = &v
	}
	if lng := c.FormValue("longitude"); lng != "" {
		v, err := strconv.ParseFloat(lng, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid longitude")
		}
		in.Longitude = &v
	}

	if file, err := c.FormFile("photo"); err == nil && file != nil {
		path, err := h.savePhoto(file)
		if err != nil {
			return err
		}
		in.PhotoPath = path
	}

	report, err := h.reportService.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	metrics.ReportsCreatedTotal.WithLabelValues(string(report.Category)).Inc()
	return c.JSON(http.StatusCreated, report)
}

// List returns reports, newest first, optionally filtered.
//
// @Summary      List reports
// @Tags         reports
// @Produce      json
// @Param        status    query  string  false  "Filter by status"
// @Param        category  query  string  false  "Filter by category"
// @Param        mine      query  bool    false  "Only the caller's reports"
// @Success      200  {array}  domain.Report
// @Router       /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	filter := ports.ListReportsFilter{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
	}
	if mine, _ := strconv.ParseBool(c.QueryParam("mine")); mine {
		filter.UserID = user.ID
	}

	reports, err := h.reportService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reports)
}

// Get returns one report by id.
//
// @Summary      Get a report
// @Tags         reports
// @Produce      json
// @Param        id  path  int  true  "Report ID"
// @Success      200  {object}  domain.Report
// @Failure      404  {object}  map[string]string
// @Router       /reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	id, err := reportID(c)
	if err != nil {
		return err
	}
	report, err := h.reportService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// History returns the status-update audit trail of a report.
//
// @Summary      Get a report's status history
// @Tags         reports
// @Produce      json
// @Param        id  path  int  true  "Report ID"
// @Success      200  {array}  domain.StatusUpdate
// @Router       /reports/{id}/history [get]
func (h *ReportHandler) History(c echo.Context) error {
	id, err := reportID(c)
	if err != nil {
		return err
	}
	history, err := h.reportService.History(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

// UpdateStatus applies a triage decision. Authority/admin only; the guard is
// enforced at the route.
//
// @Summary      Update a report's status
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "Report ID"
// @Param        body  body  updateStatusRequest  true  "New status"
// @Success      200   {object}  domain.Report
// @Failure      422   {object}  map[string]string
// @Router       /reports/{id}/status [put]
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := reportID(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.reportService.UpdateStatus(c.Request().Context(), id, req.Status, user.ID); err != nil {
		return err
	}
	metrics.StatusUpdatesTotal.WithLabelValues(req.Status).Inc()

	report, err := h.reportService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// Stats returns the dashboard counters scoped to the caller's role.
//
// @Summary      Report statistics
// @Tags         reports
// @Produce      json
// @Success      200  {object}  domain.ReportStats
// @Router       /reports/stats [get]
func (h *ReportHandler) Stats(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.reportService.Stats(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Export streams a PDF of the caller's visible reports.
//
// @Summary      Export reports as PDF
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /reports/export [get]
func (h *ReportHandler) Export(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	reports, err := h.reportService.Export(c.Request().Context(), user)
	if err != nil {
		return err
	}

	now := time.Now()
	filename := fmt.Sprintf("civicvoice-reports-%s.pdf", now.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return pdf.RenderReportExport(c.Response(), reports, now)
}

func reportID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}
	return id, nil
}

// savePhoto validates and stores an uploaded photo, returning its relative
// path. The stored name is a fresh UUID so uploads can never collide or
// traverse out of the upload directory.
func (h *ReportHandler) savePhoto(file *multipart.FileHeader) (string, error) {
	if file.Size > h.maxUploadSize {
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "photo exceeds the upload size limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !photoExtensions[ext] {
		return "", echo.NewHTTPError(http.StatusBadRequest, "photo must be a jpg, png or gif image")
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	path := filepath.Join(h.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, h.maxUploadSize)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}
