package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/middleware"
	"memberfee_app_echo/internal/reports"
	"memberfee_app_echo/internal/services"
)

// ReportHandler serves aggregated reports and their exports
type ReportHandler struct {
	reports *services.ReportService
	logger  *slog.Logger
	now     func() time.Time
}

func NewReportHandler(reportService *services.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reportService, logger: logger, now: time.Now}
}

// Report returns every derived view for the requested filter
func (h *ReportHandler) Report(c echo.Context) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	ds, err := h.reports.Dataset(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reports.Build(ds, filter))
}

// Download streams the report as csv, pdf or json. The document is
// rendered in memory first so a failure never leaves a partial file.
func (h *ReportHandler) Download(c echo.Context) error {
	format := c.QueryParam("format")
	switch format {
	case "csv", "pdf", "json":
	default:
		middleware.ObserveExport("invalid", "rejected")
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format, expected csv, pdf or json")
	}
	typ, err := reports.ParseReportType(c.QueryParam("type"))
	if err != nil {
		middleware.ObserveExport(format, "rejected")
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid report type")
	}
	filter, err := filterFromQuery(c)
	if err != nil {
		middleware.ObserveExport(format, "rejected")
		return err
	}

	ds, err := h.reports.Dataset(c.Request().Context())
	if err != nil {
		middleware.ObserveExport(format, "error")
		return httpError(err)
	}
	payments := filter.Apply(ds.Payments)
	rep := reports.Build(ds, filter)

	var (
		buf         bytes.Buffer
		contentType string
		filename    string
	)
	switch format {
	case "csv":
		contentType = "text/csv; charset=utf-8"
		filename = fmt.Sprintf("installments-%s.csv", filter.Label())
		err = reports.WriteCSV(&buf, payments)
	case "pdf":
		contentType = "application/pdf"
		filename = reports.Filename(typ, filter, "pdf")
		err = reports.WritePDF(&buf, rep, typ, payments, h.now())
	case "json":
		contentType = echo.MIMEApplicationJSONCharsetUTF8
		filename = reports.Filename(typ, filter, "json")
		err = jsonEncode(&buf, rep)
	}
	if err != nil {
		if errors.Is(err, reports.ErrNoData) {
			middleware.ObserveExport(format, "empty")
			return echo.NewHTTPError(http.StatusNotFound, "No installments found for the selected period")
		}
		middleware.ObserveExport(format, "error")
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	h.logger.InfoContext(c.Request().Context(), "report exported",
		slog.String("format", format),
		slog.String("type", string(typ)),
		slog.String("filter", filter.Label()),
		slog.Int("rows", len(payments)),
	)
	middleware.ObserveExport(format, "success")

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func filterFromQuery(c echo.Context) (reports.Filter, error) {
	f, err := reports.ParseFilter(
		c.QueryParam("year"),
		c.QueryParam("month"),
		c.QueryParam("startMonth"),
		c.QueryParam("endMonth"),
	)
	if err != nil {
		return reports.Filter{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return f, nil
}

func jsonEncode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
