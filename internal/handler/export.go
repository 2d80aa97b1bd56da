package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reporthub/api/internal/middleware"
	"github.com/reporthub/api/internal/report"
)

type ExportHandler struct {
	service *report.Service
	reports *ReportHandler
}

func NewExportHandler(service *report.Service, reports *ReportHandler) *ExportHandler {
	return &ExportHandler{service: service, reports: reports}
}

// Export streams the filtered reports as CSV or JSON. Report data values are
// flattened into data_<name> columns.
func (h *ExportHandler) Export(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	format := c.DefaultQuery("format", "csv")

	filters := report.Filters{
		Status:     c.Query("status"),
		TemplateID: c.Query("template_id"),
		UserID:     c.Query("user_id"),
		LocationID: c.Query("location_id"),
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be RFC3339"})
			return
		}
		filters.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be RFC3339"})
			return
		}
		filters.DateTo = &t
	}

	reports, err := h.service.Search(c.Request.Context(), identity, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reports"})
		return
	}

	records := make([]map[string]string, 0, len(reports))
	for _, r := range h.reports.enrich(reports) {
		record := map[string]string{
			"report_id":     r.ID,
			"template_name": r.TemplateName,
			"username":      r.Username,
			"location_name": r.LocationName,
			"report_period": r.ReportPeriod,
			"status":        r.Status,
			"submitted_at":  "",
			"created_at":    r.CreatedAt.Format(time.RFC3339),
		}
		if r.SubmittedAt != nil {
			record["submitted_at"] = r.SubmittedAt.Format(time.RFC3339)
		}
		for key, value := range r.Data {
			if value == nil {
				record["data_"+key] = ""
				continue
			}
			record["data_"+key] = fmt.Sprintf("%v", value)
		}
		records = append(records, record)
	}

	filename := fmt.Sprintf("reports_export_%s", time.Now().Format("20060102_150405"))

	switch format {
	case "json":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
		c.JSON(http.StatusOK, gin.H{
			"format":   "json",
			"filename": filename + ".json",
			"records":  records,
		})
	case "csv":
		h.exportCSV(c, filename, records)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format, use csv or json"})
	}
}

func (h *ExportHandler) exportCSV(c *gin.Context, filename string, records []map[string]string) {
	// Column set is the union of keys across records; data maps vary per
	// template.
	base := []string{"report_id", "template_name", "username", "location_name",
		"report_period", "status", "submitted_at", "created_at"}
	seen := make(map[string]bool, len(base))
	for _, col := range base {
		seen[col] = true
	}
	var extra []string
	for _, record := range records {
		for key := range record {
			if !seen[key] {
				seen[key] = true
				extra = append(extra, key)
			}
		}
	}
	sort.Strings(extra)
	columns := append(base, extra...)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write(columns)
	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = record[col]
		}
		writer.Write(row)
	}
	writer.Flush()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
