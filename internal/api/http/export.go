package apihttp

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"booth-monitor/internal/auth"
	"booth-monitor/internal/dashboard"
)

// ExportStatusHandler exports the current evaluation cycle as CSV, XLSX
// or PDF, selected by path suffix.
type ExportStatusHandler struct {
	service *dashboard.Service
	logger  *log.Logger
}

// NewExportStatusHandler constructs an ExportStatusHandler.
func NewExportStatusHandler(service *dashboard.Service, logger *log.Logger) (*ExportStatusHandler, error) {
	if service == nil {
		return nil, errors.New("apihttp: nil dashboard service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ExportStatusHandler{service: service, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/exports/status.{csv,xlsx,pdf}.
func (h *ExportStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	overview, err := h.service.Overview(r.Context(), auth.TenantScope(r.Context()))
	if err != nil {
		h.logger.Printf("apihttp: status export: %v", err)
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}

	switch r.URL.Path {
	case "/api/v1/exports/status.csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		writeStatusCSV(w, overview)
	case "/api/v1/exports/status.xlsx":
		payload, err := BuildStatusXLSX(overview)
		if err != nil {
			h.logger.Printf("apihttp: xlsx export: %v", err)
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(payload)
	case "/api/v1/exports/status.pdf":
		payload, err := BuildStatusPDF(overview)
		if err != nil {
			h.logger.Printf("apihttp: pdf export: %v", err)
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(payload)
	default:
		http.NotFound(w, r)
	}
}

func writeStatusCSV(w http.ResponseWriter, overview *dashboard.Overview) {
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"location", "booth", "last_seen", "state"})
	for _, status := range overview.Liveness {
		_ = writer.Write([]string{status.Location, status.Booth, status.LastSeen, status.State})
	}
	writer.Flush()
}

// BuildStatusXLSX renders the cycle as a workbook with status and alert
// sheets.
func BuildStatusXLSX(overview *dashboard.Overview) ([]byte, error) {
	f := excelize.NewFile()
	statusSheet := "status"
	alertsSheet := "alerts"
	f.SetSheetName("Sheet1", statusSheet)
	f.NewSheet(alertsSheet)

	_ = f.SetCellValue(statusSheet, "A1", "Location")
	_ = f.SetCellValue(statusSheet, "B1", "Booth")
	_ = f.SetCellValue(statusSheet, "C1", "Last Seen")
	_ = f.SetCellValue(statusSheet, "D1", "State")
	for i, status := range overview.Liveness {
		row := i + 2
		_ = f.SetCellValue(statusSheet, fmt.Sprintf("A%d", row), status.Location)
		_ = f.SetCellValue(statusSheet, fmt.Sprintf("B%d", row), status.Booth)
		_ = f.SetCellValue(statusSheet, fmt.Sprintf("C%d", row), status.LastSeen)
		_ = f.SetCellValue(statusSheet, fmt.Sprintf("D%d", row), status.State)
	}

	_ = f.SetCellValue(alertsSheet, "A1", "Location")
	_ = f.SetCellValue(alertsSheet, "B1", "Booth")
	_ = f.SetCellValue(alertsSheet, "C1", "Kind")
	_ = f.SetCellValue(alertsSheet, "D1", "Value")
	for i, event := range overview.Alerts {
		row := i + 2
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("A%d", row), event.Location)
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("B%d", row), event.Booth)
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("C%d", row), string(event.Kind))
		_ = f.SetCellValue(alertsSheet, fmt.Sprintf("D%d", row), event.Value)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStatusPDF renders the cycle as a one-page status report.
func BuildStatusPDF(overview *dashboard.Overview) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Booth Status Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Locations: %d", len(overview.Locations)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Active Alerts: %d", len(overview.Alerts)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 6, "Location", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Booth", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Last Seen", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "State", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, status := range overview.Liveness {
		pdf.CellFormat(45, 6, status.Location, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, status.Booth, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, status.LastSeen, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, status.State, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if len(overview.Alerts) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Alerts")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		for _, event := range overview.Alerts {
			pdf.CellFormat(45, 6, event.Location, "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 6, event.Booth, "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 6, string(event.Kind), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, strconv.FormatFloat(event.Value, 'f', -1, 64), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
