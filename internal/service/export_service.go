package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/contractguard-api/internal/models"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
	"github.com/noah-isme/contractguard-api/pkg/export"
)

// ExportFormat names a supported register export format.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders the contract register to downloadable files.
type ExportService struct {
	contracts contractLister
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(contracts contractLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{contracts: contracts, csv: csv, pdf: pdf, logger: logger}
}

var registerHeaders = []string{
	"File Name", "Vendor", "Contract Type", "Risk Level", "Risk Score",
	"Compliance Score", "Renewal Date", "Auto Renews", "Value", "Status",
}

// Render produces the register in the requested format.
func (s *ExportService) Render(ctx context.Context, userID string, format ExportFormat) ([]byte, string, error) {
	contracts := s.contracts.List(ctx, userID)
	dataset := buildRegisterDataset(contracts)

	switch format {
	case ExportCSV:
		payload, err := s.csv.Render(dataset)
		return payload, "text/csv", err
	case ExportPDF:
		payload, err := s.pdf.Render(dataset, "Contract Register")
		return payload, "application/pdf", err
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func buildRegisterDataset(contracts []models.Contract) export.Dataset {
	rows := make([]map[string]string, 0, len(contracts))
	for _, c := range contracts {
		renewal := c.RenewalDate
		if renewal == "" {
			renewal = "N/A"
		}
		rows = append(rows, map[string]string{
			"File Name":        c.FileName,
			"Vendor":           c.Vendor,
			"Contract Type":    c.ContractType,
			"Risk Level":       string(c.RiskLevel),
			"Risk Score":       strconv.Itoa(c.RiskScore),
			"Compliance Score": strconv.Itoa(c.ComplianceScore),
			"Renewal Date":     renewal,
			"Auto Renews":      yesNo(c.AutoRenews),
			"Value":            c.Value,
			"Status":           string(c.Status),
		})
	}
	return export.Dataset{Headers: registerHeaders, Rows: rows}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
