package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/contractguard-api/internal/models"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
)

const (
	mimePDF   = "application/pdf"
	mimePlain = "text/plain"
	mimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

const analysisPromptFormat = `Analyze this contract, return ONLY JSON (no markdown):
{"contractType":"string","vendor":"string","summary":"string","riskLevel":"Low|Medium|High","riskScore":0-100,"risks":[{"category":"string","severity":"Low|Medium|High","description":"string"}],"renewalDate":"YYYY-MM-DD","autoRenews":boolean,"noticePeriod":"string","value":"string","complianceScore":0-100}

Contract: %s`

type extractionClient interface {
	ExtractDocument(ctx context.Context, mediaType string, data []byte) (string, error)
	Complete(ctx context.Context, prompt string) (string, error)
}

type documentStore interface {
	Save(key string, data []byte) (string, error)
}

// UploadInput carries one uploaded file through validation and the analysis
// pipeline.
type UploadInput struct {
	FileName string
	MimeType string
	Data     []byte
}

// AnalysisService runs the extract-then-analyze pipeline against the remote
// model and assembles analyzed contracts.
type AnalysisService struct {
	client           extractionClient
	documents        documentStore
	logger           *zap.Logger
	metrics          *MetricsService
	maxFileSizeBytes int64
	maxFileNameLen   int
	allowedMIMEs     map[string]struct{}

	now func() time.Time
}

// AnalysisOptions bounds uploads before they reach extraction.
type AnalysisOptions struct {
	MaxFileSizeBytes int64
	MaxFileNameLen   int
	AllowedMIMEs     []string
}

// NewAnalysisService wires the analysis pipeline. The metrics collaborator
// is optional.
func NewAnalysisService(client extractionClient, documents documentStore, logger *zap.Logger, metrics *MetricsService, opts AnalysisOptions) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxFileSizeBytes <= 0 {
		opts.MaxFileSizeBytes = 10 * 1024 * 1024
	}
	if opts.MaxFileNameLen <= 0 {
		opts.MaxFileNameLen = 255
	}
	allowed := make(map[string]struct{}, len(opts.AllowedMIMEs))
	for _, m := range opts.AllowedMIMEs {
		allowed[m] = struct{}{}
	}
	if len(allowed) == 0 {
		allowed[mimePDF] = struct{}{}
		allowed[mimePlain] = struct{}{}
		allowed[mimeDOCX] = struct{}{}
	}
	return &AnalysisService{
		client:           client,
		documents:        documents,
		logger:           logger,
		metrics:          metrics,
		maxFileSizeBytes: opts.MaxFileSizeBytes,
		maxFileNameLen:   opts.MaxFileNameLen,
		allowedMIMEs:     allowed,
		now:              time.Now,
	}
}

// ValidateUpload rejects files that are too large, anonymous, oversized in
// name, or of a type the pipeline does not accept.
func (s *AnalysisService) ValidateUpload(in UploadInput) error {
	if strings.TrimSpace(in.FileName) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "file name is required")
	}
	if len(in.FileName) > s.maxFileNameLen {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file name exceeds %d characters", s.maxFileNameLen))
	}
	if int64(len(in.Data)) > s.maxFileSizeBytes {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file exceeds the %d byte limit", s.maxFileSizeBytes))
	}
	if _, ok := s.allowedMIMEs[in.MimeType]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unsupported content type")
	}
	return nil
}

// ExtractText returns the contract text for the given file. Plain text is
// decoded locally; PDFs go to the remote model; DOCX is recognised but has
// no extractor yet.
func (s *AnalysisService) ExtractText(ctx context.Context, in UploadInput) (string, error) {
	switch in.MimeType {
	case mimePlain:
		return string(in.Data), nil
	case mimePDF:
		text, err := s.client.ExtractDocument(ctx, mimePDF, in.Data)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", appErrors.Clone(appErrors.ErrRemoteService, "extraction produced no text")
		}
		return text, nil
	case mimeDOCX:
		return "", appErrors.Clone(appErrors.ErrUnsupportedFormat, "DOCX extraction is not supported")
	default:
		return "", appErrors.ErrUnsupportedFormat
	}
}

// AnalyzeText asks the remote model for a structured analysis of the
// extracted text. The model sometimes wraps its JSON in markdown fences;
// those are stripped before parsing.
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string) (*models.ContractAnalysis, error) {
	raw, err := s.client.Complete(ctx, fmt.Sprintf(analysisPromptFormat, text))
	if err != nil {
		return nil, err
	}

	clean := stripFences(raw)

	var analysis models.ContractAnalysis
	if err := json.Unmarshal([]byte(clean), &analysis); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedAnalysis.Code,
			appErrors.ErrMalformedAnalysis.Status, "analysis response is not valid JSON")
	}

	if !analysis.RiskLevel.Valid() {
		return nil, appErrors.Clone(appErrors.ErrMalformedAnalysis,
			fmt.Sprintf("unknown risk level %q", analysis.RiskLevel))
	}
	if analysis.RiskScore < 0 || analysis.RiskScore > 100 {
		return nil, appErrors.Clone(appErrors.ErrMalformedAnalysis, "risk score out of range")
	}
	if analysis.ComplianceScore < 0 || analysis.ComplianceScore > 100 {
		return nil, appErrors.Clone(appErrors.ErrMalformedAnalysis, "compliance score out of range")
	}

	return &analysis, nil
}

// UploadAndAnalyze runs the full pipeline for one file and assembles the
// resulting contract. The document is stored on disk before analysis so the
// original bytes survive an analysis failure.
func (s *AnalysisService) UploadAndAnalyze(ctx context.Context, userID, orgID string, in UploadInput) (*models.Contract, error) {
	if err := s.ValidateUpload(in); err != nil {
		return nil, err
	}

	now := s.now()
	storageKey := fmt.Sprintf("contracts/%d_%s", now.UnixMilli(), in.FileName)
	if s.documents != nil {
		if _, err := s.documents.Save(storageKey, in.Data); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code,
				appErrors.ErrStorage.Status, "failed to store contract document")
		}
	}

	stageStart := time.Now()
	text, err := s.ExtractText(ctx, in)
	s.metrics.ObserveAnalysisStage("extract", time.Since(stageStart))
	if err != nil {
		s.metrics.RecordAnalysisOutcome(analysisOutcome(err))
		return nil, err
	}

	stageStart = time.Now()
	analysis, err := s.AnalyzeText(ctx, text)
	s.metrics.ObserveAnalysisStage("analyze", time.Since(stageStart))
	if err != nil {
		s.metrics.RecordAnalysisOutcome(analysisOutcome(err))
		return nil, err
	}
	s.metrics.RecordAnalysisOutcome(analysisOutcome(nil))

	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = mimePDF
	}

	contract := &models.Contract{
		ID:               uuid.NewString(),
		FileName:         in.FileName,
		FileSize:         int64(len(in.Data)),
		MimeType:         mimeType,
		StorageKey:       storageKey,
		UploadedAt:       now,
		UploadedBy:       userID,
		OrganizationID:   orgID,
		Status:           models.StatusDraft,
		LastModified:     now,
		Tags:             []string{},
		ContractAnalysis: *analysis,
	}

	s.logger.Info("contract analyzed",
		zap.String("contract_id", contract.ID),
		zap.String("file_name", contract.FileName),
		zap.String("risk_level", string(contract.RiskLevel)))

	return contract, nil
}

// analysisOutcome maps a pipeline result to the outcome label counted by
// contract_analysis_total.
func analysisOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch appErrors.FromError(err).Code {
	case appErrors.ErrNetwork.Code:
		return "network_error"
	case appErrors.ErrRemoteService.Code:
		return "remote_error"
	case appErrors.ErrMalformedAnalysis.Code:
		return "malformed"
	case appErrors.ErrUnsupportedFormat.Code:
		return "unsupported_format"
	default:
		return "error"
	}
}

// stripFences removes markdown code fences the model occasionally wraps
// around its JSON payload.
func stripFences(raw string) string {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	return strings.TrimSpace(clean)
}
