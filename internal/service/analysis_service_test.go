package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/contractguard-api/internal/models"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
)

const validAnalysisJSON = `{
	"contractType": "SaaS Agreement",
	"vendor": "CloudCo",
	"summary": "Annual subscription with auto-renewal.",
	"riskLevel": "High",
	"riskScore": 78,
	"risks": [
		{"category": "Termination", "severity": "High", "description": "No termination for convenience"}
	],
	"renewalDate": "2026-06-30",
	"autoRenews": true,
	"noticePeriod": "60 days",
	"value": "$120,000/yr",
	"complianceScore": 55
}`

type mockRemoteClient struct {
	extractText    string
	extractErr     error
	completeText   string
	completeErr    error
	lastPrompt     string
	lastMediaType  string
	extractedCalls int
}

func (m *mockRemoteClient) ExtractDocument(ctx context.Context, mediaType string, data []byte) (string, error) {
	m.extractedCalls++
	m.lastMediaType = mediaType
	if m.extractErr != nil {
		return "", m.extractErr
	}
	return m.extractText, nil
}

func (m *mockRemoteClient) Complete(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.completeErr != nil {
		return "", m.completeErr
	}
	return m.completeText, nil
}

type mockDocumentStore struct {
	savedKeys []string
	saveErr   error
}

func (m *mockDocumentStore) Save(key string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.savedKeys = append(m.savedKeys, key)
	return key, nil
}

func newAnalysisService(client *mockRemoteClient, docs documentStore) *AnalysisService {
	return NewAnalysisService(client, docs, nil, nil, AnalysisOptions{})
}

func TestExtractTextPlainTextBypassesRemote(t *testing.T) {
	client := &mockRemoteClient{}
	svc := newAnalysisService(client, nil)

	text, err := svc.ExtractText(context.Background(), UploadInput{
		FileName: "notes.txt",
		MimeType: mimePlain,
		Data:     []byte("termination clause text"),
	})
	require.NoError(t, err)
	assert.Equal(t, "termination clause text", text)
	assert.Zero(t, client.extractedCalls)
}

func TestExtractTextPDFUsesRemoteExtraction(t *testing.T) {
	client := &mockRemoteClient{extractText: "extracted contract body"}
	svc := newAnalysisService(client, nil)

	text, err := svc.ExtractText(context.Background(), UploadInput{
		FileName: "contract.pdf",
		MimeType: mimePDF,
		Data:     []byte("%PDF-1.7"),
	})
	require.NoError(t, err)
	assert.Equal(t, "extracted contract body", text)
	assert.Equal(t, mimePDF, client.lastMediaType)
}

func TestExtractTextEmptyExtractionIsAnError(t *testing.T) {
	client := &mockRemoteClient{extractText: "   \n"}
	svc := newAnalysisService(client, nil)

	_, err := svc.ExtractText(context.Background(), UploadInput{MimeType: mimePDF})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRemoteService.Code, appErrors.FromError(err).Code)
}

func TestExtractTextDOCXUnsupported(t *testing.T) {
	svc := newAnalysisService(&mockRemoteClient{}, nil)

	_, err := svc.ExtractText(context.Background(), UploadInput{MimeType: mimeDOCX})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, appErrors.FromError(err).Code)
}

func TestAnalyzeTextParsesCleanJSON(t *testing.T) {
	client := &mockRemoteClient{completeText: validAnalysisJSON}
	svc := newAnalysisService(client, nil)

	analysis, err := svc.AnalyzeText(context.Background(), "contract body")
	require.NoError(t, err)
	assert.Equal(t, "CloudCo", analysis.Vendor)
	assert.Equal(t, models.RiskHigh, analysis.RiskLevel)
	assert.Equal(t, 78, analysis.RiskScore)
	assert.True(t, analysis.AutoRenews)
	require.Len(t, analysis.Risks, 1)
	assert.Contains(t, client.lastPrompt, "contract body")
	assert.Contains(t, client.lastPrompt, "ONLY JSON")
}

func TestAnalyzeTextStripsMarkdownFences(t *testing.T) {
	client := &mockRemoteClient{completeText: "```json\n" + validAnalysisJSON + "\n```"}
	svc := newAnalysisService(client, nil)

	analysis, err := svc.AnalyzeText(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "SaaS Agreement", analysis.ContractType)
}

func TestAnalyzeTextRejectsInvalidJSON(t *testing.T) {
	client := &mockRemoteClient{completeText: "I could not analyze this contract."}
	svc := newAnalysisService(client, nil)

	_, err := svc.AnalyzeText(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedAnalysis.Code, appErrors.FromError(err).Code)
}

func TestAnalyzeTextRejectsUnknownRiskLevel(t *testing.T) {
	bad := strings.Replace(validAnalysisJSON, `"High"`, `"Severe"`, 1)
	client := &mockRemoteClient{completeText: bad}
	svc := newAnalysisService(client, nil)

	_, err := svc.AnalyzeText(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedAnalysis.Code, appErrors.FromError(err).Code)
}

func TestAnalyzeTextRejectsScoreOutOfRange(t *testing.T) {
	bad := strings.Replace(validAnalysisJSON, `"riskScore": 78`, `"riskScore": 140`, 1)
	client := &mockRemoteClient{completeText: bad}
	svc := newAnalysisService(client, nil)

	_, err := svc.AnalyzeText(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedAnalysis.Code, appErrors.FromError(err).Code)
}

func TestValidateUploadRejectsOversizedFile(t *testing.T) {
	svc := NewAnalysisService(&mockRemoteClient{}, nil, nil, nil, AnalysisOptions{MaxFileSizeBytes: 8})

	err := svc.ValidateUpload(UploadInput{
		FileName: "big.pdf",
		MimeType: mimePDF,
		Data:     []byte("123456789"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateUploadRejectsLongFileName(t *testing.T) {
	svc := NewAnalysisService(&mockRemoteClient{}, nil, nil, nil, AnalysisOptions{MaxFileNameLen: 10})

	err := svc.ValidateUpload(UploadInput{
		FileName: "really_long_name.pdf",
		MimeType: mimePDF,
	})
	require.Error(t, err)
}

func TestValidateUploadRejectsDisallowedMIME(t *testing.T) {
	svc := newAnalysisService(&mockRemoteClient{}, nil)

	err := svc.ValidateUpload(UploadInput{
		FileName: "image.png",
		MimeType: "image/png",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUploadAndAnalyzeAssemblesContract(t *testing.T) {
	client := &mockRemoteClient{
		extractText:  "extracted body",
		completeText: validAnalysisJSON,
	}
	docs := &mockDocumentStore{}
	svc := newAnalysisService(client, docs)
	uploaded := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return uploaded }

	contract, err := svc.UploadAndAnalyze(context.Background(), "u-1", "org-1", UploadInput{
		FileName: "contract.pdf",
		MimeType: mimePDF,
		Data:     []byte("%PDF-1.7 body"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, contract.ID)
	assert.Equal(t, "contract.pdf", contract.FileName)
	assert.Equal(t, int64(13), contract.FileSize)
	assert.Equal(t, "u-1", contract.UploadedBy)
	assert.Equal(t, "org-1", contract.OrganizationID)
	assert.Equal(t, models.StatusDraft, contract.Status)
	assert.Equal(t, []string{}, contract.Tags)
	assert.Equal(t, uploaded, contract.UploadedAt)
	assert.Equal(t, "CloudCo", contract.Vendor)
	assert.True(t, strings.HasPrefix(contract.StorageKey, "contracts/"), contract.StorageKey)
	assert.Contains(t, contract.StorageKey, "_contract.pdf")
	require.Len(t, docs.savedKeys, 1)
	assert.Equal(t, contract.StorageKey, docs.savedKeys[0])
}

func TestUploadAndAnalyzeStopsOnAnalysisFailure(t *testing.T) {
	client := &mockRemoteClient{
		extractText:  "extracted body",
		completeText: "not json",
	}
	docs := &mockDocumentStore{}
	svc := newAnalysisService(client, docs)

	_, err := svc.UploadAndAnalyze(context.Background(), "u-1", "org-1", UploadInput{
		FileName: "contract.pdf",
		MimeType: mimePDF,
		Data:     []byte("%PDF-1.7"),
	})
	require.Error(t, err)
	// document stored before analysis so the original bytes survive
	assert.Len(t, docs.savedKeys, 1)
}

func TestUploadAndAnalyzeRecordsPipelineMetrics(t *testing.T) {
	client := &mockRemoteClient{
		extractText:  "extracted body",
		completeText: validAnalysisJSON,
	}
	metrics := NewMetricsService()
	svc := NewAnalysisService(client, nil, nil, metrics, AnalysisOptions{})

	_, err := svc.UploadAndAnalyze(context.Background(), "u-1", "org-1", UploadInput{
		FileName: "contract.pdf",
		MimeType: mimePDF,
		Data:     []byte("%PDF-1.7"),
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.analysisTotal.WithLabelValues("ok")))
	// one histogram series per pipeline stage: extract and analyze
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.analysisDuration, "contract_analysis_duration_seconds"))
}

func TestUploadAndAnalyzeCountsMalformedOutcome(t *testing.T) {
	client := &mockRemoteClient{
		extractText:  "extracted body",
		completeText: "not json",
	}
	metrics := NewMetricsService()
	svc := NewAnalysisService(client, nil, nil, metrics, AnalysisOptions{})

	_, err := svc.UploadAndAnalyze(context.Background(), "u-1", "org-1", UploadInput{
		FileName: "contract.pdf",
		MimeType: mimePDF,
		Data:     []byte("%PDF-1.7"),
	})
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.analysisTotal.WithLabelValues("malformed")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.analysisTotal.WithLabelValues("ok")))
}

func TestAnalysisOutcomeLabels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "ok"},
		{"network failure", appErrors.ErrNetwork, "network_error"},
		{"remote contract violation", appErrors.ErrRemoteService, "remote_error"},
		{"unparseable analysis", appErrors.ErrMalformedAnalysis, "malformed"},
		{"docx upload", appErrors.ErrUnsupportedFormat, "unsupported_format"},
		{"anything else", appErrors.ErrInternal, "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, analysisOutcome(tc.err))
		})
	}
}
