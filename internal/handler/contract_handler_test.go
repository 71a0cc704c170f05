package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/contractguard-api/internal/middleware"
	"github.com/noah-isme/contractguard-api/internal/models"
	"github.com/noah-isme/contractguard-api/internal/service"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
)

type fakeContractSrv struct {
	contracts  []models.Contract
	addResp    *models.Contract
	addAlerts  []models.Alert
	addErr     error
	lastUpload service.UploadInput
	lastUser   string
	lastOrg    string
}

func (f *fakeContractSrv) List(_ context.Context, userID string) []models.Contract {
	f.lastUser = userID
	return f.contracts
}

func (f *fakeContractSrv) AddContract(_ context.Context, userID, orgID string, in service.UploadInput) (*models.Contract, []models.Alert, error) {
	f.lastUser = userID
	f.lastOrg = orgID
	f.lastUpload = in
	if f.addErr != nil {
		return nil, nil, f.addErr
	}
	return f.addResp, f.addAlerts, nil
}

func multipartUpload(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestContractHandlerListRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContractHandler(&fakeContractSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/contracts", nil)

	handler.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContractHandlerListReturnsRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeContractSrv{contracts: []models.Contract{{ID: "c-1", FileName: "msa.pdf"}}}
	handler := NewContractHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/contracts", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", srv.lastUser)
	assert.Contains(t, rec.Body.String(), "msa.pdf")
}

func TestContractHandlerUploadSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeContractSrv{
		addResp:   &models.Contract{ID: "c-1", FileName: "msa.pdf"},
		addAlerts: []models.Alert{{ID: "a-1", Type: models.AlertRisk}},
	}
	handler := NewContractHandler(srv)

	body, contentType := multipartUpload(t, "file", "msa.pdf", "application/pdf", []byte("%PDF-1.7"))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/contracts", body)
	c.Request.Header.Set("Content-Type", contentType)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", OrganizationID: "org-1"})

	handler.Upload(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "msa.pdf", srv.lastUpload.FileName)
	assert.Equal(t, "application/pdf", srv.lastUpload.MimeType)
	assert.Equal(t, []byte("%PDF-1.7"), srv.lastUpload.Data)
	assert.Equal(t, "org-1", srv.lastOrg)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.NotNil(t, envelope.Data["contract"])
	assert.NotNil(t, envelope.Data["alerts"])
}

func TestContractHandlerUploadMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContractHandler(&fakeContractSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/contracts", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContractHandlerUploadPipelineFailureMapsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContractHandler(&fakeContractSrv{addErr: appErrors.ErrMalformedAnalysis})

	body, contentType := multipartUpload(t, "file", "msa.pdf", "application/pdf", []byte("%PDF-1.7"))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/contracts", body)
	c.Request.Header.Set("Content-Type", contentType)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	handler.Upload(c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
