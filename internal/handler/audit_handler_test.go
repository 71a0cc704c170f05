package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/contractguard-api/internal/middleware"
	"github.com/noah-isme/contractguard-api/internal/models"
)

type fakeAuditSrv struct {
	entries   []models.AuditLog
	err       error
	lastLimit int
}

func (f *fakeAuditSrv) ListByUser(_ context.Context, userID string, limit int) ([]models.AuditLog, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func TestAuditHandlerListRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuditHandler(&fakeAuditSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/audit", nil)

	handler.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuditHandlerListReturnsTrail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuditSrv{entries: []models.AuditLog{{ID: "l-1", Action: models.AuditActionContractUpload}}}
	handler := NewAuditHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/audit?limit=5", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, srv.lastLimit)
	assert.Contains(t, rec.Body.String(), models.AuditActionContractUpload)
}
