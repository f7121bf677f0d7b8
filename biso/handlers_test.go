package biso

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) (*gin.Engine, *StampRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stamps := NewStampRegistry()
	gate := NewGate(stamps, nil)
	h := NewHandlers(gate)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, stamps
}

func postJSON(t *testing.T, r *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlePoEShare_UnstampedWalletSucceedsWithComplianceRequired(t *testing.T) {
	r, stamps := testRouter(t)
	stamps.Register("w1", StampUnstamped)

	rec := postJSON(t, r, "/api/stamped-bpi/poe/share", map[string]any{"wallet_id": "w1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.Equal(t, "PoeOnly", body["access_level"])
	require.Equal(t, true, body["compliance_required"])
}

func TestHandleBankTransfer_UnstampedWalletDenied(t *testing.T) {
	r, stamps := testRouter(t)
	stamps.Register("w1", StampUnstamped)

	rec := postJSON(t, r, "/api/stamped-bpi/bank/transfer", map[string]any{"wallet_id": "w1"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Contains(t, body["error"], "Bank API access denied")
}

func TestHandleBankTransfer_MissingWalletIDRejected(t *testing.T) {
	r, _ := testRouter(t)
	rec := postJSON(t, r, "/api/stamped-bpi/bank/transfer", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
