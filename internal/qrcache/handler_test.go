package qrcache

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"funnel_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Module) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := NewModule(testQRCfg{}, logger.New("development"))
	r := gin.New()
	r.GET("/api/qr", m.handler.Get)
	return r, m
}

func TestGetQRMissingSession(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/qr", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGetQRNoEntry(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/qr?sessionId=default", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp QRResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.HasQR {
		t.Fatalf("got success=%v hasQR=%v, want success without QR", resp.Success, resp.HasQR)
	}
}

func TestGetQRWithEntry(t *testing.T) {
	r, m := newTestRouter(t)
	m.Cache().Put("default", "2@raw-pairing-payload")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/qr?sessionId=default", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp QRResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.HasQR {
		t.Fatal("expected hasQR after put")
	}
	if resp.QR != "2@raw-pairing-payload" {
		t.Errorf("qr = %q, want raw payload", resp.QR)
	}
	if resp.QRImage == "" || resp.Timestamp == 0 {
		t.Errorf("expected rendered image and timestamp, got image=%d bytes ts=%d", len(resp.QRImage), resp.Timestamp)
	}
}
