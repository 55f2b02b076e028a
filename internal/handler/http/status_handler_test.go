package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wb-go/wbf/ginext"
	"github.com/yokitheyo/coverart/internal/domain"
	"github.com/yokitheyo/coverart/internal/dto"
)

type stubStatus struct {
	status domain.Status
}

func (s *stubStatus) Snapshot() domain.Status {
	return s.status
}

func TestStatusHandler_GetStatus(t *testing.T) {
	stub := &stubStatus{status: domain.Status{
		Message:    "Image processed and saved",
		OutputPath: "/covers/cover_processed.png",
	}}

	engine := ginext.New("test")
	NewStatusHandler(stub).RegisterRoutes(engine)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Image processed and saved" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.OutputPath != "/covers/cover_processed.png" {
		t.Errorf("unexpected output path %q", resp.OutputPath)
	}
	if resp.Processing {
		t.Error("expected processing=false")
	}
}

func TestStatusHandler_GetStatusWhileProcessing(t *testing.T) {
	stub := &stubStatus{status: domain.Status{
		Message:    "Processing...",
		Processing: true,
	}}

	engine := ginext.New("test")
	NewStatusHandler(stub).RegisterRoutes(engine)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var resp dto.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Processing {
		t.Error("expected processing=true")
	}
	if resp.OutputPath != "" {
		t.Errorf("expected empty output path, got %q", resp.OutputPath)
	}
}
