package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorDetail(rec, http.StatusBadRequest, "MISSING_EVENT_ID", "eventId is required", "detail")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "MISSING_EVENT_ID" || body.Error.Detail != "detail" {
		t.Errorf("body = %+v", body)
	}
	if rec.Header().Get("Cache-Control") != "no-cache, no-store, must-revalidate" {
		t.Errorf("cache-control = %s", rec.Header().Get("Cache-Control"))
	}
}

func TestWriteETagged(t *testing.T) {
	v := map[string]int{"score": 52}

	rec := httptest.NewRecorder()
	WriteETagged(rec, httptest.NewRequest(http.MethodGet, "/", nil), v, 90*time.Second)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" || rec.Header().Get("Cache-Control") != "public, max-age=90, stale-while-revalidate=45" {
		t.Errorf("headers = %v", rec.Header())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	WriteETagged(rec, req, v, 90*time.Second)
	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Errorf("status = %d body = %q", rec.Code, rec.Body.String())
	}
}
