package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"graph-tracer/internal/model"
)

// stubEngine serves canned responses so the HTTP layer can be tested without
// any image processing.
type stubEngine struct {
	detectErr  error
	extractErr error
}

func (s *stubEngine) DetectColors(ctx context.Context, imageBytes []byte) ([]model.DetectedColor, error) {
	if s.detectErr != nil {
		return nil, s.detectErr
	}
	return []model.DetectedColor{{Name: "red", PixelCount: 1200, Confidence: 0.9}}, nil
}

func (s *stubEngine) ExtractCurves(ctx context.Context, imageBytes []byte, colorNames []string, axis model.GraphAxisConfig) (*model.ExtractionResult, error) {
	if s.extractErr != nil {
		return nil, s.extractErr
	}
	return &model.ExtractionResult{
		Success:     true,
		TotalPoints: 2,
		Curves: []model.Curve{{
			ColorName: colorNames[0],
			Points:    []model.LogicalPoint{{X: 1, Y: 2}, {X: 2, Y: 3}},
		}},
	}, nil
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	handler := New(&stubEngine{}, nil).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// Liveness is GET only.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz status = %d, want 405", rec.Code)
	}
}

func TestDetectEndpoint(t *testing.T) {
	handler := New(&stubEngine{}, nil).Handler()

	rec := postJSON(t, handler, "/v1/detect", DetectRequest{
		Image: base64.StdEncoding.EncodeToString([]byte("png bytes")),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp DetectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Colors) != 1 || resp.Colors[0].Name != "red" {
		t.Errorf("colors = %+v, want the stub's red", resp.Colors)
	}
}

func TestExtractEndpoint(t *testing.T) {
	handler := New(&stubEngine{}, nil).Handler()

	rec := postJSON(t, handler, "/v1/extract", ExtractRequest{
		Image:  base64.StdEncoding.EncodeToString([]byte("png bytes")),
		Colors: []string{"blue"},
		Axis:   model.GraphAxisConfig{XMin: 0, XMax: 1, YMin: 0, YMax: 1},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var result model.ExtractionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.TotalPoints != 2 || result.Curves[0].ColorName != "blue" {
		t.Errorf("result = %+v, want the stub's blue curve", result)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		engine     *stubEngine
		wantStatus int
		wantKind   string
	}{
		{
			name:       "decode error is a 400",
			engine:     &stubEngine{extractErr: &model.DecodeError{Err: errors.New("bad magic")}},
			wantStatus: http.StatusBadRequest,
			wantKind:   ErrKindDecode,
		},
		{
			name:       "config error is a 400",
			engine:     &stubEngine{extractErr: &model.ConfigError{Field: "xMax", Reason: "must be greater than xMin"}},
			wantStatus: http.StatusBadRequest,
			wantKind:   ErrKindConfig,
		},
		{
			name:       "anything else is a 500",
			engine:     &stubEngine{extractErr: errors.New("native crash")},
			wantStatus: http.StatusInternalServerError,
			wantKind:   ErrKindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(tt.engine, nil).Handler()
			rec := postJSON(t, handler, "/v1/extract", ExtractRequest{
				Image:  base64.StdEncoding.EncodeToString([]byte("x")),
				Colors: []string{"red"},
			})
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var envelope ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatal(err)
			}
			if envelope.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", envelope.Kind, tt.wantKind)
			}
		})
	}
}

func TestBadRequestBodies(t *testing.T) {
	handler := New(&stubEngine{}, nil).Handler()

	// Unparseable JSON.
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d, want 400", rec.Code)
	}

	// Valid JSON, invalid base64.
	rec = postJSON(t, handler, "/v1/detect", DetectRequest{Image: "!!! not base64 !!!"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad base64 status = %d, want 400", rec.Code)
	}
	var envelope ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Kind != ErrKindDecode {
		t.Errorf("kind = %q, want %q", envelope.Kind, ErrKindDecode)
	}
}
