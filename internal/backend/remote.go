package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"graph-tracer/internal/extract"
	"graph-tracer/internal/model"
	"graph-tracer/internal/server"
)

// Accelerated is the client for a remote extraction service (server
// package). Highest-fidelity tier; any transport or protocol failure is
// reported as ErrBackendUnreachable so the orchestrator moves on.
type Accelerated struct {
	baseURL string
	client  *http.Client
}

// NewAccelerated builds a client for the service at baseURL.
func NewAccelerated(baseURL string) *Accelerated {
	return &Accelerated{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Name implements extract.Backend.
func (b *Accelerated) Name() string { return extract.MethodAccelerated }

// HealthCheck probes the service liveness endpoint. The caller supplies the
// probe deadline via ctx.
func (b *Accelerated) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %v: %w", b.baseURL, err, model.ErrBackendUnreachable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe %s: status %d: %w", b.baseURL, resp.StatusCode, model.ErrBackendUnreachable)
	}
	return nil
}

// DetectColors implements extract.Engine.
func (b *Accelerated) DetectColors(ctx context.Context, imageBytes []byte) ([]model.DetectedColor, error) {
	req := server.DetectRequest{Image: base64.StdEncoding.EncodeToString(imageBytes)}
	var resp server.DetectResponse
	if err := b.post(ctx, "/v1/detect", req, &resp); err != nil {
		return nil, err
	}
	return resp.Colors, nil
}

// ExtractCurves implements extract.Engine.
func (b *Accelerated) ExtractCurves(ctx context.Context, imageBytes []byte, colorNames []string, axis model.GraphAxisConfig) (*model.ExtractionResult, error) {
	req := server.ExtractRequest{
		Image:  base64.StdEncoding.EncodeToString(imageBytes),
		Colors: colorNames,
		Axis:   axis,
	}
	var result model.ExtractionResult
	if err := b.post(ctx, "/v1/extract", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (b *Accelerated) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", path, err, model.ErrBackendUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return b.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: malformed response: %v: %w", path, err, model.ErrBackendUnreachable)
	}
	return nil
}

// decodeError reconstructs the engine error taxonomy from the service's
// error envelope. Fatal kinds must come back as fatal types or the
// orchestrator would pointlessly retry bad input on other backends.
func (b *Accelerated) decodeError(resp *http.Response) error {
	var envelope server.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("status %d with unreadable error body: %w", resp.StatusCode, model.ErrBackendUnreachable)
	}

	switch envelope.Kind {
	case server.ErrKindDecode:
		return &model.DecodeError{Err: errors.New(envelope.Error)}
	case server.ErrKindConfig:
		return &model.ConfigError{Field: "remote", Reason: envelope.Error}
	default:
		return fmt.Errorf("remote error: %s: %w", envelope.Error, model.ErrBackendUnreachable)
	}
}
