package server

import "graph-tracer/internal/model"

// Wire types for the extraction service JSON API. The remote backend client
// marshals the same shapes.

// DetectRequest asks which palette colors an image contains.
type DetectRequest struct {
	// Image is the base64-encoded image bytes.
	Image string `json:"image"`
}

// DetectResponse lists the detected colors.
type DetectResponse struct {
	Colors []model.DetectedColor `json:"colors"`
}

// ExtractRequest asks for curve extraction.
type ExtractRequest struct {
	Image  string                `json:"image"`
	Colors []string              `json:"colors"`
	Axis   model.GraphAxisConfig `json:"axis"`
}

// Error kinds let the client reconstruct the fatal/recoverable distinction
// across the wire.
const (
	ErrKindDecode   = "decode"
	ErrKindConfig   = "config"
	ErrKindInternal = "internal"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
