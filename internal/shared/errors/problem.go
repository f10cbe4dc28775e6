// Package errors provides RFC 7807 Problem Details for the intake HTTP API.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

const (
	TypeValidation       = "/problems/validation-error"
	TypeNotFound         = "/problems/not-found"
	TypeConflict         = "/problems/conflict"
	TypeInternal         = "/problems/internal-error"
	TypeBadRequest       = "/problems/bad-request"
	TypeInvalidManifest  = "/problems/invalid-manifest"
	TypeEmptyManifest    = "/problems/empty-manifest"
	TypeUnsupportedMedia = "/problems/unsupported-media-type"
	TypePayloadTooLarge  = "/problems/payload-too-large"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrConflict = ProblemDetail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrInvalidManifest rejects an upload whose document structure is unusable.
	ErrInvalidManifest = ProblemDetail{
		Type:   TypeInvalidManifest,
		Title:  "Failed to parse XML file",
		Status: http.StatusBadRequest,
	}

	// ErrEmptyManifest rejects an upload that yielded no usable parcel.
	ErrEmptyManifest = ProblemDetail{
		Type:   TypeEmptyManifest,
		Title:  "No valid parcels found in the XML file",
		Status: http.StatusBadRequest,
	}

	ErrUnsupportedMedia = ProblemDetail{
		Type:   TypeUnsupportedMedia,
		Title:  "Only XML files are allowed",
		Status: http.StatusUnsupportedMediaType,
	}

	ErrPayloadTooLarge = ProblemDetail{
		Type:   TypePayloadTooLarge,
		Title:  "Manifest too large",
		Status: http.StatusRequestEntityTooLarge,
	}
)

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}
