package manifest

import (
	"fmt"
	"strings"
)

// FormatError rejects a whole manifest: the document is not XML, lacks the
// prolog, or does not carry the container/parcels/parcel structure.
type FormatError struct {
	Reason string
	// Found lists the top-level element names seen when the container is missing.
	Found []string
	Err   error
}

func (e *FormatError) Error() string {
	msg := "invalid manifest: " + e.Reason
	if len(e.Found) > 0 {
		msg += fmt.Sprintf(" (found root elements: %s)", strings.Join(e.Found, ", "))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// RecordError describes a single parcel entry that could not be extracted.
// Siblings of the failing entry are unaffected.
type RecordError struct {
	// Index is the zero-based position of the entry inside the parcels element.
	Index    int
	ParcelID string
	Err      error
}

func (e *RecordError) Error() string {
	if e.ParcelID != "" {
		return fmt.Sprintf("parcel %s: %v", e.ParcelID, e.Err)
	}
	return fmt.Sprintf("parcel entry %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
