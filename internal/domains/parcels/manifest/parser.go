// Package manifest turns uploaded XML manifests into parcel drafts.
//
// Element and attribute names are matched case-insensitively. The expected
// shape is container > parcels > parcel; every parcel entry is extracted on
// its own so a malformed entry never hides its siblings.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Draft is a parcel as read from the manifest, before repair and routing.
type Draft struct {
	ParcelID    string
	Weight      float64
	Value       float64
	Recipient   string
	Destination string
}

// Result carries the drafts extracted from a manifest together with the
// entries that had to be skipped.
type Result struct {
	Drafts   []Draft
	Failures []*RecordError
}

// Parser reads XML manifests.
type Parser struct {
	now   func() time.Time
	newID func() string
}

// Option customises a Parser.
type Option func(*Parser)

// WithClock overrides the time source used for synthesised parcel ids.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDSuffix overrides the random suffix used for synthesised parcel ids.
func WithIDSuffix(fn func() string) Option {
	return func(p *Parser) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// NewParser builds a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{now: time.Now, newID: randomSuffix}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Parse reads a manifest. Whole-document problems are returned as
// *FormatError; per-entry problems are collected in Result.Failures.
func (p *Parser) Parse(raw []byte) (*Result, error) {
	content := bytes.TrimPrefix(raw, utf8BOM)
	content = bytes.TrimLeft(content, " \t\r\n")
	if !bytes.HasPrefix(content, []byte("<?xml")) {
		return nil, &FormatError{Reason: "missing XML declaration"}
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, &FormatError{Reason: "document is not well-formed XML", Err: err}
	}

	roots := doc.ChildElements()
	var container *node
	found := make([]string, 0, len(roots))
	for _, el := range roots {
		found = append(found, el.Tag)
		if container == nil && strings.EqualFold(el.Tag, "container") {
			container = fromElement(el)
		}
	}
	if container == nil {
		return nil, &FormatError{Reason: "no container element", Found: found}
	}

	// Only the first parcels wrapper is read; later ones are ignored.
	entries := container.child("parcels").all("parcel")
	if len(entries) == 0 {
		return nil, &FormatError{Reason: "no parcel elements found in container"}
	}

	result := &Result{Drafts: make([]Draft, 0, len(entries))}
	for i, entry := range entries {
		draft, err := p.extract(entry)
		if err != nil {
			result.Failures = append(result.Failures, &RecordError{Index: i, ParcelID: draft.ParcelID, Err: err})
			continue
		}
		result.Drafts = append(result.Drafts, draft)
	}
	return result, nil
}

func (p *Parser) extract(entry *node) (Draft, error) {
	var draft Draft
	if id, ok := entry.value("ID", "ParcelID", "parcelId"); ok && id != "" {
		draft.ParcelID = id
	} else {
		draft.ParcelID = p.synthesizeID()
	}

	recipient := entry.child("Recipient", "Receipient")
	if recipient != nil {
		if name, ok := recipient.value("Name", "n"); ok {
			draft.Recipient = name
		} else if recipient.isLeaf() {
			draft.Recipient = recipient.text
		}
	}
	draft.Destination = destination(entry, recipient)

	weightRaw, _ := entry.value("Weight")
	weight, err := parseAmount("weight", weightRaw)
	if err != nil {
		return draft, err
	}
	valueRaw, _ := entry.value("Value")
	value, err := parseAmount("value", valueRaw)
	if err != nil {
		return draft, err
	}
	draft.Weight = weight
	draft.Value = value
	return draft, nil
}

func destination(entry, recipient *node) string {
	if address := recipient.child("Address"); address != nil {
		street, _ := address.value("Street")
		house, _ := address.value("HouseNumber")
		postal, _ := address.value("PostalCode")
		city, _ := address.value("City")
		if street != "" || house != "" || postal != "" || city != "" {
			return strings.TrimSpace(fmt.Sprintf("%s %s, %s %s", street, house, postal, city))
		}
	}
	dest, _ := entry.value("Destination")
	return dest
}

func (p *Parser) synthesizeID() string {
	return fmt.Sprintf("PCL-%d-%s", p.now().UnixMilli(), p.newID())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
