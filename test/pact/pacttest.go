//go:build pact
// +build pact

package pacttest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "parcel-intake-api"
	ConsumerName = "parcel-portal"

	StateDefaults      = "default business rules and no parcels"
	StateParcelsExist  = "a manifest with parcels P-100 and P-200 was ingested"
	StateParcelMissing = "no parcel with id P-404"
)

const (
	MailParcelID      = "P-100"
	InsuredParcelID   = "P-200"
	MissingParcelID   = "P-404"
	exampleRecipient  = "Pact Recipient"
	exampleInsuredVal = 2500
)

// ExampleManifest is the manifest the provider ingests for StateParcelsExist.
// P-100 routes to mail; P-200 is regular and waits for insurance review.
func ExampleManifest() []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Container>
  <parcels>
    <Parcel>
      <ID>%s</ID>
      <Weight>0.4</Weight>
      <Value>20</Value>
      <Receipient><Name>%s</Name></Receipient>
    </Parcel>
    <Parcel>
      <ID>%s</ID>
      <Weight>4</Weight>
      <Value>%d</Value>
    </Parcel>
  </parcels>
</Container>`, MailParcelID, exampleRecipient, InsuredParcelID, exampleInsuredVal))
}

// ExampleParcelPayload provides stable test data for the mail parcel.
func ExampleParcelPayload() map[string]any {
	return map[string]any{
		"parcelId":          MailParcelID,
		"weight":            0.4,
		"value":             20.0,
		"recipient":         exampleRecipient,
		"department":        "mail",
		"status":            "pending",
		"requiresInsurance": false,
		"insuranceApproved": false,
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the parcel portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
