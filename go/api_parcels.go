package intakeserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	parcelhttpmapper "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/http/mapper"
	parcelstypes "github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	parcelsports "github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

// DefaultMaxUploadBytes caps manifest uploads when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

const (
	manifestFormField    = "xmlFile"
	idempotencyKeyHeader = "Idempotency-Key"
)

var (
	errNoManifest     = errors.New("no XML file provided")
	errNotXMLManifest = errors.New("only XML files are allowed")
)

// ParcelAPI wires HTTP transport with the parcels bounded context service and workflows.
type ParcelAPI struct {
	service        parcelsports.Service
	workflows      parcelsports.WorkflowOrchestrator
	maxUploadBytes int64
}

// NewParcelAPI creates a ParcelAPI. A non-positive limit falls back to DefaultMaxUploadBytes.
func NewParcelAPI(service parcelsports.Service, workflows parcelsports.WorkflowOrchestrator, maxUploadBytes int64) ParcelAPI {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return ParcelAPI{service: service, workflows: workflows, maxUploadBytes: maxUploadBytes}
}

// Post /api/parcels/upload-xml
// Ingests an XML manifest
func (api *ParcelAPI) UploadXML(c *gin.Context) {
	// multipart framing needs headroom on top of the manifest itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, api.maxUploadBytes+64<<10)
	file, err := c.FormFile(manifestFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("manifest exceeds %d bytes", api.maxUploadBytes))
			return
		}
		respondError(c, http.StatusBadRequest, errNoManifest)
		return
	}
	if !isXMLUpload(file) {
		respondError(c, http.StatusUnsupportedMediaType, errNotXMLManifest)
		return
	}
	if file.Size > api.maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("manifest exceeds %d bytes", api.maxUploadBytes))
		return
	}
	raw, err := readUpload(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("error reading the uploaded file: %w", err))
		return
	}
	input := parcelstypes.IngestManifestInput{
		Manifest:       raw,
		Filename:       file.Filename,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(idempotencyKeyHeader)),
	}
	result, err := api.ingest(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcelhttpmapper.FromIngestionResult(result))
}

func (api *ParcelAPI) ingest(ctx context.Context, input parcelstypes.IngestManifestInput) (*parcelstypes.IngestionResult, error) {
	if api.workflows != nil {
		return api.workflows.IngestManifest(ctx, input)
	}
	return api.service.Ingest(ctx, input)
}

// Get /api/parcels
// Lists parcels, newest first
func (api *ParcelAPI) ListParcels(c *gin.Context) {
	input := parcelstypes.ListParcelsInput{
		Department: c.Query("department"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
	}
	result, err := api.service.List(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcelhttpmapper.FromProjectionList(result))
}

// Get /api/parcels/:parcelId
// Finds a parcel by its manifest id
func (api *ParcelAPI) GetParcel(c *gin.Context) {
	parcel, err := api.service.Get(c.Request.Context(), parcelstypes.ParcelIdentifier{ParcelID: c.Param("parcelId")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcelhttpmapper.FromProjection(parcel))
}

// Post /api/parcels/:parcelId/approve-insurance
// Approves the insurance review of a parcel
func (api *ParcelAPI) ApproveInsurance(c *gin.Context) {
	parcel, err := api.service.ApproveInsurance(c.Request.Context(), parcelstypes.ParcelIdentifier{ParcelID: c.Param("parcelId")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcelhttpmapper.FromProjection(parcel))
}

// Post /api/parcels/:parcelId/complete
// Marks a parcel as completed
func (api *ParcelAPI) CompleteParcel(c *gin.Context) {
	parcel, err := api.service.CompleteProcessing(c.Request.Context(), parcelstypes.ParcelIdentifier{ParcelID: c.Param("parcelId")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcelhttpmapper.FromProjection(parcel))
}

func isXMLUpload(file *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(file.Filename), ".xml") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(file.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "text/xml" || mediaType == "application/xml"
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
