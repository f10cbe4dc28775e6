// Package s3 stores uploaded manifests in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

var _ ports.ManifestArchive = (*Archive)(nil)

// API is the subset of the S3 client the archive needs.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config selects the bucket and, for local stacks, a custom endpoint.
type Config struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
}

// Archive writes raw manifests under <prefix>/<yyyy>/<mm>/<dd>/<sha256>.xml.
type Archive struct {
	client API
	bucket string
	prefix string
	now    func() time.Time
}

// New loads AWS credentials from the default chain and builds an archive.
func New(ctx context.Context, cfg Config) (*Archive, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("manifest archive bucket is required")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}
	var opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return NewWithClient(s3.NewFromConfig(awsCfg, opts...), cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient builds an archive around an existing client.
func NewWithClient(client API, bucket, prefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// Store uploads the manifest and returns its object key. Identical uploads
// land on the same key.
func (a *Archive) Store(ctx context.Context, filename string, manifest []byte) (string, error) {
	if a == nil || a.client == nil {
		return "", errors.New("manifest archive not configured")
	}
	key := a.objectKey(manifest)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(manifest),
		ContentType: aws.String("application/xml"),
	}
	if filename != "" {
		input.Metadata = map[string]string{"original-filename": filename}
	}
	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put manifest %s: %w", key, err)
	}
	return key, nil
}

func (a *Archive) objectKey(manifest []byte) string {
	sum := sha256.Sum256(manifest)
	day := a.now().UTC().Format("2006/01/02")
	return path.Join(a.prefix, day, hex.EncodeToString(sum[:])+".xml")
}
