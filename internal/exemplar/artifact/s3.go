package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/dustin/go-humanize"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
)

// Uploader is the part of s3manager.Uploader the mirror uses.
type Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3Mirror copies written artifacts to s3://bucket/prefix/<upload id>/<name>.
type S3Mirror struct {
	uploader Uploader
	bucket   string
	prefix   string
}

// NewS3Mirror builds a mirror on the default AWS credential chain.
func NewS3Mirror(region, bucket, prefix string) (*S3Mirror, error) {
	if bucket == "" {
		return nil, errors.New("artifact: s3 bucket is required")
	}

	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("artifact: aws session: %w", err)
	}

	return NewS3MirrorWithUploader(s3manager.NewUploader(sess), bucket, prefix), nil
}

func NewS3MirrorWithUploader(uploader Uploader, bucket, prefix string) *S3Mirror {
	return &S3Mirror{uploader: uploader, bucket: bucket, prefix: prefix}
}

// Key is the object key of file name for an upload.
func (m *S3Mirror) Key(uploadID, name string) string {
	return path.Join(m.prefix, uploadID, name)
}

// Mirror uploads the encoded bytes of an upload's artifacts. It never reads
// the output directory, where a later upload may already have replaced them.
func (m *S3Mirror) Mirror(ctx context.Context, uploadID string, artifacts []entity.Artifact) error {
	var errs []error
	for _, art := range artifacts {
		if err := m.put(ctx, uploadID, art); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *S3Mirror) put(ctx context.Context, uploadID string, art entity.Artifact) error {
	key := m.Key(uploadID, art.Name)
	out, err := m.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(art.Data),
		ContentType: aws.String(contentType(art.Name)),
		Metadata: map[string]*string{
			"Upload-Id": aws.String(uploadID),
			"Xxhash":    aws.String(Checksum(art.Data)),
		},
	})
	if err != nil {
		return fmt.Errorf("artifact: upload s3://%s/%s: %w", m.bucket, key, err)
	}

	slog.InfoContext(ctx, "output file mirrored",
		"location", out.Location,
		"size", humanize.Bytes(uint64(len(art.Data))),
	)
	return nil
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
