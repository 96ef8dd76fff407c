package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/meta-ads-monitor/internal/config"
)

func TestNewPicksBackend(t *testing.T) {
	cfg := config.Default()
	a, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalArchiver{}, a)

	cfg.Storage.Type = "ftp"
	_, err = New(cfg)
	require.Error(t, err)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3Archiver(config.StorageConfig{Type: "s3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestLocalArchive(t *testing.T) {
	src := filepath.Join(t.TempDir(), "ACME-report.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"client":"ACME"}`), 0o644))

	base := t.TempDir()
	a := NewLocalArchiver(base)
	a.now = func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, a.Archive(context.Background(), "ACME", src))

	copied, err := os.ReadFile(filepath.Join(base, "ACME", "2025-08-01", "ACME-report.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"client":"ACME"}`, string(copied))
}

func TestLocalArchiveMissingSource(t *testing.T) {
	a := NewLocalArchiver(t.TempDir())
	err := a.Archive(context.Background(), "ACME", "/does/not/exist.json")
	require.Error(t, err)
}

type fakeS3 struct {
	input *s3.PutObjectInput
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	return &s3.PutObjectOutput{}, nil
}

func TestS3ArchiveKeyLayout(t *testing.T) {
	src := filepath.Join(t.TempDir(), "ACME-report.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF fake"), 0o644))

	fake := &fakeS3{}
	a := &S3Archiver{
		client: fake,
		bucket: "reports-bucket",
		prefix: "reports",
		now:    func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) },
	}

	require.NoError(t, a.Archive(context.Background(), "ACME", src))
	require.NotNil(t, fake.input)
	assert.Equal(t, "reports-bucket", *fake.input.Bucket)
	assert.Equal(t, "reports/ACME/2025-08-01/ACME-report.pdf", *fake.input.Key)
	assert.Equal(t, "application/pdf", *fake.input.ContentType)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/json", contentTypeFor("x.json"))
	assert.Equal(t, "application/pdf", contentTypeFor("x.pdf"))
	assert.Equal(t, "text/plain", contentTypeFor("x.txt"))
}
