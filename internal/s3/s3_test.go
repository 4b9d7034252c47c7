package s3_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-scorer/internal/s3"
)

func setUpFileStore(t *testing.T) (*s3.FileStore, string) {

	t.Helper()

	endpoint := os.Getenv("S3_TEST_ENDPOINT")
	accessKey := os.Getenv("S3_TEST_ACCESS_KEY")
	secretKey := os.Getenv("S3_TEST_SECRET_KEY")
	bucket := os.Getenv("S3_TEST_BUCKET")

	if endpoint == "" || accessKey == "" || secretKey == "" {
		t.Skip("S3 configuration not set (S3_TEST_ENDPOINT, S3_TEST_ACCESS_KEY, S3_TEST_SECRET_KEY), skipping integration test")
	}

	if bucket == "" {
		bucket = "resume-archive"
	}

	store, err := s3.NewFileStore(context.Background(), s3.S3Config{
		EndpointURL: endpoint,
		Region:      "us-east-1",
		AccessKey:   accessKey,
		SecretKey:   secretKey,
	})
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	return store, bucket
}

func TestUpload(t *testing.T) {
	store, bucket := setUpFileStore(t)
	ctx := context.Background()

	content := []byte("%PDF-1.4\narchived resume\n%%EOF")

	id, err := uuid.NewV7()
	require.NoError(t, err)

	key := "resumes/" + id.String() + ".pdf"

	location, err := store.Upload(ctx, bytes.NewReader(content), bucket, key, "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, location, key)
}

func TestUpload_MissingBucket(t *testing.T) {
	store, _ := setUpFileStore(t)

	id, err := uuid.NewV7()
	require.NoError(t, err)

	_, err = store.Upload(
		context.Background(),
		bytes.NewReader([]byte("text")),
		"no-such-bucket-"+id.String(),
		"resumes/x.txt",
		"text/plain",
	)

	assert.Error(t, err)
}
