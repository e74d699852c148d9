// Package gcs fetches receipt images stored in Google Cloud Storage so scans
// can reference a gs:// URI instead of shipping the bytes themselves.
package gcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
)

// ParseURI splits a "gs://bucket/path/to/object" URI into bucket and object.
func ParseURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	if trimmed == uri {
		return "", "", fmt.Errorf("ParseURI: %q is not a gs:// URI", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("ParseURI: %q has no object path", uri)
	}
	return parts[0], parts[1], nil
}

// FetchImage downloads the object behind the gs:// URI and sniffs its MIME
// type from the content.
func FetchImage(ctx context.Context, uri string) (data []byte, mimeType string, err error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, "", err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("FetchImage: create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("FetchImage: open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err = io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("FetchImage: read GCS object: %w", err)
	}

	mimeType = r.Attrs.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}
