package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Uploader is the blob storage collaborator: store a payload under a
// key, get back a publicly resolvable URL.
type Uploader interface {
	Upload(ctx context.Context, key string, payload []byte) (string, error)
}

// HTTPUploader PUTs payloads to a blob gateway. The gateway is expected
// to make the object available under publicBaseURL/key.
type HTTPUploader struct {
	client        *http.Client
	endpoint      string
	publicBaseURL string
}

func NewHTTPUploader(endpoint, publicBaseURL string, timeout time.Duration) *HTTPUploader {
	return &HTTPUploader{
		client:        &http.Client{Timeout: timeout},
		endpoint:      strings.TrimSuffix(endpoint, "/"),
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func (u *HTTPUploader) Upload(ctx context.Context, key string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/%s", u.endpoint, key), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	return fmt.Sprintf("%s/%s", u.publicBaseURL, key), nil
}
