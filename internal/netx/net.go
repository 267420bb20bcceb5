// Package netx contains small HTTP helpers shared by client components.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// UploadPresigned PUTs body to a presigned object-storage URL.
// The object store validates the signature; no other credentials are sent.
func UploadPresigned(ctx context.Context, client *http.Client, url string, body []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload failed: status %d: %s", resp.StatusCode, msg)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
