package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// StorageClient handles Supabase Storage operations. The portal only needs
// the object surface: put bytes under a bucket path, expose the public URL,
// and best-effort removal for seller cleanup.
type StorageClient struct {
	client *Client
}

// Upload uploads a file to storage and returns its public URL.
func (s *StorageClient) Upload(ctx context.Context, bucketID, filePath string, data []byte, opts *UploadOptions) (string, error) {
	urlStr := fmt.Sprintf("%s/object/%s/%s", s.client.storageURL, bucketID, escapePath(filePath))

	headers := map[string]string{}
	if opts != nil {
		if opts.ContentType != "" {
			headers["Content-Type"] = opts.ContentType
		}
		if opts.CacheControl != "" {
			headers["Cache-Control"] = opts.CacheControl
		}
		if opts.Upsert {
			headers["x-upsert"] = "true"
		}
	}

	if headers["Content-Type"] == "" {
		headers["Content-Type"] = "application/octet-stream"
	}

	respBody, statusCode, err := s.client.request(ctx, "POST", urlStr, data, headers)
	if err != nil {
		return "", err
	}

	if statusCode >= 400 {
		return "", parseError(respBody, statusCode)
	}

	return s.GetPublicURL(bucketID, filePath), nil
}

// Download downloads a file from storage.
func (s *StorageClient) Download(ctx context.Context, bucketID, filePath string) ([]byte, error) {
	urlStr := fmt.Sprintf("%s/object/%s/%s", s.client.storageURL, bucketID, escapePath(filePath))

	respBody, statusCode, err := s.client.request(ctx, "GET", urlStr, nil, nil)
	if err != nil {
		return nil, err
	}

	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	return respBody, nil
}

// Remove deletes files from storage.
func (s *StorageClient) Remove(ctx context.Context, bucketID string, filePaths []string) error {
	urlStr := fmt.Sprintf("%s/object/%s", s.client.storageURL, bucketID)

	req := map[string]interface{}{
		"prefixes": filePaths,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	respBody, statusCode, err := s.client.request(ctx, "DELETE", urlStr, body, nil)
	if err != nil {
		return err
	}

	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}

	return nil
}

// GetPublicURL returns the public URL for a file in a public bucket.
func (s *StorageClient) GetPublicURL(bucketID, filePath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.client.storageURL, bucketID, escapePath(filePath))
}

// escapePath escapes a storage object path segment by segment so slashes
// survive.
func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}
