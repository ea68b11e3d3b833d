package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/orbitcrm/record_console_app/internal/core/ports/upstream"
)

const uploadTimeout = 30 * time.Second

// Uploader pushes staged binaries to the external asset store. Uploads are
// not retried; a failed upload degrades the submission instead of blocking it.
type Uploader struct {
	http    *http.Client
	baseURL string
	tokens  upstream.TokenProvider
	logger  *slog.Logger
}

// NewUploader builds an asset-store client.
func NewUploader(baseURL string, tokens upstream.TokenProvider, logger *slog.Logger) *Uploader {
	return &Uploader{
		http:    &http.Client{Timeout: uploadTimeout},
		baseURL: baseURL,
		tokens:  tokens,
		logger:  logger,
	}
}

var _ upstream.AssetUploader = (*Uploader)(nil)

// uploadResponse is the asset store's (otherwise contract-free) reply.
type uploadResponse struct {
	PublicURL string `json:"publicUrl"`
}

// UploadAsset sends one multipart upload and returns the public URL.
func (u *Uploader) UploadAsset(ctx context.Context, filename string, content io.Reader, kind upstream.AssetKind) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("copying asset content: %w", err)
	}
	if err := writer.WriteField("kind", string(kind)); err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/assets", &buf)
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if u.tokens != nil {
		token, err := u.tokens.Token(ctx)
		if err != nil {
			return "", fmt.Errorf("obtaining bearer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		u.logger.Warn("Asset upload rejected", slog.Int("status", resp.StatusCode), slog.String("filename", filename))
		return "", &upstream.Error{StatusCode: resp.StatusCode, Message: "asset upload rejected"}
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	return decoded.PublicURL, nil
}
