package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"binaahub/pkg/types"
)

// Client talks to the document service's profile-documents API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

func (c *Client) documentsURL(role types.Role, parts ...string) string {
	segments := []string{c.baseURL, "api", "profile", url.PathEscape(role.String()), "documents"}
	for _, p := range parts {
		segments = append(segments, url.PathEscape(p))
	}
	return strings.Join(segments, "/")
}

// FetchDocuments retrieves the role's requirement catalog with its uploaded
// documents.
func (c *Client) FetchDocuments(ctx context.Context, role types.Role) ([]types.BackendDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentsURL(role), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var docs []types.BackendDocument
	if err := c.do(req, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadFile sends one file as multipart form data. The request honors ctx
// cancellation; an aborted upload surfaces the context error.
func (c *Client) UploadFile(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (*types.UploadResult, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if meta != nil {
		if meta.CustomName != nil {
			writer.WriteField("custom_name", *meta.CustomName)
		}
		if meta.Description != nil {
			writer.WriteField("description", *meta.Description)
		}
		if meta.ExpiryDate != nil {
			writer.WriteField("expiry_date", meta.ExpiryDate.Format(time.RFC3339))
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.documentsURL(role, docID, "files"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result types.UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveFile deletes a persisted file remotely.
func (c *Client) RemoveFile(ctx context.Context, role types.Role, docID, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.documentsURL(role, docID, "files", fileID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, nil)
}

// DownloadFile resolves a download URL for a persisted file.
func (c *Client) DownloadFile(ctx context.Context, role types.Role, docID, fileID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentsURL(role, docID, "files", fileID, "download"), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// SubmitDocuments submits the role's documents for review.
func (c *Client) SubmitDocuments(ctx context.Context, role types.Role) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.documentsURL(role, "submit"), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if IsCancellation(err) {
			return err
		}
		return &NetworkError{Message: "could not reach the document service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	message := resp.Status

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			if payload.Error != "" {
				message = payload.Error
			} else if payload.Message != "" {
				message = payload.Message
			}
		}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{Message: message}
	default:
		return &APIError{Status: resp.StatusCode, Message: message}
	}
}
