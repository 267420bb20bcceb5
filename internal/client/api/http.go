package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ddanilov/daybook/internal/client/models"
	"github.com/ddanilov/daybook/internal/common"
)

// HTTPClient talks to the server's JSON API over HTTP.
type HTTPClient struct {
	baseURL     string
	http        *http.Client
	accessToken string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) SetAccessToken(token string) {
	c.accessToken = token
}

type apiError struct {
	Error string `json:"error"`
}

// do sends one JSON request and decodes the response into out (unless nil).
// Non-2xx statuses come back as the matching sentinel error.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *HTTPClient) statusError(resp *http.Response) error {
	var apiErr apiError
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	msg := apiErr.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", common.ErrRateLimited, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrInternal, msg)
	}
}

func (c *HTTPClient) RequestLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/link", map[string]string{"email": email}, nil)
}

func (c *HTTPClient) Verify(ctx context.Context, token string) (*VerifyResult, error) {
	var result VerifyResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify", map[string]string{"token": token}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) List(ctx context.Context, opts ListOptions) ([]models.Entry, error) {
	q := url.Values{}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.ImagesOnly {
		q.Set("images_only", "true")
	}
	if len(opts.Tags) > 0 {
		q.Set("tags", strings.Join(opts.Tags, ","))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/api/entries"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Entries []models.Entry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *HTTPClient) Get(ctx context.Context, id string) (*models.Entry, error) {
	var e models.Entry
	if err := c.do(ctx, http.MethodGet, "/api/entries/"+url.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) Create(ctx context.Context, payload CreateEntry) (*models.Entry, error) {
	var e models.Entry
	if err := c.do(ctx, http.MethodPost, "/api/entries", payload, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) Update(ctx context.Context, id string, patch EntryPatch) (*models.Entry, error) {
	var e models.Entry
	if err := c.do(ctx, http.MethodPatch, "/api/entries/"+url.PathEscape(id), patch, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	var resp struct {
		OK bool `json:"ok"`
	}
	return c.do(ctx, http.MethodPost, "/api/entries/delete", map[string]string{"id": id}, &resp)
}

func (c *HTTPClient) SignURL(ctx context.Context, path, bucket string, expiresIn int) (string, error) {
	payload := map[string]any{"path": path}
	if bucket != "" {
		payload["bucket"] = bucket
	}
	if expiresIn > 0 {
		payload["expiresIn"] = expiresIn
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/storage/signed-url", payload, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *HTTPClient) UploadURL(ctx context.Context, ext string) (*UploadTicket, error) {
	var ticket UploadTicket
	if err := c.do(ctx, http.MethodPost, "/api/storage/upload-url", map[string]string{"ext": ext}, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}
