package backend

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	identityHeader  = "X-User-Email"
	requestIDHeader = "X-Request-ID"
	maxLogBody      = 300
)

// emptyBody is sent by action endpoints which expect a JSON object but read nothing from it.
var emptyBody = struct{}{}

// endpoint joins the path onto the configured API URL.
func (c *Client) endpoint(path string) string {
	base := c.APIURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(path, "/")
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into target.
func (c *Client) doJSON(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	return c.send(req, target)
}

// postMultipart uploads a single file under the given form field. It bypasses
// the JSON body path entirely.
func (c *Client) postMultipart(ctx context.Context, path, field, filename string, file io.Reader, target any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return err
	}

	if _, err = io.Copy(part, file); err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), &b)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, target)
}

func (c *Client) send(req *http.Request, target any) error {
	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return err
	}

	c.logger.Debug("got response from backend",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
		zap.Int("status", resp.StatusCode),
		zap.String("body", utils.TruncateForLog(string(data), maxLogBody)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RequestError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
	}

	if target == nil {
		return nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyResponse
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.String(), err)
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set(requestIDHeader, uuid.NewString())

	if email := c.email(); email != "" {
		req.Header.Set(identityHeader, email)
	}

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}
