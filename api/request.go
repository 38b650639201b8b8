package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
)

// maxResponseBytes caps how much of a response body is read into memory.
const maxResponseBytes = 10 << 20

const requestIDHeader = "X-Request-ID"

type MediaType string

const (
	MediaTypeJSON      MediaType = "application/json"
	MediaTypeForm      MediaType = "application/x-www-form-urlencoded"
	MediaTypeMultipart MediaType = "multipart/form-data"
)

// Upload is a file part of a multipart request.
type Upload struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// request describes one API operation: method, templated url, and how the body
// is encoded. It mirrors the shape of a generated OpenAPI call.
type request struct {
	operation string
	method    string
	url       string
	path      map[string]string
	query     url.Values
	body      any
	formData  url.Values
	files     map[string]Upload
	mediaType MediaType
	errors    map[int]string
}

// commonErrors are reported for any operation that does not override them.
var commonErrors = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusUnprocessableEntity: "Validation Error",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusBadGateway:          "Bad Gateway",
	http.StatusServiceUnavailable:  "Service Unavailable",
}

func (c *Client) send(ctx context.Context, r *request, out any) error {
	target, err := c.resolveURL(r)
	if err != nil {
		return err
	}

	body, contentType, err := c.encodeBody(r)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("[api %s] failed to build request: %w", r.operation, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", string(MediaTypeJSON))
	req.Header.Set(requestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(req, r.operation)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(r.operation, "error", time.Since(start))
		c.logger.Debug().Err(err).Str("operation", r.operation).Str("request_id", requestID).Msg("request failed")
		return fmt.Errorf("[api %s] %s %s: %w", r.operation, r.method, target, err)
	}
	defer resp.Body.Close()
	c.metrics.observe(r.operation, fmt.Sprint(resp.StatusCode), time.Since(start))

	data, err := readLimited(resp.Body, maxResponseBytes)
	if err != nil {
		return fmt.Errorf("[api %s] failed to read response: %w", r.operation, err)
	}

	c.logger.Debug().
		Str("operation", r.operation).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(r, target, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("[api %s] failed to decode response: %w", r.operation, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request, operation string) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token()
	if err != nil {
		c.logger.Debug().Err(err).Str("operation", operation).Msg("sending request without bearer token")
		return
	}
	token.SetAuthHeader(req)
}

func (c *Client) resolveURL(r *request) (string, error) {
	path, rawPath := r.url, r.url
	for name, value := range r.path {
		if value == "" {
			return "", perrors.Wrapf(perrors.ErrMissingPathArg, "[api %s] %s", r.operation, name)
		}
		path = strings.ReplaceAll(path, "{"+name+"}", value)
		rawPath = strings.ReplaceAll(rawPath, "{"+name+"}", url.PathEscape(value))
	}
	if strings.Contains(rawPath, "{") {
		return "", perrors.Wrapf(perrors.ErrMissingPathArg, "[api %s] %s", r.operation, rawPath)
	}

	// Path holds the decoded form, RawPath keeps escaped separators inside values
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + rawPath
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}
	return u.String(), nil
}

func (c *Client) encodeBody(r *request) (io.Reader, string, error) {
	switch r.mediaType {
	case MediaTypeForm:
		return strings.NewReader(r.formData.Encode()), string(MediaTypeForm), nil
	case MediaTypeMultipart:
		return encodeMultipart(r.formData, r.files)
	}

	if r.body == nil {
		return nil, "", nil
	}
	if isStruct(r.body) {
		if err := c.validate.Struct(r.body); err != nil {
			return nil, "", fmt.Errorf("[api %s] %w: %w", r.operation, perrors.ErrInvalidRequest, err)
		}
	}
	data, err := json.Marshal(r.body)
	if err != nil {
		return nil, "", fmt.Errorf("[api %s] failed to encode body: %w", r.operation, err)
	}
	return bytes.NewReader(data), string(MediaTypeJSON), nil
}

func encodeMultipart(fields url.Values, files map[string]Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, value := range values {
			if err := w.WriteField(name, value); err != nil {
				return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
			}
		}
	}
	for field, upload := range files {
		if upload.Content == nil {
			return nil, "", perrors.Wrapf(perrors.ErrInvalidRequest, "missing content for %s", field)
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(upload.FileName)))
		contentType := upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", field, err)
		}
		if _, err := io.Copy(part, upload.Content); err != nil {
			return nil, "", fmt.Errorf("failed to copy part %s: %w", field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeded limit of %d bytes", limit)
	}
	return data, nil
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}

// call sends r and decodes the response into a new T.
func call[T any](ctx context.Context, c *Client, r *request) (*T, error) {
	var out T
	if err := c.send(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
