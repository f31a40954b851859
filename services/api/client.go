package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trezcool/hackadmin/core"
)

type (
	Options struct {
		BaseURL    string
		Timeout    time.Duration
		Headers    map[string]string
		HTTPClient *http.Client          // optional; built from Timeout otherwise
		Logger     core.Logger           // optional
		Registerer prometheus.Registerer // optional; a private registry is used otherwise
	}

	// Client is the configured HTTP client every entity service goes through.
	// It is safe for concurrent use.
	Client struct {
		baseURL string
		headers map[string]string
		http    *http.Client
		logger  core.Logger
		metrics *metrics

		mu    sync.RWMutex
		token string
	}
)

var _ core.API = (*Client)(nil)

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		headers: headers,
		http:    httpClient,
		logger:  logger,
		metrics: newMetrics(reg),
	}
}

// NewClientFromConfig builds a Client from the app configuration.
func NewClientFromConfig(conf *core.Config, logger core.Logger, reg prometheus.Registerer) *Client {
	return NewClient(Options{
		BaseURL:    conf.API.BaseURL,
		Timeout:    conf.API.Timeout,
		Headers:    conf.API.Headers,
		Logger:     logger,
		Registerer: reg,
	})
}

// SetToken sets the bearer token sent with every request. An empty token disables the header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) BaseURL() string { return c.baseURL }

// Get calls GET path and decodes the response payload into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post calls POST path with a JSON body and decodes the response payload into out.
// body and out may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	if body == nil {
		return c.do(ctx, http.MethodPost, path, nil, "", out)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encoding request body")
	}
	return c.do(ctx, http.MethodPost, path, data, "application/json", out)
}

// PostMultipart calls POST path with a multipart/form-data body.
func (c *Client) PostMultipart(ctx context.Context, path string, form core.MultipartForm, out interface{}) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	keys := make([]string, 0, len(form.Fields))
	for k := range form.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range form.Fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return errors.Wrapf(err, "writing field %s", k)
			}
		}
	}
	for _, f := range form.Files {
		if err := writeFile(w, f); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "closing multipart writer")
	}
	return c.do(ctx, http.MethodPost, path, body.Bytes(), w.FormDataContentType(), out)
}

func writeFile(w *multipart.Writer, f core.FormFile) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", f.Path)
	}
	defer func() { _ = file.Close() }()

	part, err := w.CreateFormFile(f.Field, filepath.Base(f.Path))
	if err != nil {
		return errors.Wrapf(err, "creating part %s", f.Field)
	}
	if _, err = io.Copy(part, file); err != nil {
		return errors.Wrapf(err, "copying %s", f.Path)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return &core.APIError{Err: err}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	endpoint := endpointLabel(path)
	c.metrics.inFlight.Inc()
	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.inFlight.Dec()
	c.metrics.duration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.requests.WithLabelValues(endpoint, method, "error").Inc()
		c.logger.Warn("api request failed", err, map[string]interface{}{"method": method, "path": path})
		return &core.APIError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.requests.WithLabelValues(endpoint, method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &core.APIError{Status: resp.StatusCode, Err: errors.Wrap(err, "reading response body")}
	}
	c.logger.Debug("api request", map[string]interface{}{"method": method, "path": path, "status": resp.StatusCode})

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp.StatusCode, data)
		c.logger.Warn("api error response", apiErr, map[string]interface{}{"method": method, "path": path})
		return apiErr
	}
	return decodeEnvelope(resp.StatusCode, data, out)
}

// endpointLabel keeps the first two path segments (eg. /api/DeleteAnnonce) so that ids never end up in labels.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "/" + strings.Join(parts, "/")
}
