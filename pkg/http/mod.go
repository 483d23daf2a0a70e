// SPDX-License-Identifier: GPL-3.0-only
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/bascanada/admintail/pkg/ty"
	"github.com/klauspost/compress/gzhttp"
)

// APIError is returned for any non-success response. Detail carries the
// backend's `detail` field when the body has one, the status text otherwise.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Detail)
}

type HttpClient struct {
	client  *http.Client
	url     string
	headers ty.MS
}

// Debug controls whether verbose HTTP-level debug logs are emitted. Tests and
// production code can toggle this to avoid leaking secrets into logs.
var Debug = false

// SetDebug sets the package debug flag.
func SetDebug(d bool) {
	Debug = d
}

// DebugEnabled returns whether HTTP debug logging is enabled.
func DebugEnabled() bool {
	return Debug
}

// GetClient builds a client for the backend at url. Headers are sent with
// every request.
func GetClient(url string, headers ty.MS) HttpClient {
	return HttpClient{
		client:  &http.Client{Transport: gzhttp.Transport(baseTransport())},
		url:     NormalizeURL(url),
		headers: headers,
	}
}

// StreamClient returns a client for long-lived event streams. It skips the
// compression wrapper since gzip buffering would hold events back.
func StreamClient() *http.Client {
	return &http.Client{Transport: baseTransport()}
}

// NormalizeURL defaults the scheme to http and strips trailing slashes so
// paths can be appended directly.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}
	return strings.TrimRight(u, "/")
}

// Raw exposes the underlying client, mostly so tests can intercept it.
func (c HttpClient) Raw() *http.Client {
	return c.client
}

// BaseURL returns the normalized backend url.
func (c HttpClient) BaseURL() string {
	return c.url
}

// Headers returns the static headers sent with each request.
func (c HttpClient) Headers() ty.MS {
	return c.headers
}

// URL joins path and query parameters onto the base url.
func (c HttpClient) URL(path string, queryParams ty.MS) string {
	full := c.url + path

	q := url.Values{}
	for k, v := range queryParams {
		q.Add(k, v)
	}
	if encoded := q.Encode(); encoded != "" {
		full += "?" + encoded
	}
	return full
}

func (c HttpClient) Get(ctx context.Context, path string, queryParams ty.MS, responseData interface{}) error {
	full := c.URL(path, queryParams)

	if Debug {
		log.Printf("[GET] %s\n", full)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, responseData)
}

func (c HttpClient) PostJson(ctx context.Context, path string, body interface{}, responseData interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	full := c.URL(path, nil)
	if Debug {
		log.Printf("[POST] %s %s", full, buf.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, full, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, responseData)
}

func (c HttpClient) do(req *http.Request, responseData interface{}) error {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	if Debug {
		log.Printf("[HEADERS] %s\n", maskHeaderMap(req.Header))
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := decodeAPIError(res, resBody)
		if Debug {
			log.Printf("[ERROR] %s %s: %v", req.Method, req.URL, apiErr)
		}
		return apiErr
	}

	// Log a truncated response body for debugging (avoid huge output)
	if Debug && len(resBody) > 0 {
		s := string(resBody)
		if len(s) > 2000 {
			s = s[:2000] + "...TRUNCATED"
		}
		log.Printf("[RAW] %s", s)
	}

	if responseData == nil || len(resBody) == 0 {
		return nil
	}
	return json.Unmarshal(resBody, responseData)
}

// decodeAPIError mirrors the console's error contract: the JSON body's
// detail when present, the status text otherwise.
func decodeAPIError(res *http.Response, body []byte) *APIError {
	apiErr := &APIError{Status: res.StatusCode, Detail: http.StatusText(res.StatusCode)}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		apiErr.Detail = detail
	} else {
		apiErr.Detail = string(payload.Detail)
	}
	return apiErr
}

func baseTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		return t.Clone()
	}
	return http.DefaultTransport
}

// maskHeaderMap returns a string representation of headers with sensitive
// values redacted (keeps first 4 chars for debugging). This avoids leaking
// secrets into logs while letting us verify headers are present.
func maskHeaderMap(h http.Header) string {
	redacted := []string{}
	for k, vals := range h {
		v := ""
		if len(vals) > 0 {
			val := vals[0]
			switch strings.ToLower(k) {
			case "authorization", "cookie", "x-api-key", "x-auth-token":
				if len(val) > 4 {
					v = val[:4] + "...REDACTED"
				} else {
					v = "REDACTED"
				}
			default:
				v = val
			}
		}
		redacted = append(redacted, fmt.Sprintf("%s: %s", k, v))
	}
	return strings.Join(redacted, "; ")
}
