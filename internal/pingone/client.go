// Package pingone is a minimal client for the PingOne management API:
// client-credentials authentication, user CRUD with dry-run validation,
// and paged reads of users and populations.
package pingone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/pingone-tools/p1admin/internal/apilog"
)

// ErrAuthFailed marks a refused token request. Callers branch on it to
// separate bad credentials from ordinary API failures.
var ErrAuthFailed = errors.New("auth failed: check credentials")

// Log previews are truncated so one oversized payload cannot flood the
// connection log.
const (
	maxLoggedPayload = 2000
	maxLoggedBody    = 1000
)

// APIError is a non-2xx response from the management API.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("%s \"%s\" error: %s", e.Method, e.Path, e.Body)
	}
	return fmt.Sprintf("%s \"%s\" error: Status code %d", e.Method, e.Path, e.Status)
}

// Options configure a Client. APIBase and AuthBase carry no trailing
// slash; EnvironmentID scopes every request.
type Options struct {
	APIBase       string
	AuthBase      string
	EnvironmentID string
	ClientID      string
	ClientSecret  string
	Timeout       time.Duration
	PageLimit     int
	Log           *apilog.Recorder
}

type Client struct {
	baseUrl   string
	tokenUrl  string
	envId     string
	pageLimit int
	http      *http.Client
	log       *apilog.Recorder

	mu    sync.Mutex
	creds clientcredentials.Config
	ts    oauth2.TokenSource
}

func NewClient(o Options) *Client {
	var timeout = o.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	var limit = o.PageLimit
	if limit <= 0 {
		limit = 100
	}
	var log = o.Log
	if log == nil {
		log = apilog.Discard()
	}
	var c = &Client{
		baseUrl:   strings.TrimRight(o.APIBase, "/") + "/environments/" + o.EnvironmentID,
		tokenUrl:  strings.TrimRight(o.AuthBase, "/") + "/" + o.EnvironmentID + "/as/token",
		envId:     o.EnvironmentID,
		pageLimit: limit,
		http:      &http.Client{Timeout: timeout},
		log:       log,
	}
	c.creds = clientcredentials.Config{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		TokenURL:     c.tokenUrl,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return c
}

// Authenticate obtains a worker token, caching it until close to expiry.
// A refused request comes back wrapped in ErrAuthFailed.
func (c *Client) Authenticate(ctx context.Context) (err error) {
	_, err = c.bearerToken(ctx)
	return
}

func (c *Client) bearerToken(_ context.Context) (token string, err error) {
	c.mu.Lock()
	if c.ts == nil {
		// The cached source outlives any single request context.
		var base = context.WithValue(context.Background(), oauth2.HTTPClient, c.http)
		c.ts = c.creds.TokenSource(base)
	}
	var ts = c.ts
	c.mu.Unlock()

	c.log.Call("POST %s", c.tokenUrl)
	var t *oauth2.Token
	if t, err = ts.Token(); err != nil {
		c.log.CredentialError("token request refused for environment %s: %v", c.envId, err)
		c.log.Connection("AUTH FAILED for environment %s: %v", c.envId, err)
		err = fmt.Errorf("%w (%v)", ErrAuthFailed, err)
		return
	}
	c.log.CredentialInfo("token obtained for environment %s", c.envId)
	token = t.AccessToken
	return
}

func (c *Client) composeUrl(paths ...string) (result *url.URL, err error) {
	var uri *url.URL
	if uri, err = url.Parse(c.baseUrl); err != nil {
		return
	}
	var ruri *url.URL
	for _, path := range paths {
		if ruri, err = url.Parse(path); err != nil {
			return
		}
		if !strings.HasSuffix(uri.Path, "/") {
			uri.Path += "/"
		}
		uri = uri.ResolveReference(ruri)
	}

	result = uri
	return
}

func (c *Client) newRequest(ctx context.Context, method string, uri string, payload any) (rq *http.Request, err error) {
	var body io.Reader
	if payload != nil {
		var data []byte
		if data, err = json.Marshal(payload); err != nil {
			return
		}
		body = bytes.NewBuffer(data)
	}
	if rq, err = http.NewRequestWithContext(ctx, method, uri, body); err != nil {
		return
	}
	var token string
	if token, err = c.bearerToken(ctx); err != nil {
		rq = nil
		return
	}
	rq.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	rq.Header.Add("X-Request-Id", uuid.NewString())
	if payload != nil {
		rq.Header.Add("Content-Type", "application/json")
	}
	return
}

func (c *Client) executeRequest(rq *http.Request) (response map[string]any, err error) {
	c.log.Call("%s %s", rq.Method, rq.URL.String())
	var rs *http.Response
	if rs, err = c.http.Do(rq); err != nil {
		c.log.Connection("%s %s failed: %v", rq.Method, rq.URL.String(), err)
		return
	}
	defer rs.Body.Close()

	var body []byte
	var contentType = rs.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/") {
		if body, err = io.ReadAll(rs.Body); err != nil {
			return
		}
	}
	c.log.Call("%s %s -> %d", rq.Method, rq.URL.String(), rs.StatusCode)
	if rs.StatusCode >= 300 {
		var path = rq.URL.String()
		if strings.HasPrefix(path, c.baseUrl) {
			path = strings.Trim(path[len(c.baseUrl):], "/")
		}
		err = &APIError{Method: rq.Method, Path: path, Status: rs.StatusCode, Body: string(body)}
		c.log.CallError("%s %s -> %d: %s", rq.Method, rq.URL.String(), rs.StatusCode, apilog.Preview(body, maxLoggedBody))
		if payload := requestPayload(rq); len(payload) > 0 {
			c.log.Connection("%s %s -> %d request: %s response: %s", rq.Method, rq.URL.String(), rs.StatusCode,
				apilog.Preview(payload, maxLoggedPayload), apilog.Preview(body, maxLoggedBody))
		} else {
			c.log.Connection("%s %s -> %d: %s", rq.Method, rq.URL.String(), rs.StatusCode, apilog.Preview(body, maxLoggedBody))
		}
		return
	}
	if (rs.StatusCode == 200 || rs.StatusCode == 201) && len(body) > 0 {
		err = json.Unmarshal(body, &response)
	}
	return
}

// requestPayload re-reads the request body for failure diagnostics.
// GetBody is set for the buffered bodies newRequest builds.
func requestPayload(rq *http.Request) (payload []byte) {
	if rq.GetBody == nil {
		return
	}
	var rc io.ReadCloser
	var err error
	if rc, err = rq.GetBody(); err != nil {
		return
	}
	payload, _ = io.ReadAll(rc)
	_ = rc.Close()
	return
}

func toString(value any) (result string, ok bool) {
	if value != nil {
		result, ok = value.(string)
	}
	return
}

func toMap(value any) (result map[string]any, ok bool) {
	if value != nil {
		result, ok = value.(map[string]any)
	}
	return
}

func toSlice(value any) (result []any, ok bool) {
	if value != nil {
		result, ok = value.([]any)
	}
	return
}
