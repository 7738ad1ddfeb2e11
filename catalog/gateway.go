package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/indexdata/catbridge/common"
	"golang.org/x/text/language"
)

const (
	ContentType                string = "Content-Type"
	ContentTypeApplicationJson string = "application/json"
	ContentTypeForm            string = "application/x-www-form-urlencoded"
)

const DefaultTimeout = 30 * time.Second
const DefaultMaxResponseSize int64 = 1024 * 1024 * 10 // 10MB

type Config struct {
	Host            string
	ServiceUsername string
	ServiceSecret   string
	Locale          string
	Timeout         time.Duration
	MaxResponseSize int64
	// Client overrides the default client built from Timeout
	Client *http.Client
}

// Gateway executes HTTP operations against the catalog API,
// transparently acquiring and refreshing the bearer token held in its
// TokenSession. One gateway serves one logical user session.
type Gateway struct {
	client          *http.Client
	host            string
	serviceUsername string
	serviceSecret   string
	acceptLanguage  string
	maxResponseSize int64
	session         *TokenSession
}

func NewGateway(cfg Config) *Gateway {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	maxResponseSize := cfg.MaxResponseSize
	if maxResponseSize == 0 {
		maxResponseSize = DefaultMaxResponseSize
	}
	return &Gateway{
		client:          client,
		host:            strings.TrimSuffix(cfg.Host, "/"),
		serviceUsername: cfg.ServiceUsername,
		serviceSecret:   cfg.ServiceSecret,
		acceptLanguage:  acceptLanguage(cfg.Locale),
		maxResponseSize: maxResponseSize,
		session:         NewTokenSession(),
	}
}

func (g *Gateway) Session() *TokenSession {
	return g.session
}

func acceptLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	preferred := tag.String()
	if preferred == "en" {
		return "en"
	}
	return preferred + ", en;q=0.8"
}

type Request struct {
	Path   []string
	Params url.Values
	// Body is sent verbatim with a JSON content type on non-GET
	// requests and takes precedence over Params
	Body     string
	Method   string
	Identity *Identity
}

// Result carries the literal HTTP status code of the final response and
// its raw body. Body is nil when the response body was empty.
type Result struct {
	StatusCode int
	Body       json.RawMessage
}

// Execute issues the request with a valid token for the requested
// identity and decodes the JSON response into res (may be nil). A 401
// response triggers exactly one token refresh and retry; the retried
// response is final. A body that decodes successfully is returned as a
// normal result regardless of HTTP status, since the catalog reports
// business errors inside structured bodies.
func (g *Gateway) Execute(ctx common.ExtendedContext, req Request, res any) (*Result, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	token, err := g.ensureToken(ctx, req.Identity)
	if err != nil {
		return nil, err
	}
	resp, body, err := g.send(ctx, method, req, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// token expired or revoked upstream, refresh once and retry
		err = g.refresh(ctx, req.Identity)
		if err != nil {
			return nil, err
		}
		token = g.session.Token(req.Identity)
		resp, body, err = g.send(ctx, method, req, token)
		if err != nil {
			return nil, err
		}
		// a second 401 is not retried, the response below is final
	}
	return g.decode(ctx, method, req, resp, body, res)
}

func (g *Gateway) send(ctx common.ExtendedContext, method string, req Request, token string) (*http.Response, []byte, error) {
	httpReq, err := g.buildRequest(ctx, method, req, token)
	if err != nil {
		return nil, nil, err
	}
	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.logFailure(ctx, method, httpReq.URL.String(), req, err)
		return nil, nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer g.closeBody(ctx, resp)
	body, err := g.readResponse(resp.Body)
	if err != nil {
		g.logFailure(ctx, method, httpReq.URL.String(), req, err)
		return nil, nil, fmt.Errorf("catalog request failed: %w", err)
	}
	return resp, body, nil
}

func (g *Gateway) buildRequest(ctx common.ExtendedContext, method string, req Request, token string) (*http.Request, error) {
	u := g.requestUrl(req.Path)
	var reader io.Reader
	contentType := ""
	if method == http.MethodGet {
		if len(req.Params) > 0 {
			u = u + "?" + req.Params.Encode()
		}
	} else if req.Body != "" {
		reader = strings.NewReader(req.Body)
		contentType = ContentTypeApplicationJson
	} else if len(req.Params) > 0 {
		reader = strings.NewReader(req.Params.Encode())
		contentType = ContentTypeForm
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept-Language", g.acceptLanguage)
	if contentType != "" {
		httpReq.Header.Set(ContentType, contentType)
	}
	return httpReq, nil
}

func (g *Gateway) requestUrl(segments []string) string {
	parts := make([]string, len(segments))
	for i, segment := range segments {
		parts[i] = url.PathEscape(segment)
	}
	return g.host + "/" + strings.Join(parts, "/")
}

func (g *Gateway) decode(ctx common.ExtendedContext, method string, req Request, resp *http.Response, body []byte, res any) (*Result, error) {
	result := &Result{StatusCode: resp.StatusCode}
	if len(bytes.TrimSpace(body)) == 0 {
		if resp.StatusCode >= 400 {
			err := &ProtocolError{resp.StatusCode, resp.Status, body}
			g.logFailure(ctx, method, g.requestUrl(req.Path), req, err)
			return nil, err
		}
		return result, nil
	}
	var decodeErr error
	if res != nil {
		decodeErr = json.Unmarshal(body, res)
	} else if !json.Valid(body) {
		decodeErr = errors.New("response body is not valid JSON")
	}
	if decodeErr != nil {
		if resp.StatusCode >= 400 {
			err := &ProtocolError{resp.StatusCode, resp.Status, body}
			g.logFailure(ctx, method, g.requestUrl(req.Path), req, err)
			return nil, err
		}
		err := fmt.Errorf("failed to decode catalog response: %w", decodeErr)
		g.logFailure(ctx, method, g.requestUrl(req.Path), req, err)
		return nil, err
	}
	result.Body = body
	return result, nil
}

func (g *Gateway) readResponse(body io.Reader) ([]byte, error) {
	if g.maxResponseSize > 0 {
		body = NewLimitErrorReader(body, g.maxResponseSize)
	}
	buf, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (g *Gateway) closeBody(ctx common.ExtendedContext, resp *http.Response) {
	err := resp.Body.Close()
	if err != nil {
		ctx.Logger().Warn("failed to close response body", "error", err)
	}
}

func (g *Gateway) logFailure(ctx common.ExtendedContext, method string, url string, req Request, err error) {
	ctx.Logger().Error("catalog request failed", "error", err,
		"method", method, "url", url, "params", req.Params.Encode(), "body", req.Body)
}

type LimitErrorReader struct {
	reader *io.LimitedReader
}

func NewLimitErrorReader(r io.Reader, limit int64) *LimitErrorReader {
	return &LimitErrorReader{
		reader: &io.LimitedReader{R: r, N: limit},
	}
}

func (ler *LimitErrorReader) Read(p []byte) (int, error) {
	if ler.reader.N <= 0 {
		return 0, errors.New("response body too large")
	}
	return ler.reader.Read(p)
}
