package moonwatch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

const (
	initSessionPath = "/v1/session/init"
	endSessionPath  = "/v1/session/end"

	// signingName is the service name Moonwatch requests are signed for.
	// The API sits behind AWS API Gateway, which verifies execute-api
	// signatures.
	signingName = "execute-api"

	// maxLoggedBody caps how much of a failed response body is logged.
	maxLoggedBody = 512
)

// Signer produces a SigV4 signature over an HTTP request. It is satisfied
// by *v4.Signer from aws-sdk-go-v2 and kept as an interface so tests can
// substitute their own.
type Signer interface {
	SignHTTP(ctx context.Context, credentials aws.Credentials, r *http.Request, payloadHash string, service string, region string, signingTime time.Time, optFns ...func(options *v4.SignerOptions)) error
}

// Config holds the wiring for a Moonwatch client. Endpoint, Region and
// Credentials are required; the rest default sensibly.
type Config struct {
	// Endpoint is the base URL of the Moonwatch API, e.g.
	// "https://moonwatch.example.com".
	Endpoint string
	// Region is the AWS region requests are signed for.
	Region string
	// Credentials resolves the signing credentials per call. The provider
	// is treated as an opaque injected capability; the client never logs
	// or inspects secret material.
	Credentials aws.CredentialsProvider
	// Signer overrides the default SigV4 signer. Optional.
	Signer Signer
	// HTTPClient overrides the default transport. The caller owns timeout
	// configuration; the default client uses a 10 second timeout. Optional.
	HTTPClient *http.Client
	// Logger receives failed-call diagnostics. Optional; defaults to a
	// no-op logger.
	Logger *slog.Logger
}

// Client is a Moonwatch API client. It is safe for concurrent use: all
// shared state is immutable after construction and per-call state is never
// shared between invocations.
type Client struct {
	endpoint   *url.URL
	region     string
	creds      aws.CredentialsProvider
	signer     Signer
	httpClient *http.Client
	logger     *slog.Logger
}

// New validates the wiring and returns a Client. Missing endpoint, region
// or credential provider is a construction-time failure wrapped with
// ErrMisconfigured; no call will ever be attempted on a half-wired client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrMisconfigured)
	}
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint: %w", ErrMisconfigured, err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("%w: endpoint must be http or https", ErrMisconfigured)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrMisconfigured)
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("%w: credential provider is required", ErrMisconfigured)
	}

	signer := cfg.Signer
	if signer == nil {
		signer = v4.NewSigner()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		endpoint:   endpoint,
		region:     cfg.Region,
		creds:      cfg.Credentials,
		signer:     signer,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// InitSession registers a new user session with Moonwatch.
// A nil result with a nil error means the service answered non-2xx; the
// response was already logged and there is nothing further to do.
func (c *Client) InitSession(ctx context.Context, req InitSessionRequest) (*InitSessionResult, error) {
	return call[Session](ctx, c, initSessionPath, req)
}

// EndSession reports a finished user session to Moonwatch.
// Nil-result semantics match InitSession.
func (c *Client) EndSession(ctx context.Context, req EndSessionRequest) (*EndSessionResult, error) {
	return call[Session](ctx, c, endSessionPath, req)
}

// call runs the build, sign, transmit, parse pipeline for one operation.
// Exactly one transmit attempt is made; retry policy belongs to the caller.
func call[T any](ctx context.Context, c *Client, path string, body any) (*CallResult[T], error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := c.buildRequest(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	if err := c.signRequest(ctx, req, payload); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransportFailure, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return handleResponse[T](c, path, resp)
}

func (c *Client) buildRequest(ctx context.Context, path string, payload []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.JoinPath(path).String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// signRequest resolves the current credentials and attaches a SigV4
// signature covering method, path, headers and the payload hash.
func (c *Client) signRequest(ctx context.Context, req *http.Request, payload []byte) error {
	creds, err := c.creds.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("resolve signing credentials: %w", err)
	}
	hash := sha256.Sum256(payload)
	if err := c.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(hash[:]), signingName, c.region, time.Now().UTC()); err != nil {
		return fmt.Errorf("sign %s request: %w", req.URL.Path, err)
	}
	return nil
}

// handleResponse decodes a 2xx body into the typed envelope. A non-2xx
// response is logged with a truncated body and yields a nil result rather
// than an error: the remote's 4xx/5xx answers are informational, not
// actionable, for this thin notifier.
func handleResponse[T any](c *Client, path string, resp *http.Response) (*CallResult[T], error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %w", ErrTransportFailure, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > 0 {
			c.logger.Error("moonwatch call failed",
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.String("body", truncate(string(body), maxLoggedBody)),
			)
		} else {
			c.logger.Error("moonwatch call failed",
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.String("status_text", http.StatusText(resp.StatusCode)),
			)
		}
		return nil, nil
	}

	var result CallResult[T]
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %w", ErrMalformedResponse, path, err)
	}
	return &result, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
