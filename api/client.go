// Package api is the HTTP client for the NAYAM AI backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aravindadityxa/nayamai/apperr"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	tracerName     = "github.com/aravindadityxa/nayamai/api"

	// Responses larger than this are not read for an error detail.
	maxErrorBody = 64 << 10
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cl *Client) { cl.tracer = tp.Tracer(tracerName) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/login", "", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, "register", http.MethodPost, "/register", "", req, nil)
}

// Chat sends a message, authenticated when token is non-empty and through the
// public endpoint otherwise. An empty language is sent as null.
func (c *Client) Chat(ctx context.Context, token, message, language string) (*ChatResponse, error) {
	path := "/chat/public"
	if token != "" {
		path = "/chat"
	}

	req := chatRequest{Message: message}
	if language != "" {
		req.Language = &language
	}

	var out ChatResponse
	if err := c.do(ctx, "chat", http.MethodPost, path, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Nearby(ctx context.Context, lat, lon float64) ([]Hospital, error) {
	var out nearbyResponse
	if err := c.do(ctx, "nearby", http.MethodPost, "/nearby", "", nearbyRequest{Latitude: lat, Longitude: lon}, &out); err != nil {
		return nil, err
	}
	return out.Hospitals, nil
}

// ForgotPassword returns the security questions the backend wants answered.
func (c *Client) ForgotPassword(ctx context.Context, email string) ([]string, error) {
	var out forgotPasswordResponse
	if err := c.do(ctx, "forgot-password", http.MethodPost, "/forgot-password", "", forgotPasswordRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return out.SecurityQuestions, nil
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.do(ctx, "reset-password", http.MethodPost, "/reset-password", "", req, nil)
}

// RemoteHistory returns the server-side log of a logged-in user, newest first.
func (c *Client) RemoteHistory(ctx context.Context, token string) ([]RemoteEntry, error) {
	var out remoteHistoryResponse
	if err := c.do(ctx, "chat-history", http.MethodGet, "/chat/history", token, nil, &out); err != nil {
		return nil, err
	}
	return out.ChatHistory, nil
}

func (c *Client) ClearRemoteHistory(ctx context.Context, token string) error {
	return c.do(ctx, "chat-history", http.MethodDelete, "/chat/history", token, nil, nil)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", "", nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "api."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.Bool("nayam.authenticated", token != ""),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperr.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperr.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// responseError turns a non-2xx response into an APIError when the body
// carries a string detail, and a NetworkError otherwise.
func responseError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		if detail, ok := body.Detail.(string); ok && detail != "" {
			return &apperr.APIError{Op: op, Status: resp.StatusCode, Detail: detail}
		}
	}
	return &apperr.NetworkError{
		Op:     op,
		Status: resp.StatusCode,
		Err:    fmt.Errorf("unexpected status: %d", resp.StatusCode),
	}
}
