package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/timeclock/internal/punch"
)

const defaultTimeout = 10 * time.Second

// APIError is a failure the server explained with an {ok:false, error} body.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return e.Message
}

// TodayResponse mirrors the GET /pontos/hoje body.
type TodayResponse struct {
	OK      bool   `json:"ok"`
	Date    string `json:"data"`
	Punched Flags  `json:"batidos"`
	Times   Times  `json:"horarios"`
}

// PunchResponse mirrors the POST /pontos/bater body.
type PunchResponse struct {
	OK    bool `json:"ok"`
	Punch struct {
		PunchID   int64      `json:"ponto_id"`
		UserID    int64      `json:"usuario_id"`
		Date      string     `json:"data"`
		Kind      punch.Kind `json:"tipo"`
		PunchedAt time.Time  `json:"momento"`
	} `json:"ponto"`
}

type errorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Client talks to the timeclock HTTP API.
type Client struct {
	baseURL     string
	machineName string
	http        *http.Client
}

type ClientOption func(*Client)

// WithMachineName sends the label as X-PC-Name on every punch.
func WithMachineName(name string) ClientOption {
	return func(c *Client) {
		c.machineName = name
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today fetches the punches already recorded today for login.
func (c *Client) Today(ctx context.Context, login string) (*TodayResponse, error) {
	endpoint := c.baseURL + "/pontos/hoje?login=" + url.QueryEscape(login)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build today request: %w", err)
	}

	var out TodayResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Punch records kind for login at the server's current time.
func (c *Client) Punch(ctx context.Context, login string, kind punch.Kind) (*PunchResponse, error) {
	body, err := json.Marshal(map[string]string{"login": login, "tipo": string(kind)})
	if err != nil {
		return nil, fmt.Errorf("encode punch request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pontos/bater", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build punch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.machineName != "" {
		req.Header.Set("X-PC-Name", c.machineName)
	}

	var out PunchResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil || eb.Error == "" {
			return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error, Code: eb.Code}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
