package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
)

// Client calls a HuggingFace-style text-classification inference endpoint.
// The wire contract: POST {"inputs": <text>} with a bearer token; a success
// response is an array whose first element is an array of {label, score}
// candidates, best first.
type Client struct {
	log      *logger.Logger
	endpoint string
	token    string
	timeout  time.Duration

	httpClient *http.Client
}

type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("huggingface: endpoint required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		log:        log.With("client", "HuggingFaceClient"),
		endpoint:   endpoint,
		token:      strings.TrimSpace(cfg.Token),
		timeout:    timeout,
		httpClient: &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) (*Client, error) {
	c, err := New(log, cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassifyText returns the endpoint's top raw label (e.g. "POSITIVE").
// Every failure mode comes back as an error; callers fold errors into an
// unavailable result rather than aborting.
func (c *Client) ClassifyText(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return "", err
	}

	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	var out [][]labelScore
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("malformed inference payload: %w", err)
	}
	if len(out) == 0 || len(out[0]) == 0 {
		return "", errors.New("empty inference payload")
	}
	label := strings.TrimSpace(out[0][0].Label)
	if label == "" {
		return "", errors.New("inference payload missing label")
	}
	return label, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
