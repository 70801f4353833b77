package mailerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	URL     string        `yaml:"url" env:"MAILER_URL" env-default:"http://mailer-service:8080/send"`
	Timeout time.Duration `yaml:"timeout" env:"MAILER_TIMEOUT" env-default:"10s"`
}

type sendReq struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type sendResp struct {
	OK bool `json:"ok"`
}

// Client sends plain text mail through the mailer service.
type Client struct {
	url    string
	client *http.Client
}

func New(cfg *Config) *Client {
	return &Client{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Send(ctx context.Context, to, subject, text string) error {
	b, err := json.Marshal(sendReq{
		To:      to,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to mailer: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailer status %d: %s", resp.StatusCode, string(body))
	}

	var r sendResp
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("decode mailer response: %w", err)
	}
	if !r.OK {
		return fmt.Errorf("mailer responded with ok=false")
	}

	return nil
}
