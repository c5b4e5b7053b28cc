package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMessage struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// SendGridProvider sends mail through the SendGrid v3 HTTP API.
type SendGridProvider struct {
	apiKey   string
	from     sendGridAddress
	endpoint string
	client   *http.Client
}

func NewSendGridProvider(apiKey, from, fromName string) (*SendGridProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is required")
	}
	if from == "" {
		return nil, fmt.Errorf("MAIL_FROM is required")
	}
	return &SendGridProvider{
		apiKey:   apiKey,
		from:     sendGridAddress{Email: from, Name: fromName},
		endpoint: sendGridEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// WithEndpoint points the provider at another API URL (sandbox or test server).
func (p *SendGridProvider) WithEndpoint(url string) *SendGridProvider {
	if url != "" {
		p.endpoint = url
	}
	return p
}

func (p *SendGridProvider) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(sendGridMessage{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: msg.To}}}},
		From:             p.from,
		Subject:          msg.Subject,
		Content:          []sendGridContent{{Type: "text/html", Value: msg.HTML}},
	})
	if err != nil {
		return fmt.Errorf("marshal sendgrid message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sendgrid api error: status %d, body: %s", resp.StatusCode, string(b))
	}
	return nil
}

func (p *SendGridProvider) Name() string { return "sendgrid" }
