package mail

import (
	"context"
	"fmt"
	"strings"
)

// Sender renders account emails and hands them to a Provider.
type Sender struct {
	provider Provider
}

func NewSender(p Provider) *Sender {
	return &Sender{provider: p}
}

func (s *Sender) SendVerification(ctx context.Context, to, link string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("send verification: empty recipient")
	}

	html, err := renderVerification(to, link)
	if err != nil {
		return err
	}
	if err := s.provider.Send(ctx, Message{To: to, Subject: verificationSubject, HTML: html}); err != nil {
		return fmt.Errorf("%s: %w", s.provider.Name(), err)
	}
	return nil
}
