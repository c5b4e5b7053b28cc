// Package mail delivers the account verification email.
package mail

import "context"

// Message is one outbound email with an HTML body.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Provider is an outbound mail transport.
type Provider interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}
