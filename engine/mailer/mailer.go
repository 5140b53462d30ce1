package mailer

import "context"

// Message is an outbound email with both plain text and HTML bodies.
type Message struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Mailer delivers messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
