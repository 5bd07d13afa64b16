// Package reminder composes payment reminder messages and dispatches them
// through a pluggable Sender. Actual SMS/WhatsApp delivery lives behind the
// Sender interface in an external gateway.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/billsplit/pkg/logger"
)

// DefaultPaymentMethod is used when the payer has no payment handle on file
const DefaultPaymentMethod = "Venmo/Zelle/Cash"

// Message is a single payment reminder ready to dispatch
type Message struct {
	RecipientName  string
	RecipientPhone string
	Body           string
}

// Result reports the outcome of one dispatch attempt
type Result struct {
	Status     string     `json:"status"` // "sent" or "failed"
	MessageSID string     `json:"message_sid,omitempty"`
	Recipient  string     `json:"recipient"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Sender dispatches a reminder message to its recipient
type Sender interface {
	Send(ctx context.Context, msg Message) (*Result, error)
}

// Input carries everything needed to compose one reminder
type Input struct {
	RecipientName  string
	RecipientPhone string
	PayerName      string
	Restaurant     string
	Amount         float64
	ItemNames      []string
	PaymentMethod  string
}

// Compose builds the reminder message for one split
func Compose(in Input) Message {
	itemsText := "your order"
	if len(in.ItemNames) > 0 {
		itemsText = strings.Join(in.ItemNames, ", ")
	}

	method := in.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}

	body := fmt.Sprintf(
		"Hey %s!\n\nYou owe %s $%.2f for %s.\n\nItems: %s\n\nPlease pay via %s.",
		in.RecipientName, in.PayerName, in.Amount, in.Restaurant, itemsText, method,
	)

	return Message{
		RecipientName:  in.RecipientName,
		RecipientPhone: in.RecipientPhone,
		Body:           body,
	}
}

// LogSender logs reminders instead of delivering them. It stands in for an
// SMS/WhatsApp gateway and returns a synthetic message id so the split's
// reminder bookkeeping behaves like the real thing.
type LogSender struct{}

// NewLogSender creates a sender that only logs
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the message and reports it as sent
func (s *LogSender) Send(ctx context.Context, msg Message) (*Result, error) {
	logger.GetLogger().Infow("payment reminder dispatched",
		"recipient", msg.RecipientPhone,
		"recipient_name", msg.RecipientName,
		"body", msg.Body,
	)

	now := time.Now().UTC()
	return &Result{
		Status:     "sent",
		MessageSID: "log-" + uuid.NewString(),
		Recipient:  msg.RecipientPhone,
		SentAt:     &now,
	}, nil
}
