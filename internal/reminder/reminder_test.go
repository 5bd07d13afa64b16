package reminder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	msg := Compose(Input{
		RecipientName:  "Lina",
		RecipientPhone: "+15551234567",
		PayerName:      "Omar",
		Restaurant:     "Shawarma House",
		Amount:         24.5,
		ItemNames:      []string{"Chicken Shawarma", "Fries"},
		PaymentMethod:  "@omar-pays",
	})

	assert.Equal(t, "+15551234567", msg.RecipientPhone)
	assert.Contains(t, msg.Body, "Hey Lina!")
	assert.Contains(t, msg.Body, "You owe Omar $24.50 for Shawarma House.")
	assert.Contains(t, msg.Body, "Chicken Shawarma, Fries")
	assert.Contains(t, msg.Body, "@omar-pays")
}

func TestCompose_Defaults(t *testing.T) {
	msg := Compose(Input{
		RecipientName: "Lina",
		PayerName:     "Omar",
		Restaurant:    "Shawarma House",
		Amount:        10,
	})

	assert.Contains(t, msg.Body, "Items: your order")
	assert.Contains(t, msg.Body, DefaultPaymentMethod)
}

func TestLogSender_Send(t *testing.T) {
	sender := NewLogSender()

	result, err := sender.Send(context.Background(), Message{
		RecipientName:  "Lina",
		RecipientPhone: "+15551234567",
		Body:           "test",
	})

	require.NoError(t, err)
	assert.Equal(t, "sent", result.Status)
	assert.Equal(t, "+15551234567", result.Recipient)
	assert.NotEmpty(t, result.MessageSID)
	require.NotNil(t, result.SentAt)
}
