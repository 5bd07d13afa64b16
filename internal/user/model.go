package user

import "time"

// User represents a participant who can pay for or owe parts of an order
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	WhatsAppNumber *string   `json:"whatsapp_number,omitempty"`
	PaymentHandle  *string   `json:"payment_handle,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReminderPhone returns the number reminders should go to,
// preferring WhatsApp when the user has one
func (u *User) ReminderPhone() string {
	if u.WhatsAppNumber != nil && *u.WhatsAppNumber != "" {
		return *u.WhatsAppNumber
	}
	return u.Phone
}
