package split

import "time"

// Split is one user's computed share of an order, including item and fee
// allocation, plus payment and reminder bookkeeping
type Split struct {
	ID             int64      `json:"id"`
	OrderID        int64      `json:"order_id"`
	UserID         int64      `json:"user_id"`
	ItemIDs        []int64    `json:"item_ids"`
	AmountOwed     float64    `json:"amount_owed"`
	PaidStatus     bool       `json:"paid_status"`
	ReminderSent   bool       `json:"reminder_sent"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	MessageSID     *string    `json:"message_sid,omitempty"`
}
