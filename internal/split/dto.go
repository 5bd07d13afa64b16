package split

import "github.com/fkhayef/billsplit/internal/reminder"

// ItemAssignment maps one item to the users sharing it
type ItemAssignment struct {
	ItemID  int64   `json:"item_id" validate:"required"`
	UserIDs []int64 `json:"user_ids" validate:"required,min=1"`
}

// BulkCreateRequest replaces an order's splits from per-item assignments
type BulkCreateRequest struct {
	OrderID     int64            `json:"order_id" validate:"required"`
	Assignments []ItemAssignment `json:"assignments" validate:"required,min=1"`
}

// SplitResponse represents the response for a single split
type SplitResponse struct {
	ID             int64   `json:"id"`
	OrderID        int64   `json:"order_id"`
	UserID         int64   `json:"user_id"`
	ItemIDs        []int64 `json:"item_ids"`
	AmountOwed     float64 `json:"amount_owed"`
	PaidStatus     bool    `json:"paid_status"`
	ReminderSent   bool    `json:"reminder_sent"`
	ReminderSentAt *string `json:"reminder_sent_at,omitempty"`
	MessageSID     *string `json:"message_sid,omitempty"`
}

// ReminderResponse is returned by the single-split reminder endpoint
type ReminderResponse struct {
	Split  *SplitResponse   `json:"split"`
	Result *reminder.Result `json:"sms_result"`
}

// BulkReminderResponse is returned by the send-all-reminders endpoint
type BulkReminderResponse struct {
	Message string             `json:"message"`
	Results []*reminder.Result `json:"results"`
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	resp := &SplitResponse{
		ID:           s.ID,
		OrderID:      s.OrderID,
		UserID:       s.UserID,
		ItemIDs:      s.ItemIDs,
		AmountOwed:   s.AmountOwed,
		PaidStatus:   s.PaidStatus,
		ReminderSent: s.ReminderSent,
		MessageSID:   s.MessageSID,
	}
	if resp.ItemIDs == nil {
		resp.ItemIDs = []int64{}
	}
	if s.ReminderSentAt != nil {
		formatted := s.ReminderSentAt.Format("2006-01-02T15:04:05Z")
		resp.ReminderSentAt = &formatted
	}
	return resp
}
