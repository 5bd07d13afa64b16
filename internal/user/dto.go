package user

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=100"`
	Phone          string  `json:"phone" validate:"required"`
	WhatsAppNumber *string `json:"whatsapp_number,omitempty"`
	PaymentHandle  *string `json:"payment_handle,omitempty"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone          *string `json:"phone,omitempty"`
	WhatsAppNumber *string `json:"whatsapp_number,omitempty"`
	PaymentHandle  *string `json:"payment_handle,omitempty"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	WhatsAppNumber *string `json:"whatsapp_number,omitempty"`
	PaymentHandle  *string `json:"payment_handle,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Phone:          u.Phone,
		WhatsAppNumber: u.WhatsAppNumber,
		PaymentHandle:  u.PaymentHandle,
		CreatedAt:      u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
