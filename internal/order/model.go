package order

import "time"

// Order represents a restaurant order parsed from a receipt
type Order struct {
	ID           int64     `json:"id"`
	Restaurant   string    `json:"restaurant"`
	Total        float64   `json:"total"`
	Subtotal     *float64  `json:"subtotal,omitempty"`
	Tax          *float64  `json:"tax,omitempty"`
	DeliveryFee  *float64  `json:"delivery_fee,omitempty"`
	Tip          *float64  `json:"tip,omitempty"`
	Discount     float64   `json:"discount"`
	Date         time.Time `json:"date"`
	PaidByUserID int64     `json:"paid_by_user_id"`
	ImageURL     *string   `json:"image_url,omitempty"`
	OCRRawText   *string   `json:"ocr_raw_text,omitempty"`

	Items []*Item `json:"items,omitempty"`
}

// Item represents one line on a receipt, owned by exactly one order
type Item struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Fees returns the net order-level fees: tax + delivery + tip - discount.
// Independent of the stored total, which is never trusted by the calculator.
func (o *Order) Fees() float64 {
	fees := -o.Discount
	for _, f := range []*float64{o.Tax, o.DeliveryFee, o.Tip} {
		if f != nil {
			fees += *f
		}
	}
	return fees
}
