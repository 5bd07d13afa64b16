package order

// CreateItemRequest is one receipt line in an order creation payload
type CreateItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=1"`
}

// CreateOrderRequest creates an order together with its items in one payload
type CreateOrderRequest struct {
	Restaurant   string              `json:"restaurant" validate:"required"`
	Total        float64             `json:"total" validate:"gte=0"`
	Subtotal     *float64            `json:"subtotal,omitempty"`
	Tax          *float64            `json:"tax,omitempty"`
	DeliveryFee  *float64            `json:"delivery_fee,omitempty"`
	Tip          *float64            `json:"tip,omitempty"`
	Discount     float64             `json:"discount"`
	PaidByUserID int64               `json:"paid_by_user_id" validate:"required"`
	ImageURL     *string             `json:"image_url,omitempty"`
	OCRRawText   *string             `json:"ocr_raw_text,omitempty"`
	Items        []CreateItemRequest `json:"items" validate:"required,min=1"`
}

// OrderResponse represents the response for a single order with its items
type OrderResponse struct {
	ID           int64           `json:"id"`
	Restaurant   string          `json:"restaurant"`
	Total        float64         `json:"total"`
	Subtotal     *float64        `json:"subtotal,omitempty"`
	Tax          *float64        `json:"tax,omitempty"`
	DeliveryFee  *float64        `json:"delivery_fee,omitempty"`
	Tip          *float64        `json:"tip,omitempty"`
	Discount     float64         `json:"discount"`
	Date         string          `json:"date"`
	PaidByUserID int64           `json:"paid_by_user_id"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Items        []*ItemResponse `json:"items"`
}

// ItemResponse represents the response for a single item
type ItemResponse struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// UploadReceiptResponse is the result of the receipt intake pipeline:
// stored image plus the parser service's structured output
type UploadReceiptResponse struct {
	ImageURL      string      `json:"image_url"`
	OCRRawText    string      `json:"ocr_raw_text"`
	OCRConfidence float64     `json:"ocr_confidence"`
	OCREngine     string      `json:"ocr_engine"`
	ParsedData    interface{} `json:"parsed_data"`
}

// ToResponse converts an Order model to an OrderResponse DTO
func (o *Order) ToResponse() *OrderResponse {
	items := make([]*ItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = item.ToResponse()
	}
	return &OrderResponse{
		ID:           o.ID,
		Restaurant:   o.Restaurant,
		Total:        o.Total,
		Subtotal:     o.Subtotal,
		Tax:          o.Tax,
		DeliveryFee:  o.DeliveryFee,
		Tip:          o.Tip,
		Discount:     o.Discount,
		Date:         o.Date.Format("2006-01-02T15:04:05Z"),
		PaidByUserID: o.PaidByUserID,
		ImageURL:     o.ImageURL,
		Items:        items,
	}
}

// ToResponse converts an Item model to an ItemResponse DTO
func (i *Item) ToResponse() *ItemResponse {
	return &ItemResponse{
		ID:       i.ID,
		OrderID:  i.OrderID,
		Name:     i.Name,
		Price:    i.Price,
		Quantity: i.Quantity,
	}
}
