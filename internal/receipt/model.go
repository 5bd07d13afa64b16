package receipt

// ParsedItem is one receipt line extracted by the parser service
type ParsedItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ParsedReceipt is the structured receipt extracted by the parser service
type ParsedReceipt struct {
	Restaurant  string       `json:"restaurant"`
	Items       []ParsedItem `json:"items"`
	Subtotal    float64      `json:"subtotal"`
	Tax         *float64     `json:"tax,omitempty"`
	DeliveryFee *float64     `json:"delivery_fee,omitempty"`
	Tip         *float64     `json:"tip,omitempty"`
	Discount    float64      `json:"discount"`
	Total       float64      `json:"total"`
}

// ParseResult bundles the parser service's OCR output with the parsed receipt
type ParseResult struct {
	RawText    string        `json:"raw_text"`
	Confidence float64       `json:"confidence"`
	Engine     string        `json:"engine"`
	Receipt    ParsedReceipt `json:"parsed_data"`
}
