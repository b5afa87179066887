package entity

// ReceiptHeader holds the gym header printed at the top of a receipt.
type ReceiptHeader struct {
	GymName string `json:"gym_name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object composed from a sale or a payment at print time.
type Receipt struct {
	Header      ReceiptHeader `json:"header"`
	Number      string        `json:"number"`
	Date        string        `json:"date"`
	Cashier     string        `json:"cashier,omitempty"`
	Client      string        `json:"client,omitempty"`
	Method      string        `json:"method,omitempty"`
	Currency    string        `json:"currency"`
	Items       []ReceiptItem `json:"items"`
	Total       float64       `json:"total"`
	Paid        float64       `json:"paid"`
	Outstanding float64       `json:"outstanding"`
	Notes       string        `json:"notes,omitempty"`
}
