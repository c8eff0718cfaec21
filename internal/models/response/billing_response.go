package response

// PassbookEntry represents one ledger row of the billing passbook
type PassbookEntry struct {
	BillID        uint    `json:"bill_id" example:"101"`
	Period        string  `json:"period" example:"March 2026"`
	Month         int     `json:"month" example:"3"`
	Year          int     `json:"year" example:"2026"`
	ConsumptionKL float64 `json:"consumption_kl" example:"12.5"`
	Demand        float64 `json:"demand" example:"100"`
	Arrears       float64 `json:"arrears" example:"50"`
	Total         float64 `json:"total" example:"150"`
	Status        string  `json:"status" example:"unpaid"`
	ReceiptNo     string  `json:"receipt_no,omitempty" example:"RCPT-2026-000101"`
}

// EstimateResponse represents a bill calculator result
type EstimateResponse struct {
	Category      string  `json:"category" example:"residential"`
	Metered       bool    `json:"metered" example:"true"`
	ConsumptionKL float64 `json:"consumption_kl" example:"10"`
	Rate          float64 `json:"rate" example:"8"`
	Amount        float64 `json:"amount" example:"80"`
}
