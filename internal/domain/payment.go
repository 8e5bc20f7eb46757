package domain

// PaymentRequest carries the fields of one checkout attempt.
type PaymentRequest struct {
	UpiID       string
	PayeeName   string
	Amount      float64
	Description string
	OrderID     string
}
