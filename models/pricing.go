package models

// Payment option types offered on a quote.
const (
	PaymentOptionFull     = "full"
	PaymentOptionDeposit  = "deposit"
	PaymentOptionMonthly  = "monthly"
	PaymentOptionFullLate = "full_late_fee"
)

// PaymentOptionChoice is one way the customer can pay for a booking.
type PaymentOptionChoice struct {
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	Label        string  `json:"label"`
	Installments int     `json:"installments,omitempty"`
}

// PricingQuote is the ephemeral pricing computation shown to a customer
// before booking creation. It is never persisted.
type PricingQuote struct {
	BasePrice      float64               `json:"base_price"`
	FinalPrice     float64               `json:"final_price"`
	LateFee        float64               `json:"late_fee"`
	DaysUntilEvent int                   `json:"days_until_event"`
	Options        []PaymentOptionChoice `json:"options"`
}

// Option returns the payment option with the given type tag, or nil.
func (q *PricingQuote) Option(optionType string) *PaymentOptionChoice {
	for i := range q.Options {
		if q.Options[i].Type == optionType {
			return &q.Options[i]
		}
	}
	return nil
}
