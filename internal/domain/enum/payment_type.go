package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentType is the kind of payment recorded against a client.
// Daily, monthly and quarterly payments are memberships; product payments
// only come from settling store-credit sales.
type PaymentType int

const (
	PaymentTypeDaily     PaymentType = 0
	PaymentTypeMonthly   PaymentType = 1
	PaymentTypeQuarterly PaymentType = 2
	PaymentTypeProduct   PaymentType = 3
)

var paymentTypeNames = []string{"daily", "monthly", "quarterly", "product"}

func (t PaymentType) String() string {
	if int(t) < 0 || int(t) >= len(paymentTypeNames) {
		return "daily"
	}
	return paymentTypeNames[t]
}

// ParsePaymentType parses the wire name of a payment type.
func ParsePaymentType(s string) (PaymentType, bool) {
	i, ok := parseName(paymentTypeNames, s)
	return PaymentType(i), ok
}

// Label is the Spanish name shown on receipts and reports.
func (t PaymentType) Label() string {
	switch t {
	case PaymentTypeMonthly:
		return "Mensual"
	case PaymentTypeQuarterly:
		return "Trimestral"
	case PaymentTypeProduct:
		return "Producto"
	}
	return "Diario"
}

// IsMembership reports whether the payment extends a membership.
func (t PaymentType) IsMembership() bool {
	return t == PaymentTypeDaily || t == PaymentTypeMonthly || t == PaymentTypeQuarterly
}

// DurationDays is how many days a membership payment of this type covers.
func (t PaymentType) DurationDays() int {
	switch t {
	case PaymentTypeDaily:
		return 1
	case PaymentTypeMonthly:
		return 30
	case PaymentTypeQuarterly:
		return 90
	}
	return 0
}

// HasPeriod reports whether payments of this type carry a period label.
func (t PaymentType) HasPeriod() bool {
	return t == PaymentTypeMonthly || t == PaymentTypeQuarterly
}

func (t PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PaymentType) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName(data, paymentTypeNames, "payment type")
	if err != nil {
		return err
	}
	*t = PaymentType(i)
	return nil
}

func (t PaymentType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *PaymentType) Scan(value interface{}) error {
	if value == nil {
		*t = PaymentTypeDaily
		return nil
	}
	*t = PaymentType(scanInt(value))
	return nil
}
