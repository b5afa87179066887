package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod is how money changed hands. Credit means the sale was
// recorded as owed (fiado).
type PaymentMethod int

const (
	PaymentMethodCash     PaymentMethod = 0
	PaymentMethodCard     PaymentMethod = 1
	PaymentMethodTransfer PaymentMethod = 2
	PaymentMethodYape     PaymentMethod = 3
	PaymentMethodPlin     PaymentMethod = 4
	PaymentMethodCredit   PaymentMethod = 5
)

var paymentMethodNames = []string{"cash", "card", "transfer", "yape", "plin", "credit"}

func (m PaymentMethod) String() string {
	if int(m) < 0 || int(m) >= len(paymentMethodNames) {
		return "cash"
	}
	return paymentMethodNames[m]
}

// ParsePaymentMethod parses the wire name of a payment method.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	i, ok := parseName(paymentMethodNames, s)
	return PaymentMethod(i), ok
}

// Label is the Spanish name printed on receipts and reports.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCard:
		return "Tarjeta"
	case PaymentMethodTransfer:
		return "Transferencia"
	case PaymentMethodYape:
		return "Yape"
	case PaymentMethodPlin:
		return "Plin"
	case PaymentMethodCredit:
		return "Fiado"
	}
	return "Efectivo"
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName(data, paymentMethodNames, "payment method")
	if err != nil {
		return err
	}
	*m = PaymentMethod(i)
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	*m = PaymentMethod(scanInt(value))
	return nil
}
