package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents whether a sale has been fully paid
type PaymentStatus int

const (
	PaymentStatusPaid    PaymentStatus = 0
	PaymentStatusPending PaymentStatus = 1
)

var paymentStatusNames = []string{"paid", "pending"}

func (s PaymentStatus) String() string {
	if int(s) < 0 || int(s) >= len(paymentStatusNames) {
		return "paid"
	}
	return paymentStatusNames[s]
}

// ParsePaymentStatus parses the wire name of a payment status.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	i, ok := parseName(paymentStatusNames, s)
	return PaymentStatus(i), ok
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName(data, paymentStatusNames, "payment status")
	if err != nil {
		return err
	}
	*s = PaymentStatus(i)
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPaid
		return nil
	}
	*s = PaymentStatus(scanInt(value))
	return nil
}
