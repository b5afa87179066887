package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentTypeJSON(t *testing.T) {
	var pt PaymentType
	require.NoError(t, json.Unmarshal([]byte(`"quarterly"`), &pt))
	assert.Equal(t, PaymentTypeQuarterly, pt)

	require.NoError(t, json.Unmarshal([]byte(`1`), &pt))
	assert.Equal(t, PaymentTypeMonthly, pt)

	out, err := json.Marshal(PaymentTypeProduct)
	require.NoError(t, err)
	assert.JSONEq(t, `"product"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"weekly"`), &pt))
	assert.Error(t, json.Unmarshal([]byte(`9`), &pt))
}

func TestPaymentTypeDurations(t *testing.T) {
	assert.Equal(t, 1, PaymentTypeDaily.DurationDays())
	assert.Equal(t, 30, PaymentTypeMonthly.DurationDays())
	assert.Equal(t, 90, PaymentTypeQuarterly.DurationDays())
	assert.Equal(t, 0, PaymentTypeProduct.DurationDays())
	assert.False(t, PaymentTypeProduct.IsMembership())
	assert.False(t, PaymentTypeDaily.HasPeriod())
	assert.True(t, PaymentTypeMonthly.HasPeriod())
}

func TestParsers(t *testing.T) {
	m, ok := ParsePaymentMethod(" Yape ")
	assert.True(t, ok)
	assert.Equal(t, PaymentMethodYape, m)
	assert.Equal(t, "Fiado", PaymentMethodCredit.Label())

	_, ok = ParsePaymentMethod("bitcoin")
	assert.False(t, ok)

	s, ok := ParseClientStatus("INACTIVE")
	assert.True(t, ok)
	assert.Equal(t, ClientStatusInactive, s)

	ps, ok := ParsePaymentStatus("pending")
	assert.True(t, ok)
	assert.Equal(t, PaymentStatusPending, ps)
}

func TestScanNil(t *testing.T) {
	var m PaymentMethod = PaymentMethodPlin
	require.NoError(t, m.Scan(nil))
	assert.Equal(t, PaymentMethodCash, m)
	require.NoError(t, m.Scan(int64(5)))
	assert.Equal(t, PaymentMethodCredit, m)
}
