package attendance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestClassifyPayType(t *testing.T) {
	scheduled := d("8")
	threshold := d("4")

	cases := []struct {
		name   string
		status Status
		hours  string
		want   PayType
	}{
		{"below threshold is unpaid", StatusPresent, "3.99", PayTypeUnpaid},
		{"exactly threshold is half day", StatusPresent, "4", PayTypeHalfDay},
		{"just under threshold is unpaid", StatusPresent, "3.99", PayTypeUnpaid},
		{"between threshold and schedule is half day", StatusPresent, "6.5", PayTypeHalfDay},
		{"exactly scheduled is full day", StatusPresent, "8", PayTypeFullDay},
		{"over scheduled is overtime", StatusPresent, "8.01", PayTypeOvertime},
		{"late still classifies", StatusLate, "9.5", PayTypeOvertime},
		{"late full day", StatusLate, "8", PayTypeFullDay},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyPayType(c.status, d(c.hours), scheduled, threshold)
			require.NotNil(t, got)
			assert.Equal(t, c.want, *got)
		})
	}
}

func TestClassifyPayType_NonWorkedStatuses(t *testing.T) {
	scheduled := d("8")
	threshold := d("4")

	assert.Nil(t, ClassifyPayType(StatusAbsent, d("0"), scheduled, threshold))
	assert.Nil(t, ClassifyPayType(StatusLeave, d("0"), scheduled, threshold))
}

func TestClassifyPayType_ThresholdBoundary(t *testing.T) {
	scheduled := d("8")
	threshold := d("4")

	atThreshold := ClassifyPayType(StatusPresent, d("4.00"), scheduled, threshold)
	require.NotNil(t, atThreshold)
	assert.Equal(t, PayTypeHalfDay, *atThreshold, "hours equal to the threshold must not be unpaid")

	justUnder := ClassifyPayType(StatusPresent, d("3.99"), scheduled, threshold)
	require.NotNil(t, justUnder)
	assert.Equal(t, PayTypeUnpaid, *justUnder)
}
