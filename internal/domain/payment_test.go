package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreditCardExpDate(t *testing.T) {
	tests := []struct {
		name string
		card CreditCard
		want string
	}{
		{name: "single digit month", card: CreditCard{Month: 9, Year: 2027}, want: "0927"},
		{name: "double digit month", card: CreditCard{Month: 12, Year: 2030}, want: "1230"},
		{name: "two digit year passthrough", card: CreditCard{Month: 1, Year: 25}, want: "0125"},
		{name: "zero value", card: CreditCard{}, want: "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.card.ExpDate())
		})
	}
}

func TestPaymentSource(t *testing.T) {
	card := CardSource(CreditCard{Number: "4242424242424242"})
	assert.False(t, card.IsProfile())
	assert.NotNil(t, card.Card)

	profile := ProfileSource("ABC123")
	assert.True(t, profile.IsProfile())
	assert.Nil(t, profile.Card)

	assert.False(t, PaymentSource{}.IsProfile())
}

func TestAVSResultHasCategory(t *testing.T) {
	r := AVSResult{Code: "D", Categories: []AVSCategory{AVSHardFail, AVSBadZip, AVSBadAddress}}

	assert.True(t, r.HasCategory(AVSHardFail))
	assert.True(t, r.HasCategory(AVSBadZip))
	assert.False(t, r.HasCategory(AVSPass))
}
