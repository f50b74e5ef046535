package orbital

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opentransact/orbital/internal/domain"
)

func TestCurrencyCode(t *testing.T) {
	tests := []struct {
		currency string
		want     string
	}{
		{"CAD", "124"},
		{"USD", "840"},
		{"GBP", "826"},
		{"EUR", "978"},
		{"JPY", "392"},
		{"XXX", ""}, // unknown renders as empty element
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, currencyCode(tt.currency))
		})
	}
}

func TestIsApprovalCode(t *testing.T) {
	for _, code := range []string{"00", "24", "26", "27", "28", "29", "31", "32", "34"} {
		assert.True(t, isApprovalCode(code), "code %s should be an approval", code)
	}
	for _, code := range []string{"05", "01", "", "0", "33", "99"} {
		assert.False(t, isApprovalCode(code), "code %s should not be an approval", code)
	}
}

// TestClassifyAVS tests the non-exclusive AVS category sets
func TestClassifyAVS(t *testing.T) {
	tests := []struct {
		code string
		want []domain.AVSCategory
	}{
		{
			// "D" is simultaneously a hard fail, a bad zip and a bad address.
			code: "D",
			want: []domain.AVSCategory{domain.AVSHardFail, domain.AVSBadZip, domain.AVSBadAddress},
		},
		{
			code: "H",
			want: []domain.AVSCategory{domain.AVSPass},
		},
		{
			code: "Z",
			want: []domain.AVSCategory{domain.AVSSoftFail, domain.AVSBadAddress},
		},
		{
			code: "3",
			want: []domain.AVSCategory{domain.AVSServiceError},
		},
		{
			code: "N3",
			want: []domain.AVSCategory{domain.AVSSoftFail, domain.AVSBadZip},
		},
		{
			code: "", // absent AVS data carries no categories
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyAVS(tt.code))
		})
	}
}

func TestAVSMessage(t *testing.T) {
	assert.Equal(t, "Zip Match/Locale match", avsMessage("H"))
	assert.Equal(t, "No match at all", avsMessage("G"))
	assert.Equal(t, "", avsMessage("ZZ"))
}

func TestCVVFailed(t *testing.T) {
	for _, code := range []string{"N", "P", "I", "Y"} {
		assert.True(t, cvvFailed(code), "code %s is in the fail set", code)
	}
	for _, code := range []string{"M", "U", "S", ""} {
		assert.False(t, cvvFailed(code), "code %s is not in the fail set", code)
	}
}
