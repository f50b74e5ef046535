package orbital

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opentransact/orbital/internal/domain"
)

// TestDetectKind tests response-shape discrimination
func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		response ParsedResponse
		want     responseKind
	}{
		{
			name:     "refund message type wins over everything",
			response: ParsedResponse{"message_type": "R", "approval_status": "0", "customer_profile_action": "CREATE"},
			want:     kindRefund,
		},
		{
			name:     "auth with approval status",
			response: ParsedResponse{"message_type": "A", "approval_status": "1"},
			want:     kindAuthOnly,
		},
		{
			name:     "auth without approval status falls through to default",
			response: ParsedResponse{"message_type": "A", "proc_status": "0", "resp_code": "00"},
			want:     kindDefault,
		},
		{
			name:     "profile action",
			response: ParsedResponse{"customer_profile_action": "CREATE"},
			want:     kindProfile,
		},
		{
			name:     "unknown profile action is not a profile response",
			response: ParsedResponse{"customer_profile_action": "DELETE"},
			want:     kindDefault,
		},
		{
			name:     "void shape: outstanding amount and no resp code",
			response: ParsedResponse{"outstanding_amt": "0", "proc_status": "0"},
			want:     kindVoid,
		},
		{
			name:     "outstanding amount with resp code is not a void",
			response: ParsedResponse{"outstanding_amt": "0", "resp_code": "00"},
			want:     kindDefault,
		},
		{
			name:     "plain auth capture response",
			response: ParsedResponse{"message_type": "AC", "proc_status": "0", "resp_code": "00"},
			want:     kindDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectKind(tt.response))
		})
	}
}

// TestClassify tests the approval decision per response kind
func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		response ParsedResponse
		want     bool
	}{
		{
			name:     "approved purchase",
			response: ParsedResponse{"proc_status": "0", "resp_code": "00"},
			want:     true,
		},
		{
			name:     "secondary approval code",
			response: ParsedResponse{"proc_status": "0", "resp_code": "34"},
			want:     true,
		},
		{
			name:     "issuer decline despite successful processing",
			response: ParsedResponse{"proc_status": "0", "resp_code": "05"},
			want:     false,
		},
		{
			name:     "gateway level failure",
			response: ParsedResponse{"proc_status": "201", "resp_code": "00"},
			want:     false,
		},
		{
			name:     "refund ignores resp code",
			response: ParsedResponse{"message_type": "R", "proc_status": "0", "resp_code": "05"},
			want:     true,
		},
		{
			name:     "refund gateway failure",
			response: ParsedResponse{"message_type": "R", "proc_status": "9713"},
			want:     false,
		},
		{
			name:     "auth only approval status authoritative",
			response: ParsedResponse{"message_type": "A", "proc_status": "0", "approval_status": "1", "resp_code": "05"},
			want:     true,
		},
		{
			name:     "auth only approval status zero declines",
			response: ParsedResponse{"message_type": "A", "proc_status": "0", "approval_status": "0", "resp_code": "00"},
			want:     false,
		},
		{
			name:     "profile success uses profile proc status",
			response: ParsedResponse{"customer_profile_action": "CREATE", "profile_proc_status": "0"},
			want:     true,
		},
		{
			name:     "profile failure",
			response: ParsedResponse{"customer_profile_action": "READ", "profile_proc_status": "9581", "proc_status": "0"},
			want:     false,
		},
		{
			name:     "void approved on proc status alone",
			response: ParsedResponse{"outstanding_amt": "0", "proc_status": "0"},
			want:     true,
		},
		{
			name:     "empty response declines",
			response: ParsedResponse{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.response))
		})
	}
}

// TestMessageFrom tests the message fallback chain
func TestMessageFrom(t *testing.T) {
	tests := []struct {
		name     string
		response ParsedResponse
		approved bool
		want     string
	}{
		{
			name:     "approved always reads APPROVED",
			response: ParsedResponse{"resp_msg": "Approved and completed"},
			approved: true,
			want:     "APPROVED",
		},
		{
			name:     "decline uses resp msg",
			response: ParsedResponse{"resp_msg": "Do Not Honor", "status_msg": "ignored"},
			approved: false,
			want:     "Do Not Honor",
		},
		{
			name:     "decline falls back to status msg",
			response: ParsedResponse{"status_msg": "Error validating card/account number range"},
			approved: false,
			want:     "Error validating card/account number range",
		},
		{
			name:     "no message at all",
			response: ParsedResponse{},
			approved: false,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messageFrom(tt.response, tt.approved))
		})
	}
}

// TestAuthorizationFrom tests reference assembly
func TestAuthorizationFrom(t *testing.T) {
	tests := []struct {
		name     string
		response ParsedResponse
		want     string
	}{
		{
			name:     "both halves present",
			response: ParsedResponse{"tx_ref_num": "ABC123", "order_id": "1001"},
			want:     "ABC123;1001",
		},
		{
			name:     "only tx ref num",
			response: ParsedResponse{"tx_ref_num": "ABC123"},
			want:     "ABC123;",
		},
		{
			name:     "only order id",
			response: ParsedResponse{"order_id": "1001"},
			want:     ";1001",
		},
		{
			name:     "neither half yields empty",
			response: ParsedResponse{},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authorizationFrom(tt.response))
		})
	}
}

func TestBuildResult(t *testing.T) {
	r := ParsedResponse{
		"proc_status":    "0",
		"resp_code":      "00",
		"tx_ref_num":     "ABC",
		"order_id":       "1",
		"avs_resp_code":  "D",
		"cvv2_resp_code": "N",
	}

	result := buildResult(r, true)

	assert.True(t, result.Approved)
	assert.Equal(t, "APPROVED", result.Message)
	assert.Equal(t, "ABC;1", result.Authorization)
	assert.True(t, result.TestMode)

	// AVS and CVV annotations never affect the approval outcome.
	assert.Equal(t, "D", result.AVS.Code)
	assert.True(t, result.AVS.HasCategory(domain.AVSHardFail))
	assert.True(t, result.AVS.HasCategory(domain.AVSBadZip))
	assert.True(t, result.AVS.HasCategory(domain.AVSBadAddress))
	assert.False(t, result.AVS.HasCategory(domain.AVSPass))
	assert.Equal(t, "N", result.CVV.Code)
	assert.True(t, result.CVV.Failed)

	assert.Equal(t, "00", result.RawFields["resp_code"])
}
