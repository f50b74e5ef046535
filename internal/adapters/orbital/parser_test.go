package orbital

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/opentransact/orbital/pkg/errors"
)

// TestParseResponse tests leaf flattening of response documents
func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ParsedResponse
	}{
		{
			name: "nested container elements never become keys",
			body: `<Response><Foo><Bar>1</Bar><Baz>2</Baz></Foo></Response>`,
			want: ParsedResponse{"bar": "1", "baz": "2"},
		},
		{
			name: "typical new order response",
			body: `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <NewOrderResp>
    <IndustryType/>
    <MessageType>AC</MessageType>
    <MerchantID>700000000000</MerchantID>
    <TerminalID>001</TerminalID>
    <ProcStatus>0</ProcStatus>
    <ApprovalStatus>1</ApprovalStatus>
    <RespCode>00</RespCode>
    <AVSRespCode>H </AVSRespCode>
    <CVV2RespCode>M</CVV2RespCode>
    <OrderID>1</OrderID>
    <TxRefNum>4A5398CF9B87744GG84A1D30F2F2321C66249416</TxRefNum>
  </NewOrderResp>
</Response>`,
			want: ParsedResponse{
				"industry_type":   "",
				"message_type":    "AC",
				"merchant_id":     "700000000000",
				"terminal_id":     "001",
				"proc_status":     "0",
				"approval_status": "1",
				"resp_code":       "00",
				"avs_resp_code":   "H",
				"cvv2_resp_code":  "M",
				"order_id":        "1",
				"tx_ref_num":      "4A5398CF9B87744GG84A1D30F2F2321C66249416",
			},
		},
		{
			name: "error response fallback when no Response root",
			body: `<ErrorResponse><QuickResponse><ProcStatus>201</ProcStatus><StatusMsg>Bad data</StatusMsg></QuickResponse></ErrorResponse>`,
			want: ParsedResponse{"proc_status": "201", "status_msg": "Bad data"},
		},
		{
			name: "Response preferred over ErrorResponse",
			body: `<Envelope><Response><ProcStatus>0</ProcStatus></Response><ErrorResponse><StatusMsg>ignored</StatusMsg></ErrorResponse></Envelope>`,
			want: ParsedResponse{"proc_status": "0"},
		},
		{
			name: "neither root yields empty mapping",
			body: `<SomethingElse><Field>1</Field></SomethingElse>`,
			want: ParsedResponse{},
		},
		{
			name: "duplicate tag names keep the last value",
			body: `<Response><A><Code>1</Code></A><B><Code>2</Code></B></Response>`,
			want: ParsedResponse{"code": "2"},
		},
		{
			name: "empty element is present with empty value",
			body: `<Response><CustomerRefNum></CustomerRefNum></Response>`,
			want: ParsedResponse{"customer_ref_num": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResponseMalformed(t *testing.T) {
	got, err := parseResponse([]byte(`<Response><Unclosed>`))
	require.Error(t, err)
	assert.Nil(t, got)

	var parseErr *pkgerrors.XMLParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, pkgerrors.CategoryProtocol, parseErr.Category())
}

func TestParsedResponseHas(t *testing.T) {
	r := ParsedResponse{"customer_ref_num": ""}

	assert.True(t, r.Has("customer_ref_num"))
	assert.Equal(t, "", r.Get("customer_ref_num"))
	assert.False(t, r.Has("resp_code"))
}

// TestUnderscore tests wire tag normalization
func TestUnderscore(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TxRefNum", "tx_ref_num"},
		{"OrderID", "order_id"},
		{"CCAccountNum", "cc_account_num"},
		{"CVV2RespCode", "cvv2_resp_code"},
		{"AVSRespCode", "avs_resp_code"},
		{"ProcStatus", "proc_status"},
		{"MerchantID", "merchant_id"},
		{"StatusMsg", "status_msg"},
		{"OutstandingAmt", "outstanding_amt"},
		{"CustomerProfileAction", "customer_profile_action"},
		{"BIN", "bin"},
		{"Exp", "exp"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, underscore(tt.in))
		})
	}
}
