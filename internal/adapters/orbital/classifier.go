package orbital

import (
	"fmt"

	"github.com/opentransact/orbital/internal/domain"
)

// responseKind discriminates the document shape before any approval rule
// runs, so shape detection lives in exactly one place.
type responseKind int

const (
	kindDefault responseKind = iota
	kindRefund
	kindAuthOnly
	kindProfile
	kindVoid
)

func (k responseKind) String() string {
	switch k {
	case kindRefund:
		return "refund"
	case kindAuthOnly:
		return "auth_only"
	case kindProfile:
		return "profile"
	case kindVoid:
		return "void"
	default:
		return "default"
	}
}

var profileActions = map[string]struct{}{
	"CREATE": {},
	"UPDATE": {},
	"READ":   {},
}

// detectKind derives the response kind from the fields present.
//
// The void rule is deliberate field-presence sniffing inherited from the
// processor's reversal responses: they carry OutstandingAmt and no
// RespCode. It has not been verified against every void response shape.
func detectKind(r ParsedResponse) responseKind {
	switch {
	case r.Get("message_type") == "R":
		return kindRefund
	case r.Get("message_type") == "A" && r.Has("approval_status"):
		// approval_status only appears on API versions that support it.
		return kindAuthOnly
	case isProfileAction(r.Get("customer_profile_action")):
		return kindProfile
	case r.Has("outstanding_amt") && !r.Has("resp_code"):
		return kindVoid
	default:
		return kindDefault
	}
}

func isProfileAction(action string) bool {
	_, ok := profileActions[action]
	return ok
}

// classify decides approval for a parsed response.
func classify(r ParsedResponse) bool {
	switch detectKind(r) {
	case kindRefund:
		return r.Get("proc_status") == procStatusSuccess
	case kindAuthOnly:
		// Approval status is authoritative here; resp_code is not
		// re-checked.
		return r.Get("proc_status") == procStatusSuccess && r.Get("approval_status") == "1"
	case kindProfile:
		return r.Get("profile_proc_status") == procStatusSuccess
	case kindVoid:
		return r.Get("proc_status") == procStatusSuccess
	default:
		return r.Get("proc_status") == procStatusSuccess && isApprovalCode(r.Get("resp_code"))
	}
}

// messageFrom derives the caller-visible message: APPROVED on success,
// otherwise the processor message with its documented fallback chain.
func messageFrom(r ParsedResponse, approved bool) string {
	if approved {
		return "APPROVED"
	}
	if msg := r.Get("resp_msg"); msg != "" {
		return msg
	}
	return r.Get("status_msg")
}

// authorizationFrom assembles the "<txRefNum>;<orderId>" reference. It is
// produced even for declines so the caller can still void or retry, and
// is empty only when the response carried neither half.
func authorizationFrom(r ParsedResponse) string {
	txRefNum := r.Get("tx_ref_num")
	orderID := r.Get("order_id")
	if txRefNum == "" && orderID == "" {
		return ""
	}
	return fmt.Sprintf("%s;%s", txRefNum, orderID)
}

// buildResult assembles the classified result for a parsed response.
func buildResult(r ParsedResponse, testMode bool) *domain.TransactionResult {
	approved := classify(r)
	avsCode := r.Get("avs_resp_code")
	cvvCode := r.Get("cvv2_resp_code")

	return &domain.TransactionResult{
		Approved:      approved,
		Message:       messageFrom(r, approved),
		Authorization: authorizationFrom(r),
		TestMode:      testMode,
		AVS: domain.AVSResult{
			Code:       avsCode,
			Message:    avsMessage(avsCode),
			Categories: classifyAVS(avsCode),
		},
		CVV: domain.CVVResult{
			Code:   cvvCode,
			Failed: cvvFailed(cvvCode),
		},
		RawFields: r,
	}
}
