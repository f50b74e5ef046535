package domain

// AVSCategory classifies an AVS return code. Categories are not mutually
// exclusive: a single code can be a hard fail, a bad zip and a bad
// address at the same time.
type AVSCategory string

const (
	AVSPass         AVSCategory = "pass"
	AVSSoftFail     AVSCategory = "soft_fail"
	AVSHardFail     AVSCategory = "hard_fail"
	AVSServiceError AVSCategory = "service_error"
	AVSBadZip       AVSCategory = "bad_zip"
	AVSBadAddress   AVSCategory = "bad_address"
)

// AVSResult is an informational annotation on the transaction result. It
// never feeds the approve/decline decision.
type AVSResult struct {
	Code       string
	Message    string
	Categories []AVSCategory
}

// HasCategory reports whether the AVS code fell into the given category.
func (r AVSResult) HasCategory(c AVSCategory) bool {
	for _, have := range r.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// CVVResult carries the raw CVV verification code and whether it is in
// the processor's fail set.
type CVVResult struct {
	Code   string
	Failed bool
}

// TransactionResult is the classified outcome of one gateway round trip.
// Declines are results with Approved=false, not errors.
type TransactionResult struct {
	Approved      bool
	Message       string
	Authorization string
	TestMode      bool
	AVS           AVSResult
	CVV           CVVResult
	RawFields     map[string]string
}
