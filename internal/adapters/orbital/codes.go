package orbital

import (
	"github.com/opentransact/orbital/internal/domain"
)

// Static processor code tables. Kept as data so they can be updated
// without touching classification logic.

// currencyCodes maps ISO alpha currency codes to the numeric codes the
// gateway expects in the CurrencyCode element.
var currencyCodes = map[string]string{
	"AUD": "036",
	"CAD": "124",
	"CZK": "203",
	"DKK": "208",
	"HKD": "344",
	"ICK": "352",
	"JPY": "392",
	"MXN": "484",
	"NZD": "554",
	"NOK": "578",
	"SGD": "702",
	"SEK": "752",
	"CHF": "756",
	"GBP": "826",
	"USD": "840",
	"EUR": "978",
}

// Transaction status outcomes. ProcStatus "0" means the gateway processed
// the message; RespCode narrows down the issuer decision.
const (
	procStatusSuccess = "0"

	respApproved          = "00"
	respValidated         = "24"
	respPrenoted          = "26"
	respNoReasonToDecline = "27"
	respRecAndStored      = "28"
	respProvidedAuth      = "29"
	respRequestReceived   = "31"
	respBINAlert          = "32"
	respPartialApproval   = "34"
)

var approvalCodes = map[string]struct{}{
	respApproved:          {},
	respValidated:         {},
	respPrenoted:          {},
	respNoReasonToDecline: {},
	respRecAndStored:      {},
	respProvidedAuth:      {},
	respRequestReceived:   {},
	respBINAlert:          {},
	respPartialApproval:   {},
}

// isApprovalCode reports whether a RespCode is in the approval set.
func isApprovalCode(code string) bool {
	_, ok := approvalCodes[code]
	return ok
}

// avsReturnMessages maps AVS return codes to the processor's
// human-readable descriptions.
var avsReturnMessages = map[string]string{
	"1":  "No address supplied",
	"2":  "Bill-to address did not pass Auth Host edit check",
	"3":  "AVS not performed",
	"4":  "Issuer does not participate in AVS",
	"5":  "Edit-error - AVS data is invalid",
	"6":  "System unavailable or time-out",
	"7":  "Address information unavailable",
	"8":  "Transaction Ineligible for AVS",
	"9":  "Zip Match/Zip4 Match/Locale match",
	"A":  "Zip Match/Zip 4 Match/Locale no match",
	"B":  "Zip Match/Zip 4 no Match/Locale match",
	"C":  "Zip Match/Zip 4 no Match/Locale no match",
	"D":  "Zip No Match/Zip 4 Match/Locale match",
	"E":  "Zip No Match/Zip 4 Match/Locale no match",
	"F":  "Zip No Match/Zip 4 No Match/Locale match",
	"G":  "No match at all",
	"H":  "Zip Match/Locale match",
	"J":  "Issuer does not participate in Global AVS",
	"JA": "International street address and postal match",
	"JB": "International street address match. Postal code not verified.",
	"JC": "International street address and postal code not verified.",
	"JD": "International postal code match. Street address not verified.",
	"M1": "Merchant Override Decline",
	"M2": "Cardholder name, billing address, and postal code matches",
	"M3": "Cardholder name and billing code matches",
	"M4": "Cardholder name and billing address match",
	"M5": "Cardholder name incorrect, billing address and postal code match",
	"M6": "Cardholder name incorrect, billing address matches",
	"M7": "Cardholder name incorrect, billing address matches",
	"M8": "Cardholder name, billing address and postal code are all incorrect",
	"N3": "Address matches, ZIP not verified",
	"N4": "Address and ZIP code not verified due to incompatible formats",
	"N5": "Address and ZIP code match (International only)",
	"N6": "Address not verified (International only)",
	"N7": "ZIP matches, address not verified",
	"N8": "Address and ZIP code match (International only)",
	"N9": "Address and ZIP code match (UK only)",
	"R":  "Issuer does not participate in AVS",
	"UK": "Unknown",
	"X":  "Zip Match/Zip 4 Match/Address Match",
	"Z":  "Zip Match/Locale no match",
}

// AVS category sets. A code may belong to several sets at once: "D" is a
// hard fail, a bad zip and a bad address simultaneously.
var (
	avsPassCodes         = codeSet("9", "B", "H", "M2", "M3", "X")
	avsSoftFailCodes     = codeSet("A", "C", "M4", "M5", "M6", "M7", "N3", "N7", "Z")
	avsHardFailCodes     = codeSet("D", "E", "F", "G", "JC", "M1", "M8", "N4", "JA", "JB", "JD", "N5", "N6", "N8", "N9", "UK")
	avsServiceErrorCodes = codeSet("1", "2", "3", "4", "5", "6", "7", "8", "J", "R")
	avsBadZipCodes       = codeSet("D", "E", "F", "G", "N3", "N4", "JB", "JC")
	avsBadAddressCodes   = codeSet("C", "D", "E", "G", "JC", "JD", "M8", "N4", "N6", "N7", "Z")
)

// cvvFailCodes is the CVV verification fail set.
var cvvFailCodes = codeSet("N", "P", "I", "Y")

func codeSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// currencyCode resolves an alpha currency code to the numeric wire code.
// Unknown currencies render as an empty element, matching the gateway's
// lenient handling of the field.
func currencyCode(currency string) string {
	return currencyCodes[currency]
}

// classifyAVS derives the non-exclusive category set for an AVS code.
func classifyAVS(code string) []domain.AVSCategory {
	if code == "" {
		return nil
	}

	var categories []domain.AVSCategory
	if _, ok := avsPassCodes[code]; ok {
		categories = append(categories, domain.AVSPass)
	}
	if _, ok := avsSoftFailCodes[code]; ok {
		categories = append(categories, domain.AVSSoftFail)
	}
	if _, ok := avsHardFailCodes[code]; ok {
		categories = append(categories, domain.AVSHardFail)
	}
	if _, ok := avsServiceErrorCodes[code]; ok {
		categories = append(categories, domain.AVSServiceError)
	}
	if _, ok := avsBadZipCodes[code]; ok {
		categories = append(categories, domain.AVSBadZip)
	}
	if _, ok := avsBadAddressCodes[code]; ok {
		categories = append(categories, domain.AVSBadAddress)
	}
	return categories
}

// avsMessage returns the processor description for an AVS code.
func avsMessage(code string) string {
	return avsReturnMessages[code]
}

// cvvFailed reports whether a CVV return code is in the fail set.
func cvvFailed(code string) bool {
	_, ok := cvvFailCodes[code]
	return ok
}
