package domain

import (
	"fmt"
)

// CreditCard carries already-validated card data supplied by the host
// framework. The adapter never persists or logs these fields.
type CreditCard struct {
	Name              string
	Number            string
	Month             int
	Year              int
	VerificationValue string
}

// ExpDate renders the expiry in the MMYY wire format.
func (c CreditCard) ExpDate() string {
	return fmt.Sprintf("%02d%02d", c.Month, c.Year%100)
}

// HasVerificationValue reports whether a CVV was supplied.
func (c CreditCard) HasVerificationValue() bool {
	return c.VerificationValue != ""
}

// Address is a billing address used for AVS checks.
type Address struct {
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
	Country  string
	Phone    string
}

// PaymentSource is either fresh card data or a reference to a
// processor-stored customer profile. Exactly one of the two is set.
type PaymentSource struct {
	Card           *CreditCard
	CustomerRefNum string
}

// CardSource wraps fresh card data as a payment source.
func CardSource(card CreditCard) PaymentSource {
	return PaymentSource{Card: &card}
}

// ProfileSource references a stored customer profile.
func ProfileSource(customerRefNum string) PaymentSource {
	return PaymentSource{CustomerRefNum: customerRefNum}
}

// IsProfile reports whether the source is a stored-profile reference.
func (s PaymentSource) IsProfile() bool {
	return s.Card == nil && s.CustomerRefNum != ""
}

// TransactionOptions carries the per-call option keys recognized by the
// gateway operations. Zero values mean "not supplied".
type TransactionOptions struct {
	OrderID                 string
	Currency                string
	Comments                string
	TerminalID              string
	BillingAddress          *Address
	CustomerRefNum          string
	CustomerName            string
	OrderDefaultDescription string
	TransactionIndex        string
	OnlineReversalInd       string
}
