package orbital

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/opentransact/orbital/internal/config"
	"github.com/opentransact/orbital/internal/domain"
	"github.com/opentransact/orbital/pkg/encoding"
	pkgerrors "github.com/opentransact/orbital/pkg/errors"
)

// Message types for NewOrder documents.
const (
	messageTypeAuth    = "A"  // authorization only
	messageTypeAuthCap = "AC" // authorization and capture
	messageTypeRefund  = "R"  // refund

	industryTypeEcommerce = "EC"

	// Customer profile actions.
	profileActionCreate   = "C"
	profileActionUpdate   = "U"
	profileActionRetrieve = "R"

	// Will need revisiting for zero-exponent currencies such as JPY.
	currencyExponent = "2"

	orderIDMaxLen = 22

	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`
)

// requestBuilder renders operation parameters into the processor's XML
// document shapes. Pure: no I/O, deterministic output, validation errors
// raised before any element is written.
//
// The processor is order-sensitive, so elements are written by hand in
// the documented order; struct-tag marshalling cannot express the
// per-operation inserts.
type requestBuilder struct {
	cfg config.GatewayConfig
}

// xmlWriter appends escaped elements to a pooled buffer. Callers must
// release the writer once the document string has been taken.
type xmlWriter struct {
	buf *bytes.Buffer
}

func newXMLWriter() *xmlWriter {
	w := &xmlWriter{buf: encoding.GetBuffer()}
	w.buf.WriteString(xmlDeclaration)
	return w
}

func (w *xmlWriter) release() {
	encoding.PutBuffer(w.buf)
	w.buf = nil
}

func (w *xmlWriter) open(name string) {
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
}

func (w *xmlWriter) close(name string) {
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
}

// element writes <Name>text</Name> with XML escaping.
func (w *xmlWriter) element(name, text string) {
	w.open(name)
	w.buf.WriteString(escapeXML(text))
	w.close(name)
}

func (w *xmlWriter) String() string {
	return w.buf.String()
}

func escapeXML(s string) string {
	if !strings.ContainsAny(s, "<>&'\"") {
		return s
	}
	buf := encoding.GetBuffer()
	defer encoding.PutBuffer(buf)
	// EscapeText only fails on writer errors; bytes.Buffer never does.
	_ = xml.EscapeText(buf, []byte(s))
	return buf.String()
}

// amountString renders integer minor units as the decimal wire amount:
// 1000 -> "10.00".
func amountString(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}

// digitsOnly strips everything but digits; phone numbers are normalized
// this way before hitting the wire.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncateOrderID enforces the processor's 22-character OrderID limit.
// Long ids are truncated, not rejected.
func truncateOrderID(orderID string) string {
	if len(orderID) > orderIDMaxLen {
		return orderID[:orderIDMaxLen]
	}
	return orderID
}

// splitAuthorization decomposes "<txRefNum>;<orderId>". The reference
// must contain exactly one separator.
func splitAuthorization(authorization string) (txRefNum, orderID string, err error) {
	parts := strings.Split(authorization, ";")
	if len(parts) != 2 {
		return "", "", &pkgerrors.MalformedAuthorizationError{Authorization: authorization}
	}
	return parts[0], parts[1], nil
}

// writeCredentials emits the connection credential elements unless the
// account authenticates by source IP.
func (b requestBuilder) writeCredentials(w *xmlWriter) {
	if b.cfg.IPAuthentication {
		return
	}
	w.element("OrbitalConnectionUsername", b.cfg.Login)
	w.element("OrbitalConnectionPassword", b.cfg.Password)
}

func (b requestBuilder) terminalID(opts domain.TransactionOptions) string {
	if opts.TerminalID != "" {
		return opts.TerminalID
	}
	return b.cfg.TerminalID
}

func (b requestBuilder) currency(opts domain.TransactionOptions) string {
	if opts.Currency != "" {
		return opts.Currency
	}
	return b.cfg.Currency
}

// newOrder builds a NewOrder document. The insert hook writes the
// operation-specific elements between TerminalID and Comments; for
// refunds the transaction reference is appended last.
func (b requestBuilder) newOrder(messageType string, amount int64, opts domain.TransactionOptions, txRefNum string, insert func(w *xmlWriter)) (string, error) {
	if opts.OrderID == "" {
		return "", pkgerrors.NewMissingParameter("order_id")
	}

	w := newXMLWriter()
	defer w.release()
	w.open("Request")
	w.open("NewOrder")
	b.writeCredentials(w)
	w.element("IndustryType", industryTypeEcommerce)
	w.element("MessageType", messageType)
	w.element("BIN", b.cfg.BIN)
	w.element("MerchantID", b.cfg.MerchantID)
	w.element("TerminalID", b.terminalID(opts))

	if insert != nil {
		insert(w)
	}

	if opts.Comments != "" {
		w.element("Comments", opts.Comments)
	}
	w.element("OrderID", truncateOrderID(opts.OrderID))
	w.element("Amount", amountString(amount))

	if messageType == messageTypeRefund {
		w.element("TxRefNum", txRefNum)
	}

	w.close("NewOrder")
	w.close("Request")
	return w.String(), nil
}

// writeCard emits the card payment elements.
func (b requestBuilder) writeCard(w *xmlWriter, card domain.CreditCard, opts domain.TransactionOptions) {
	w.element("AccountNum", card.Number)
	w.element("Exp", card.ExpDate())
	w.element("CurrencyCode", currencyCode(b.currency(opts)))
	w.element("CurrencyExponent", currencyExponent)
	if card.HasVerificationValue() {
		w.element("CardSecVal", card.VerificationValue)
	}
}

// writeAddress emits the AVS block; nothing is written when the caller
// supplied no billing address.
func (b requestBuilder) writeAddress(w *xmlWriter, cardholderName string, opts domain.TransactionOptions) {
	addr := opts.BillingAddress
	if addr == nil {
		return
	}
	w.element("AVSzip", addr.Zip)
	w.element("AVSaddress1", addr.Address1)
	w.element("AVSaddress2", addr.Address2)
	w.element("AVScity", addr.City)
	w.element("AVSstate", addr.State)
	w.element("AVSphoneNum", digitsOnly(addr.Phone))
	w.element("AVSname", cardholderName)
	w.element("AVScountryCode", addr.Country)
}

// writeRefund emits the refund elements: no account number, just the
// currency pair.
func (b requestBuilder) writeRefund(w *xmlWriter, opts domain.TransactionOptions) {
	w.element("AccountNum", "")
	w.element("CurrencyCode", currencyCode(b.currency(opts)))
	w.element("CurrencyExponent", currencyExponent)
}

// authorizeXML builds the auth-only NewOrder document.
func (b requestBuilder) authorizeXML(amount int64, card domain.CreditCard, opts domain.TransactionOptions) (string, error) {
	return b.newOrder(messageTypeAuth, amount, opts, "", func(w *xmlWriter) {
		b.writeCard(w, card, opts)
		b.writeAddress(w, card.Name, opts)
	})
}

// purchaseXML builds the auth-and-capture NewOrder document. A stored
// profile source replaces the card elements with a CustomerRefNum.
func (b requestBuilder) purchaseXML(amount int64, source domain.PaymentSource, opts domain.TransactionOptions) (string, error) {
	if source.IsProfile() {
		return b.newOrder(messageTypeAuthCap, amount, opts, "", func(w *xmlWriter) {
			w.element("CustomerRefNum", source.CustomerRefNum)
		})
	}
	if source.Card == nil {
		return "", pkgerrors.NewMissingParameter("payment_source")
	}
	card := *source.Card
	return b.newOrder(messageTypeAuthCap, amount, opts, "", func(w *xmlWriter) {
		b.writeCard(w, card, opts)
		b.writeAddress(w, card.Name, opts)
	})
}

// refundXML builds the refund NewOrder document. The transaction
// reference from the prior authorization is appended after the amount.
func (b requestBuilder) refundXML(amount int64, authorization string, opts domain.TransactionOptions) (string, error) {
	txRefNum, _, err := splitAuthorization(authorization)
	if err != nil {
		return "", err
	}
	return b.newOrder(messageTypeRefund, amount, opts, txRefNum, func(w *xmlWriter) {
		b.writeRefund(w, opts)
	})
}

// captureXML builds the MarkForCapture document.
func (b requestBuilder) captureXML(amount int64, authorization string, opts domain.TransactionOptions) (string, error) {
	txRefNum, orderID, err := splitAuthorization(authorization)
	if err != nil {
		return "", err
	}

	w := newXMLWriter()
	defer w.release()
	w.open("Request")
	w.open("MarkForCapture")
	b.writeCredentials(w)
	w.element("OrderID", orderID)
	w.element("Amount", amountString(amount))
	w.element("BIN", b.cfg.BIN)
	w.element("MerchantID", b.cfg.MerchantID)
	w.element("TerminalID", b.terminalID(opts))
	w.element("TxRefNum", txRefNum)
	w.close("MarkForCapture")
	w.close("Request")
	return w.String(), nil
}

// voidXML builds the Reversal document. A transaction index identifying
// the leg to reverse is required.
func (b requestBuilder) voidXML(amount int64, authorization string, opts domain.TransactionOptions) (string, error) {
	if opts.TransactionIndex == "" {
		return "", pkgerrors.NewMissingParameter("transaction_index")
	}
	txRefNum, orderID, err := splitAuthorization(authorization)
	if err != nil {
		return "", err
	}

	w := newXMLWriter()
	defer w.release()
	w.open("Request")
	w.open("Reversal")
	b.writeCredentials(w)
	w.element("TxRefNum", txRefNum)
	w.element("TxRefIdx", opts.TransactionIndex)
	w.element("AdjustedAmt", amountString(amount))
	w.element("OrderID", orderID)
	w.element("BIN", b.cfg.BIN)
	w.element("MerchantID", b.cfg.MerchantID)
	w.element("TerminalID", b.terminalID(opts))
	if opts.OnlineReversalInd != "" && b.cfg.SupportsOnlineReversal() {
		w.element("OnlineReversalInd", opts.OnlineReversalInd)
	}
	w.close("Reversal")
	w.close("Request")
	return w.String(), nil
}

// profileXML builds the Profile document for store (create/update) and
// retrieve operations.
func (b requestBuilder) profileXML(action string, card *domain.CreditCard, opts domain.TransactionOptions) (string, error) {
	switch action {
	case profileActionCreate, profileActionUpdate:
		if card == nil || card.Number == "" {
			return "", pkgerrors.NewMissingParameter("cc")
		}
		if card.ExpDate() == "0000" {
			return "", pkgerrors.NewMissingParameter("exp")
		}
		if action == profileActionUpdate && opts.CustomerRefNum == "" {
			return "", pkgerrors.NewMissingParameter("customer_ref_num")
		}
		if opts.OrderID == "" {
			return "", pkgerrors.NewMissingParameter("order_id")
		}
	case profileActionRetrieve:
		if opts.CustomerRefNum == "" {
			return "", pkgerrors.NewMissingParameter("customer_ref_num")
		}
	}

	w := newXMLWriter()
	defer w.release()
	w.open("Request")
	w.open("Profile")
	b.writeCredentials(w)
	w.element("CustomerBin", b.cfg.BIN)
	w.element("CustomerMerchantID", b.cfg.MerchantID)
	if opts.CustomerName != "" {
		w.element("CustomerName", opts.CustomerName)
	}
	if opts.CustomerRefNum != "" {
		w.element("CustomerRefNum", opts.CustomerRefNum)
	}
	w.element("CustomerProfileAction", action)
	w.element("CustomerProfileOrderOverrideInd", "NO")

	if action != profileActionRetrieve {
		if desc := profileOrderDescription(opts); desc != "" {
			w.element("OrderDefaultDescription", desc)
		}
		w.element("CustomerAccountType", "CC")
		w.element("Status", "A")
		w.element("CCAccountNum", card.Number)
		w.element("CCExpireDate", card.ExpDate())
	}

	w.close("Profile")
	w.close("Request")
	return w.String(), nil
}

func profileOrderDescription(opts domain.TransactionOptions) string {
	if opts.OrderDefaultDescription != "" {
		return opts.OrderDefaultDescription
	}
	return truncateOrderID(opts.OrderID)
}
