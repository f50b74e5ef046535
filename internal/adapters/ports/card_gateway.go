package ports

import (
	"context"

	"github.com/opentransact/orbital/internal/domain"
)

// CardGateway is the inbound contract exposed to the host framework.
// Amounts are integer minor units, already validated by the caller.
// Every operation is a single synchronous round trip; a decline comes
// back as a result with Approved=false, never as an error.
type CardGateway interface {
	// Authorize places an auth-only hold on the card.
	Authorize(ctx context.Context, amount int64, card domain.CreditCard, opts domain.TransactionOptions) (*domain.TransactionResult, error)

	// Purchase authorizes and captures in one step. The source may be
	// fresh card data or a stored-profile reference.
	Purchase(ctx context.Context, amount int64, source domain.PaymentSource, opts domain.TransactionOptions) (*domain.TransactionResult, error)

	// Capture marks a prior authorization for settlement. The
	// authorization argument is the "<txRefNum>;<orderId>" pair returned
	// by Authorize.
	Capture(ctx context.Context, amount int64, authorization string, opts domain.TransactionOptions) (*domain.TransactionResult, error)

	// Refund returns funds against a prior transaction.
	Refund(ctx context.Context, amount int64, authorization string, opts domain.TransactionOptions) (*domain.TransactionResult, error)

	// Void reverses a prior authorization. Requires a transaction index.
	Void(ctx context.Context, amount int64, authorization string, opts domain.TransactionOptions) (*domain.TransactionResult, error)

	// StoreProfile creates or updates a processor-stored card profile.
	StoreProfile(ctx context.Context, card domain.CreditCard, opts domain.TransactionOptions) (*domain.TransactionResult, error)

	// RetrieveProfile reads a stored profile by its reference number.
	RetrieveProfile(ctx context.Context, customerRefNum string, opts domain.TransactionOptions) (*domain.TransactionResult, error)
}
