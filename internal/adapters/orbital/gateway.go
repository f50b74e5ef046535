// Package orbital implements a client adapter for the Chase Paymentech
// Orbital XML-over-HTTPS gateway protocol: request building, transport
// with primary/secondary failover, response parsing and approval
// classification.
package orbital

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opentransact/orbital/internal/adapters/ports"
	"github.com/opentransact/orbital/internal/config"
	"github.com/opentransact/orbital/internal/domain"
)

// Gateway is the public facade over the Orbital protocol. Safe for
// concurrent use: configuration and code tables are immutable after
// construction and every call is an independent round trip.
type Gateway struct {
	cfg        config.GatewayConfig
	builder    requestBuilder
	controller *controller
	logger     *zap.Logger
}

// NewGateway creates a gateway adapter. The HTTP client owns timeouts;
// a non-responding connection surfaces as a connection failure and takes
// the same failover path as a refused one.
func NewGateway(cfg config.GatewayConfig, client ports.HTTPClient, logger *zap.Logger) *Gateway {
	return &Gateway{
		cfg:        cfg,
		builder:    requestBuilder{cfg: cfg},
		controller: newController(cfg, client, logger),
		logger:     logger,
	}
}

var _ ports.CardGateway = (*Gateway)(nil)

// Authorize places an auth-only hold on the card.
func (g *Gateway) Authorize(ctx context.Context, amount int64, card domain.CreditCard, opts domain.TransactionOptions) (*domain.TransactionResult, error) {
	document, err := g.builder.authorizeXML(amount, card, opts)
	if err != nil {
		return nil, err
	}
	return g.commitAndFilter(ctx, "authorize", document)
}

// Purchase authorizes and captures in one message. When the source is a
// stored-profile reference, no card data goes over the wire.
func (g *Gateway) Purchase(ctx context.Context, amount int64, source domain.PaymentSource, opts domain.TransactionOptions) (*domain.TransactionResult, error) {
	document, err := g.builder.purchaseXML(amount, source, opts)
	if err != nil {
		return nil, err
	}
	return g.commitAndFilter(ctx, "purchase", document)
}

// Capture marks a prior authorization for settlement.
func (g *Gateway) Capture(ctx context.Context, amount int64, authorization string, opts domain.TransactionOptions) (*domain.TransactionResult, error) {
	document, err := g.builder.captureXML(amount, authorization, opts)
	if err != nil {
		return nil, err
	}
	return g.commit(ctx, "capture", document)
}

// Refund returns funds against a prior transaction.
func (g *Gateway) Refund(ctx context.Context, amount int64, authorization string, opts domain.TransactionOptions) (*domain.TransactionResult, error) {
	document, err := g.builder.refundXML(amount, authorization, opts)
	if err != nil {
		return nil, err
	}
	return g.commitAndFilter(ctx, "refund", document)
}

// Void reverses a prior authorization.
func (g *Gateway) Void(ctx context.Context, amount int64, authorization string, opts domain.TransactionOptions) (*domain.TransactionResult, error) {
	document, err := g.builder.voidXML(amount, authorization, opts)
	if err != nil {
		return nil, err
	}
	return g.commit(ctx, "void", document)
}

// StoreProfile creates a stored card profile, or updates one when a
// customer reference number is supplied.
func (g *Gateway) StoreProfile(ctx context.Context, card domain.CreditCard, opts domain.TransactionOptions) (*domain.TransactionResult, error) {
	action := profileActionCreate
	if opts.CustomerRefNum != "" {
		action = profileActionUpdate
	}
	document, err := g.builder.profileXML(action, &card, opts)
	if err != nil {
		return nil, err
	}
	return g.commitAndFilter(ctx, "store_profile", document)
}

// RetrieveProfile reads a stored profile by its reference number.
func (g *Gateway) RetrieveProfile(ctx context.Context, customerRefNum string, opts domain.TransactionOptions) (*domain.TransactionResult, error) {
	opts.CustomerRefNum = customerRefNum
	document, err := g.builder.profileXML(profileActionRetrieve, nil, opts)
	if err != nil {
		return nil, err
	}
	return g.commitAndFilter(ctx, "retrieve_profile", document)
}

func (g *Gateway) commit(ctx context.Context, operation, document string) (*domain.TransactionResult, error) {
	g.logger.Debug("submitting gateway request",
		zap.String("operation", operation),
		zap.String("request_id", uuid.NewString()),
		zap.Int("document_bytes", len(document)),
	)
	return g.controller.send(ctx, operation, document)
}

// commitAndFilter commits and then optionally strips raw card-number
// fields from the result, for callers who never want a PAN in anything
// they might log or persist.
func (g *Gateway) commitAndFilter(ctx context.Context, operation, document string) (*domain.TransactionResult, error) {
	result, err := g.commit(ctx, operation, document)
	if err != nil {
		return nil, err
	}
	if g.cfg.CleanCCFromResponse {
		stripCardFields(result)
	}
	return result, nil
}

// cardFieldKeys are the raw-response keys that can hold a card number.
var cardFieldKeys = []string{"account_num", "cc_account_num"}

// stripCardFields removes card-number fields from the raw mapping. The
// approved flag, message and authorization are never touched.
func stripCardFields(result *domain.TransactionResult) {
	if result.RawFields == nil {
		return
	}
	for _, key := range cardFieldKeys {
		delete(result.RawFields, key)
	}
}
