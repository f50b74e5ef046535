package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/opentransact/orbital/internal/adapters/orbital"
	"github.com/opentransact/orbital/internal/config"
	"github.com/opentransact/orbital/internal/domain"
)

func main() {
	var (
		operation      = flag.String("op", "purchase", "operation: authorize, purchase, capture, refund, void, store_profile, retrieve_profile")
		amount         = flag.Int64("amount", 0, "amount in minor units (cents)")
		cardNumber     = flag.String("card", "", "card number")
		cardMonth      = flag.Int("month", 0, "card expiry month")
		cardYear       = flag.Int("year", 0, "card expiry year")
		cardCVV        = flag.String("cvv", "", "card verification value")
		cardName       = flag.String("name", "", "cardholder name")
		orderID        = flag.String("order", "", "merchant order id")
		authorization  = flag.String("authorization", "", "prior authorization (capture, refund, void)")
		customerRefNum = flag.String("customer-ref", "", "stored profile reference number")
		txIndex        = flag.String("tx-index", "", "transaction index (void)")
	)
	flag.Parse()

	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := resolveCredentials(ctx, cfg, logger); err != nil {
		logger.Fatal("Failed to resolve gateway credentials", zap.Error(err))
	}
	if err := cfg.Gateway.Validate(); err != nil {
		logger.Fatal("Invalid gateway configuration", zap.Error(err))
	}

	gateway := orbital.NewGateway(cfg.Gateway, newHTTPClient(cfg.Gateway.Timeout), logger)

	result, err := run(ctx, gateway, runOptions{
		operation:      *operation,
		amount:         *amount,
		cardNumber:     *cardNumber,
		cardMonth:      *cardMonth,
		cardYear:       *cardYear,
		cardCVV:        *cardCVV,
		cardName:       *cardName,
		orderID:        *orderID,
		authorization:  *authorization,
		customerRefNum: *customerRefNum,
		txIndex:        *txIndex,
	})
	if err != nil {
		logger.Fatal("Transaction failed", zap.String("operation", *operation), zap.Error(err))
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(out))

	if !result.Approved {
		os.Exit(2)
	}
}

type runOptions struct {
	operation      string
	amount         int64
	cardNumber     string
	cardMonth      int
	cardYear       int
	cardCVV        string
	cardName       string
	orderID        string
	authorization  string
	customerRefNum string
	txIndex        string
}

func run(ctx context.Context, gateway *orbital.Gateway, o runOptions) (*domain.TransactionResult, error) {
	card := domain.CreditCard{
		Name:              o.cardName,
		Number:            o.cardNumber,
		Month:             o.cardMonth,
		Year:              o.cardYear,
		VerificationValue: o.cardCVV,
	}
	opts := domain.TransactionOptions{
		OrderID:          o.orderID,
		CustomerRefNum:   o.customerRefNum,
		TransactionIndex: o.txIndex,
	}

	switch o.operation {
	case "authorize":
		return gateway.Authorize(ctx, o.amount, card, opts)
	case "purchase":
		source := domain.CardSource(card)
		if o.customerRefNum != "" && o.cardNumber == "" {
			source = domain.ProfileSource(o.customerRefNum)
		}
		return gateway.Purchase(ctx, o.amount, source, opts)
	case "capture":
		return gateway.Capture(ctx, o.amount, o.authorization, opts)
	case "refund":
		return gateway.Refund(ctx, o.amount, o.authorization, opts)
	case "void":
		return gateway.Void(ctx, o.amount, o.authorization, opts)
	case "store_profile":
		return gateway.StoreProfile(ctx, card, opts)
	case "retrieve_profile":
		return gateway.RetrieveProfile(ctx, o.customerRefNum, opts)
	default:
		return nil, fmt.Errorf("unknown operation %q", o.operation)
	}
}

// newHTTPClient builds the client handed to the gateway. Per-attempt
// timeouts live here, not in the transport controller.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// initLogger initializes the zap logger from configuration
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
