package orbital

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opentransact/orbital/internal/adapters/ports"
	"github.com/opentransact/orbital/internal/config"
	"github.com/opentransact/orbital/internal/domain"
	pkgerrors "github.com/opentransact/orbital/pkg/errors"
	"github.com/opentransact/orbital/pkg/observability"
	"github.com/opentransact/orbital/pkg/resilience"
)

// Gateway endpoints. The var1/var2 hosts are the certification
// environment; failover always targets the matching secondary.
const (
	primaryTestURL   = "https://orbitalvar1.paymentech.net/authorize"
	secondaryTestURL = "https://orbitalvar2.paymentech.net/authorize"

	primaryLiveURL   = "https://orbital1.paymentech.net/authorize"
	secondaryLiveURL = "https://orbital2.paymentech.net/authorize"

	interfaceVersion = "Go|opentransact-orbital|Proprietary Gateway"
)

// controller owns the HTTP round trip: endpoint selection, bounded
// failover retry on connection errors, header assembly, and turning the
// parsed response into a classified result.
type controller struct {
	cfg     config.GatewayConfig
	client  ports.HTTPClient
	logger  *zap.Logger
	breaker *CircuitBreaker
	backoff resilience.BackoffStrategy
}

func newController(cfg config.GatewayConfig, client ports.HTTPClient, logger *zap.Logger) *controller {
	return &controller{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		breaker: NewCircuitBreaker(DefaultBreakerConfig()),
		backoff: resilience.ImmediateBackoff{},
	}
}

func (c *controller) endpoints() (primary, secondary string) {
	if c.cfg.TestMode {
		return primaryTestURL, secondaryTestURL
	}
	return primaryLiveURL, secondaryLiveURL
}

// headers returns the fixed header set. Everything is constant except
// the content type, which encodes the configured API version.
func (c *controller) headers(contentLength int) map[string]string {
	return map[string]string{
		"MIME-Version":              "1.0",
		"Content-Type":              c.cfg.ContentType(),
		"Content-transfer-encoding": "text",
		"Request-number":            "1",
		"Document-type":             "Request",
		"Interface-Version":         interfaceVersion,
		"Content-length":            strconv.Itoa(contentLength),
	}
}

// send POSTs the document and returns the classified result. Only
// connection-level failures retry; after the first one every subsequent
// attempt targets the secondary endpoint. Any response body, whatever
// the HTTP status, is parsed and classified: processor declines and
// error documents are results, not retryable events.
func (c *controller) send(ctx context.Context, operation, document string) (*domain.TransactionResult, error) {
	primary, secondary := c.endpoints()
	retries := c.cfg.FailoverRetries
	if retries < 1 {
		retries = config.DefaultFailoverRetries
	}

	// Previous attempt's outcome, threaded explicitly through the loop:
	// it is the only signal that selects the secondary endpoint.
	prevConnFailure := false
	var lastErr error

	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			observability.RecordFailover()
			delay := c.backoff.NextDelay(attempt - 1)
			if delay > 0 {
				select {
				case <-ctx.Done():
					return nil, &pkgerrors.ConnectionExhaustedError{Attempts: attempt, Cause: ctx.Err()}
				case <-time.After(delay):
				}
			}
		}

		url := primary
		if prevConnFailure {
			url = secondary
		}

		if err := c.breaker.Allow(); err != nil {
			c.logger.Warn("circuit open, rejecting gateway attempt",
				zap.String("operation", operation),
				zap.String("circuit_state", c.breaker.State().String()),
			)
			return nil, &pkgerrors.ConnectionExhaustedError{Attempts: attempt, Cause: err}
		}

		start := time.Now()
		body, err := c.post(ctx, url, document)
		if err != nil {
			c.breaker.RecordFailure()
			observability.RecordConnectionFailure()
			lastErr = err
			prevConnFailure = true
			c.logger.Warn("connection failure, failing over",
				zap.String("operation", operation),
				zap.String("endpoint", url),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}
		c.breaker.RecordSuccess()

		parsed, err := parseResponse(body)
		if err != nil {
			observability.RecordTransaction(operation, "parse_error", time.Since(start))
			return nil, err
		}

		result := buildResult(parsed, c.cfg.TestMode)
		outcome := "declined"
		if result.Approved {
			outcome = "approved"
		}
		observability.RecordTransaction(operation, outcome, time.Since(start))

		c.logger.Info("gateway response classified",
			zap.String("operation", operation),
			zap.String("endpoint", url),
			zap.Bool("approved", result.Approved),
			zap.String("message", result.Message),
			zap.String("authorization", result.Authorization),
			zap.Duration("elapsed", time.Since(start)),
		)
		return result, nil
	}

	observability.RecordRetriesExhausted()
	c.logger.Error("connection attempts exhausted",
		zap.String("operation", operation),
		zap.Int("attempts", retries),
		zap.Error(lastErr),
	)
	return nil, &pkgerrors.ConnectionExhaustedError{Attempts: retries, Cause: lastErr}
}

// post performs one HTTP attempt. Every returned error is a
// connection-level failure by definition: a served response, whatever
// its status code, is returned as a body for parsing.
func (c *controller) post(ctx context.Context, url, document string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(document))
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers(len(document)) {
		req.Header.Set(k, v)
	}
	req.ContentLength = int64(len(document))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}
