package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Charge/refund outcomes as the gateway reports them.
const (
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
	StatusRefunded  = "Refunded"
)

type CardDetails struct {
	Number      string `json:"cardNumber" binding:"required"`
	HolderName  string `json:"holderName" binding:"required"`
	ExpiryMonth int    `json:"expiryMonth" binding:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiryYear" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
}

type ChargeResult struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
	Raw           []byte `json:"-"`
}

type RefundResult struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
	Raw           []byte `json:"-"`
}

// PaymentGateway is the external payment collaborator. It is treated as
// opaque and possibly slow: callers must pass a context with a deadline and
// treat a context error like a declined call.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, card CardDetails) (ChargeResult, error)
	Refund(ctx context.Context, paymentID string, amount float64) (RefundResult, error)
}

// MockGateway simulates the processor. Charges decline for card numbers
// ending in 0002 (the usual test-card convention) and for non-positive
// amounts; everything else completes with a fresh transaction id. An
// optional latency makes timeout behavior testable.
type MockGateway struct {
	Latency time.Duration
}

func NewMockGateway(latency time.Duration) *MockGateway {
	return &MockGateway{Latency: latency}
}

func (g *MockGateway) wait(ctx context.Context) error {
	if g.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(g.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *MockGateway) Charge(ctx context.Context, amount float64, card CardDetails) (ChargeResult, error) {
	if err := g.wait(ctx); err != nil {
		return ChargeResult{}, fmt.Errorf("gateway charge timed out: %w", err)
	}

	status := StatusCompleted
	number := strings.ReplaceAll(card.Number, " ", "")
	if amount <= 0 || len(number) < 12 || strings.HasSuffix(number, "0002") {
		status = StatusFailed
	}

	txnID := "ch_" + uuid.NewString()
	raw, _ := json.Marshal(map[string]interface{}{
		"status":         status,
		"transaction_id": txnID,
		"amount":         amount,
		"processed_at":   time.Now().UTC().Format(time.RFC3339),
	})
	return ChargeResult{Status: status, TransactionID: txnID, Raw: raw}, nil
}

func (g *MockGateway) Refund(ctx context.Context, paymentID string, amount float64) (RefundResult, error) {
	if err := g.wait(ctx); err != nil {
		return RefundResult{}, fmt.Errorf("gateway refund timed out: %w", err)
	}

	status := StatusRefunded
	if paymentID == "" || amount <= 0 {
		status = StatusFailed
	}

	txnID := "re_" + uuid.NewString()
	raw, _ := json.Marshal(map[string]interface{}{
		"status":         status,
		"transaction_id": txnID,
		"payment_id":     paymentID,
		"amount":         amount,
		"processed_at":   time.Now().UTC().Format(time.RFC3339),
	})
	return RefundResult{Status: status, TransactionID: txnID, Raw: raw}, nil
}
