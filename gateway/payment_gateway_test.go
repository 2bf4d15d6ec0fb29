package gateway

import (
	"context"
	"testing"
	"time"
)

func testCard(number string) CardDetails {
	return CardDetails{
		Number:      number,
		HolderName:  "Test User",
		ExpiryMonth: 12,
		ExpiryYear:  2031,
		CVV:         "123",
	}
}

func TestMockGateway_ChargeCompletes(t *testing.T) {
	gw := NewMockGateway(0)

	result, err := gw.Charge(context.Background(), 150, testCard("4242424242424242"))
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("status %s, want Completed", result.Status)
	}
	if result.TransactionID == "" {
		t.Fatalf("missing transaction id")
	}
	if len(result.Raw) == 0 {
		t.Fatalf("missing raw gateway payload")
	}
}

func TestMockGateway_ChargeDeclines(t *testing.T) {
	gw := NewMockGateway(0)

	cases := []struct {
		name   string
		amount float64
		card   CardDetails
	}{
		{"decline test card", 100, testCard("4000000000000002")},
		{"zero amount", 0, testCard("4242424242424242")},
		{"short card number", 100, testCard("1234")},
	}
	for _, tc := range cases {
		result, err := gw.Charge(context.Background(), tc.amount, tc.card)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if result.Status != StatusFailed {
			t.Fatalf("%s: status %s, want Failed", tc.name, result.Status)
		}
	}
}

func TestMockGateway_RefundStates(t *testing.T) {
	gw := NewMockGateway(0)

	result, err := gw.Refund(context.Background(), "pay_abc", 100)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if result.Status != StatusRefunded {
		t.Fatalf("status %s, want Refunded", result.Status)
	}

	result, err = gw.Refund(context.Background(), "", 100)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("empty payment id: status %s, want Failed", result.Status)
	}
}

func TestMockGateway_RespectsContextDeadline(t *testing.T) {
	gw := NewMockGateway(500 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := gw.Charge(ctx, 100, testCard("4242424242424242")); err == nil {
		t.Fatalf("expected timeout error from slow gateway")
	}
}
