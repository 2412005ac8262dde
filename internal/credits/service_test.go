package credits

import (
	"context"
	"errors"
	"testing"
)

func TestDebitAndRefundRoundTrip(t *testing.T) {
	svc := NewService(true, 3)
	ctx := context.Background()

	before, err := svc.Balance(ctx, "u1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if err := svc.DebitForJob(ctx, "u1"); err != nil {
		t.Fatalf("debit: %v", err)
	}
	mid, _ := svc.Balance(ctx, "u1")
	if mid != before-3 {
		t.Fatalf("after debit = %d, want %d", mid, before-3)
	}
	if err := svc.RefundForJob(ctx, "u1"); err != nil {
		t.Fatalf("refund: %v", err)
	}
	after, _ := svc.Balance(ctx, "u1")
	if after != before {
		t.Fatalf("after refund = %d, want %d", after, before)
	}
}

func TestDebitInsufficientBalance(t *testing.T) {
	svc := NewService(true, defaultStartingBalance+1)
	err := svc.DebitForJob(context.Background(), "u1")
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("err = %v, want ErrInsufficientCredits", err)
	}
	// Balance untouched by the failed debit.
	bal, _ := svc.Balance(context.Background(), "u1")
	if bal != defaultStartingBalance {
		t.Fatalf("balance = %d, want %d", bal, defaultStartingBalance)
	}
}

func TestBillingDisabledIsNoOp(t *testing.T) {
	svc := NewService(false, 3)
	ctx := context.Background()

	if err := svc.DebitForJob(ctx, "u1"); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := svc.RefundForJob(ctx, "u1"); err != nil {
		t.Fatalf("refund: %v", err)
	}
	bal, err := svc.Balance(ctx, "u1")
	if err != nil || bal != 0 {
		t.Fatalf("balance = %d, %v; want 0, nil", bal, err)
	}
}

func TestConcurrentDebits(t *testing.T) {
	svc := NewService(true, 1)
	ctx := context.Background()

	done := make(chan error, defaultStartingBalance)
	for i := 0; i < defaultStartingBalance; i++ {
		go func() { done <- svc.DebitForJob(ctx, "u1") }()
	}
	for i := 0; i < defaultStartingBalance; i++ {
		if err := <-done; err != nil {
			t.Fatalf("debit %d: %v", i, err)
		}
	}
	bal, _ := svc.Balance(ctx, "u1")
	if bal != 0 {
		t.Fatalf("balance = %d, want 0", bal)
	}
	if err := svc.DebitForJob(ctx, "u1"); !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("overdraft err = %v, want ErrInsufficientCredits", err)
	}
}
