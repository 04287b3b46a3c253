package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/corebank/transfer-engine/internal/adapter/repository/memory"
	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/shopspring/decimal"
)

func seedLedger(t *testing.T) *memory.Ledger {
	t.Helper()

	ledger := memory.NewLedger()
	ctx := context.Background()
	for _, seed := range []struct {
		username string
		balance  string
	}{
		{"alice", "100.00"},
		{"bob", "10.00"},
	} {
		user := domain.User{Username: seed.username, PasswordHash: "unused"}
		if _, err := ledger.Users().Create(ctx, user, decimal.RequireFromString(seed.balance)); err != nil {
			t.Fatalf("seed user %s: %v", seed.username, err)
		}
	}
	return ledger
}

func TestLedgerApplyTransferMovesFunds(t *testing.T) {
	ledger := seedLedger(t)
	ctx := context.Background()

	transfer := domain.Transfer{
		ID:       "tr_aaaaaaaaaaaa",
		FromUser: "alice",
		ToUser:   "bob",
		Amount:   "25.00",
		Fee:      "0.00",
		Status:   domain.TransferStatusPending,
	}
	if _, err := ledger.Transfers().Create(ctx, transfer); err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	newBalance, err := ledger.Transfers().ApplyTransfer(ctx, "alice", "bob",
		decimal.RequireFromString("25.00"), decimal.RequireFromString("25.00"), transfer.ID)
	if err != nil {
		t.Fatalf("ApplyTransfer returned error: %v", err)
	}
	if newBalance != "75.00" {
		t.Errorf("expected sender balance 75.00, got %s", newBalance)
	}

	bob, err := ledger.Accounts().GetBalance(ctx, "bob")
	if err != nil {
		t.Fatalf("get bob balance: %v", err)
	}
	if bob != "35.00" {
		t.Errorf("expected bob balance 35.00, got %s", bob)
	}

	stored, err := ledger.Transfers().Get(ctx, transfer.ID)
	if err != nil {
		t.Fatalf("get transfer: %v", err)
	}
	if stored.Status != domain.TransferStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", stored.Status)
	}
}

func TestLedgerApplyTransferInsufficientFundsLeavesStateUntouched(t *testing.T) {
	ledger := seedLedger(t)
	ctx := context.Background()

	transfer := domain.Transfer{
		ID:       "tr_bbbbbbbbbbbb",
		FromUser: "bob",
		ToUser:   "alice",
		Amount:   "50.00",
		Fee:      "0.00",
		Status:   domain.TransferStatusPending,
	}
	if _, err := ledger.Transfers().Create(ctx, transfer); err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	_, err := ledger.Transfers().ApplyTransfer(ctx, "bob", "alice",
		decimal.RequireFromString("50.00"), decimal.RequireFromString("50.00"), transfer.ID)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	bob, _ := ledger.Accounts().GetBalance(ctx, "bob")
	alice, _ := ledger.Accounts().GetBalance(ctx, "alice")
	if bob != "10.00" || alice != "100.00" {
		t.Errorf("expected balances unchanged (10.00, 100.00), got (%s, %s)", bob, alice)
	}

	stored, err := ledger.Transfers().Get(ctx, transfer.ID)
	if err != nil {
		t.Fatalf("get transfer: %v", err)
	}
	if stored.Status != domain.TransferStatusPending {
		t.Errorf("expected transfer still PENDING, got %s", stored.Status)
	}
}

func TestLedgerUpdateStatusIgnoresTerminalRows(t *testing.T) {
	ledger := seedLedger(t)
	ctx := context.Background()

	transfer := domain.Transfer{
		ID:       "tr_cccccccccccc",
		FromUser: "alice",
		ToUser:   "bob",
		Amount:   "5.00",
		Fee:      "0.00",
		Status:   domain.TransferStatusPending,
	}
	if _, err := ledger.Transfers().Create(ctx, transfer); err != nil {
		t.Fatalf("create transfer: %v", err)
	}

	if err := ledger.Transfers().UpdateStatus(ctx, transfer.ID, domain.TransferStatusFailed, "test"); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	err := ledger.Transfers().UpdateStatus(ctx, transfer.ID, domain.TransferStatusCompleted, "")
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for terminal transfer, got %v", err)
	}

	stored, err := ledger.Transfers().Get(ctx, transfer.ID)
	if err != nil {
		t.Fatalf("get transfer: %v", err)
	}
	if stored.Status != domain.TransferStatusFailed {
		t.Errorf("expected FAILED to stick, got %s", stored.Status)
	}
}

func TestLedgerDuplicateUser(t *testing.T) {
	ledger := seedLedger(t)

	user := domain.User{Username: "alice", PasswordHash: "unused"}
	if _, err := ledger.Users().Create(context.Background(), user, decimal.Zero); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}
