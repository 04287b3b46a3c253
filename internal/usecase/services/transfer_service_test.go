package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/corebank/transfer-engine/internal/adapter/http/models"
	"github.com/corebank/transfer-engine/internal/adapter/repository/memory"
	"github.com/corebank/transfer-engine/internal/domain"
	"github.com/corebank/transfer-engine/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func newTransferFixture(t *testing.T) (*memory.Ledger, *services.TransferService) {
	t.Helper()

	ledger := memory.NewLedger()
	ctx := context.Background()

	for _, seed := range []struct {
		username string
		balance  string
	}{
		{"alice", "50000.00"},
		{"bob", "1000.00"},
	} {
		user := domain.User{Username: seed.username, PasswordHash: "unused"}
		if _, err := ledger.Users().Create(ctx, user, decimal.RequireFromString(seed.balance)); err != nil {
			t.Fatalf("seed user %s: %v", seed.username, err)
		}
	}

	svc := services.NewTransferService(
		ledger.Transfers(),
		ledger.Accounts(),
		ledger.Users(),
		ledger.Audit(),
		services.NewFeeService(),
	)
	return ledger, svc
}

func balanceOf(t *testing.T, ledger *memory.Ledger, username string) string {
	t.Helper()

	balance, err := ledger.Accounts().GetBalance(context.Background(), username)
	if err != nil {
		t.Fatalf("get balance for %s: %v", username, err)
	}
	return balance
}

func TestTransferServiceCompletesFreeTierTransfer(t *testing.T) {
	ledger, svc := newTransferFixture(t)

	resp, err := svc.SubmitTransfer(context.Background(), "alice", models.SubmitTransferRequest{
		Recipient: "bob",
		Amount:    decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("expected success response with data, got %+v", resp)
	}
	if resp.Data.Status != string(domain.TransferStatusCompleted) {
		t.Fatalf("expected COMPLETED, got %s", resp.Data.Status)
	}
	if resp.Data.Fee != "0.00" {
		t.Errorf("expected fee 0.00, got %s", resp.Data.Fee)
	}
	if resp.Data.NewBalance != "49900.00" {
		t.Errorf("expected new balance 49900.00, got %s", resp.Data.NewBalance)
	}
	if !strings.HasPrefix(resp.Data.TransferID, "tr_") || len(resp.Data.TransferID) != 15 {
		t.Errorf("unexpected transfer id format %q", resp.Data.TransferID)
	}

	if got := balanceOf(t, ledger, "bob"); got != "1100.00" {
		t.Errorf("expected bob balance 1100.00, got %s", got)
	}
}

func TestTransferServiceDebitsAmountPlusFee(t *testing.T) {
	ledger, svc := newTransferFixture(t)

	resp, err := svc.SubmitTransfer(context.Background(), "alice", models.SubmitTransferRequest{
		Recipient: "bob",
		Amount:    decimal.RequireFromString("5000.00"),
	})
	if err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}
	if resp.Data.Fee != "12.50" {
		t.Errorf("expected fee 12.50, got %s", resp.Data.Fee)
	}
	if resp.Data.NewBalance != "44987.50" {
		t.Errorf("expected new balance 44987.50, got %s", resp.Data.NewBalance)
	}

	// The recipient gets the amount only; the fee leaves the system.
	if got := balanceOf(t, ledger, "bob"); got != "6000.00" {
		t.Errorf("expected bob balance 6000.00, got %s", got)
	}
}

func TestTransferServiceInsufficientFundsIsABusinessOutcome(t *testing.T) {
	ledger, svc := newTransferFixture(t)

	resp, err := svc.SubmitTransfer(context.Background(), "bob", models.SubmitTransferRequest{
		Recipient: "alice",
		Amount:    decimal.RequireFromString("2000.00"),
	})
	if err != nil {
		t.Fatalf("expected nil error for insufficient funds, got %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("expected success envelope with data, got %+v", resp)
	}
	if resp.Data.Status != string(domain.TransferStatusFailed) {
		t.Fatalf("expected FAILED, got %s", resp.Data.Status)
	}
	if resp.Data.Reason != "Insufficient funds" {
		t.Errorf("expected reason %q, got %q", "Insufficient funds", resp.Data.Reason)
	}

	// No balance moved.
	if got := balanceOf(t, ledger, "bob"); got != "1000.00" {
		t.Errorf("expected bob balance unchanged at 1000.00, got %s", got)
	}
	if got := balanceOf(t, ledger, "alice"); got != "50000.00" {
		t.Errorf("expected alice balance unchanged at 50000.00, got %s", got)
	}

	// The failed attempt is still on record.
	status, err := svc.GetTransferStatus(context.Background(), "bob", resp.Data.TransferID)
	if err != nil {
		t.Fatalf("GetTransferStatus returned error: %v", err)
	}
	if status.Data.Status != string(domain.TransferStatusFailed) {
		t.Errorf("expected recorded FAILED transfer, got %s", status.Data.Status)
	}
}

func TestTransferServiceRejectsSelfTransfer(t *testing.T) {
	_, svc := newTransferFixture(t)

	_, err := svc.SubmitTransfer(context.Background(), "alice", models.SubmitTransferRequest{
		Recipient: "alice",
		Amount:    decimal.RequireFromString("10.00"),
	})
	if !errors.Is(err, domain.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestTransferServiceRejectsUnknownRecipient(t *testing.T) {
	_, svc := newTransferFixture(t)

	_, err := svc.SubmitTransfer(context.Background(), "alice", models.SubmitTransferRequest{
		Recipient: "mallory",
		Amount:    decimal.RequireFromString("10.00"),
	})
	if !errors.Is(err, domain.ErrUnknownRecipient) {
		t.Fatalf("expected ErrUnknownRecipient, got %v", err)
	}
}

func TestTransferServiceRejectsInvalidAmounts(t *testing.T) {
	_, svc := newTransferFixture(t)

	for _, amount := range []string{"0", "-5.00", "10.001"} {
		_, err := svc.SubmitTransfer(context.Background(), "alice", models.SubmitTransferRequest{
			Recipient: "bob",
			Amount:    decimal.RequireFromString(amount),
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestTransferServiceReportsRecipientProblemsBeforeAmount(t *testing.T) {
	_, svc := newTransferFixture(t)

	// Both the recipient and the amount are bad; the recipient wins.
	_, err := svc.SubmitTransfer(context.Background(), "alice", models.SubmitTransferRequest{
		Recipient: "mallory",
		Amount:    decimal.RequireFromString("-5.00"),
	})
	if !errors.Is(err, domain.ErrUnknownRecipient) {
		t.Fatalf("expected ErrUnknownRecipient, got %v", err)
	}

	_, err = svc.SubmitTransfer(context.Background(), "alice", models.SubmitTransferRequest{
		Recipient: "alice",
		Amount:    decimal.RequireFromString("-5.00"),
	})
	if !errors.Is(err, domain.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestTransferServiceConservationMinusFee(t *testing.T) {
	ledger, svc := newTransferFixture(t)

	resp, err := svc.SubmitTransfer(context.Background(), "alice", models.SubmitTransferRequest{
		Recipient: "bob",
		Amount:    decimal.RequireFromString("10000.00"),
	})
	if err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}
	if resp.Data.Fee != "20.00" {
		t.Fatalf("expected fee 20.00, got %s", resp.Data.Fee)
	}

	alice := decimal.RequireFromString(balanceOf(t, ledger, "alice"))
	bob := decimal.RequireFromString(balanceOf(t, ledger, "bob"))

	// 51000.00 seeded in total, minus the 20.00 fee that leaves the system.
	if total := alice.Add(bob); total.StringFixed(2) != "50980.00" {
		t.Errorf("expected combined balance 50980.00, got %s", total.StringFixed(2))
	}
}

func TestTransferServiceStatusIsImmutableAndRepeatable(t *testing.T) {
	_, svc := newTransferFixture(t)
	ctx := context.Background()

	resp, err := svc.SubmitTransfer(ctx, "alice", models.SubmitTransferRequest{
		Recipient: "bob",
		Amount:    decimal.RequireFromString("250.00"),
		Reference: "rent",
	})
	if err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}

	first, err := svc.GetTransferStatus(ctx, "alice", resp.Data.TransferID)
	if err != nil {
		t.Fatalf("GetTransferStatus returned error: %v", err)
	}
	second, err := svc.GetTransferStatus(ctx, "alice", resp.Data.TransferID)
	if err != nil {
		t.Fatalf("GetTransferStatus returned error: %v", err)
	}

	if *first.Data != *second.Data {
		t.Errorf("expected identical status responses, got %+v and %+v", first.Data, second.Data)
	}
	if first.Data.Reference != "rent" {
		t.Errorf("expected reference rent, got %q", first.Data.Reference)
	}
}

func TestTransferServiceStatusVisibleToBothParties(t *testing.T) {
	_, svc := newTransferFixture(t)
	ctx := context.Background()

	resp, err := svc.SubmitTransfer(ctx, "alice", models.SubmitTransferRequest{
		Recipient: "bob",
		Amount:    decimal.RequireFromString("75.00"),
	})
	if err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}

	if _, err := svc.GetTransferStatus(ctx, "bob", resp.Data.TransferID); err != nil {
		t.Errorf("recipient should see the transfer, got %v", err)
	}
}

func TestTransferServiceStatusHiddenFromThirdParties(t *testing.T) {
	ledger, svc := newTransferFixture(t)
	ctx := context.Background()

	carol := domain.User{Username: "carol", PasswordHash: "unused"}
	if _, err := ledger.Users().Create(ctx, carol, decimal.Zero); err != nil {
		t.Fatalf("seed carol: %v", err)
	}

	resp, err := svc.SubmitTransfer(ctx, "alice", models.SubmitTransferRequest{
		Recipient: "bob",
		Amount:    decimal.RequireFromString("75.00"),
	})
	if err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}

	if _, err := svc.GetTransferStatus(ctx, "carol", resp.Data.TransferID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for third party, got %v", err)
	}
}

func TestTransferServiceStatusUnknownID(t *testing.T) {
	_, svc := newTransferFixture(t)

	if _, err := svc.GetTransferStatus(context.Background(), "alice", "tr_000000000000"); !errors.Is(err, domain.ErrTransferNotFound) {
		t.Fatalf("expected ErrTransferNotFound, got %v", err)
	}
}

func TestTransferServiceListNewestFirst(t *testing.T) {
	_, svc := newTransferFixture(t)
	ctx := context.Background()

	first, err := svc.SubmitTransfer(ctx, "alice", models.SubmitTransferRequest{
		Recipient: "bob",
		Amount:    decimal.RequireFromString("10.00"),
	})
	if err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}
	second, err := svc.SubmitTransfer(ctx, "bob", models.SubmitTransferRequest{
		Recipient: "alice",
		Amount:    decimal.RequireFromString("5.00"),
	})
	if err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}

	resp, err := svc.ListTransfers(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTransfers returned error: %v", err)
	}
	if len(resp.Data.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(resp.Data.Transfers))
	}
	if resp.Data.Transfers[0].TransferID != second.Data.TransferID {
		t.Errorf("expected newest transfer first, got %s", resp.Data.Transfers[0].TransferID)
	}
	if resp.Data.Transfers[1].TransferID != first.Data.TransferID {
		t.Errorf("expected oldest transfer last, got %s", resp.Data.Transfers[1].TransferID)
	}
}

func TestTransferServiceConcurrentSendersDoNotOverdraw(t *testing.T) {
	ledger, svc := newTransferFixture(t)
	ctx := context.Background()

	// Bob has 1000.00; ten concurrent 150.00 transfers would need 1500.00.
	const workers = 10
	var wg sync.WaitGroup
	completed := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.SubmitTransfer(ctx, "bob", models.SubmitTransferRequest{
				Recipient: "alice",
				Amount:    decimal.RequireFromString("150.00"),
			})
			if err != nil {
				t.Errorf("SubmitTransfer returned error: %v", err)
				return
			}
			if resp.Data.Status == string(domain.TransferStatusCompleted) {
				completed <- resp.Data.TransferID
			}
		}()
	}
	wg.Wait()
	close(completed)

	var completedCount int
	for range completed {
		completedCount++
	}

	bob := decimal.RequireFromString(balanceOf(t, ledger, "bob"))
	if bob.IsNegative() {
		t.Fatalf("sender balance went negative: %s", bob)
	}

	expected := decimal.RequireFromString("1000.00").
		Sub(decimal.RequireFromString("150.00").Mul(decimal.NewFromInt(int64(completedCount))))
	if !bob.Equal(expected) {
		t.Errorf("expected bob balance %s after %d completed transfers, got %s",
			expected.StringFixed(2), completedCount, bob.StringFixed(2))
	}
}

func TestTransferServiceConcurrentDisjointTransfersBothComplete(t *testing.T) {
	ledger, svc := newTransferFixture(t)
	ctx := context.Background()

	for _, seed := range []struct {
		username string
		balance  string
	}{
		{"carol", "800.00"},
		{"dave", "300.00"},
	} {
		user := domain.User{Username: seed.username, PasswordHash: "unused"}
		if _, err := ledger.Users().Create(ctx, user, decimal.RequireFromString(seed.balance)); err != nil {
			t.Fatalf("seed user %s: %v", seed.username, err)
		}
	}

	// alice→bob and carol→dave touch four distinct accounts.
	submissions := []struct {
		from, to, amount string
	}{
		{"alice", "bob", "400.00"},
		{"carol", "dave", "200.00"},
	}

	var wg sync.WaitGroup
	statuses := make([]string, len(submissions))
	for i, sub := range submissions {
		wg.Add(1)
		go func(i int, from, to, amount string) {
			defer wg.Done()
			resp, err := svc.SubmitTransfer(ctx, from, models.SubmitTransferRequest{
				Recipient: to,
				Amount:    decimal.RequireFromString(amount),
			})
			if err != nil {
				t.Errorf("SubmitTransfer %s->%s returned error: %v", from, to, err)
				return
			}
			statuses[i] = resp.Data.Status
		}(i, sub.from, sub.to, sub.amount)
	}
	wg.Wait()

	for i, status := range statuses {
		if status != string(domain.TransferStatusCompleted) {
			t.Errorf("transfer %d: expected COMPLETED, got %s", i, status)
		}
	}

	for _, want := range []struct {
		username string
		balance  string
	}{
		{"alice", "49600.00"},
		{"bob", "1400.00"},
		{"carol", "600.00"},
		{"dave", "500.00"},
	} {
		if got := balanceOf(t, ledger, want.username); got != want.balance {
			t.Errorf("expected %s balance %s, got %s", want.username, want.balance, got)
		}
	}
}

func TestTransferServiceAuditsOutcomes(t *testing.T) {
	ledger, svc := newTransferFixture(t)
	ctx := context.Background()

	if _, err := svc.SubmitTransfer(ctx, "alice", models.SubmitTransferRequest{
		Recipient: "bob",
		Amount:    decimal.RequireFromString("100.00"),
	}); err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}
	if _, err := svc.SubmitTransfer(ctx, "bob", models.SubmitTransferRequest{
		Recipient: "alice",
		Amount:    decimal.RequireFromString("999999.00"),
	}); err != nil {
		t.Fatalf("SubmitTransfer returned error: %v", err)
	}

	var completed, failed int
	for _, entry := range ledger.AuditEntries() {
		switch entry.Operation {
		case domain.AuditTransferCompleted:
			completed++
		case domain.AuditTransferFailed:
			failed++
		}
	}
	if completed != 1 {
		t.Errorf("expected 1 TRANSFER_COMPLETED audit entry, got %d", completed)
	}
	if failed != 1 {
		t.Errorf("expected 1 TRANSFER_FAILED audit entry, got %d", failed)
	}
}
