package service

import (
	"context"
	"testing"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletService_CreateWallet(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	w, err := e.wallet.CreateWallet(ctx, "alice", testCurrency)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletID("alice", testCurrency), w.ID)
	assert.False(t, w.YieldEnabled)

	_, err = e.wallet.CreateWallet(ctx, "alice", testCurrency)
	assertAppError(t, err, "STATE_002")

	_, err = e.wallet.CreateWallet(ctx, "a:b", testCurrency)
	assertAppError(t, err, "VAL_014")

	_, err = e.wallet.CreateWallet(ctx, "alice", "")
	assertAppError(t, err, "VAL_013")

	_, err = e.wallet.CreateWallet(ctx, "alice", "EURC")
	require.NoError(t, err, "one wallet per currency")
}

func TestWalletService_Deposit(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.fundWallet(t, "alice", 0)

	view, err := e.wallet.Deposit(ctx, ports.WalletAmountRequest{Owner: "alice", Currency: testCurrency, Amount: 300})
	require.NoError(t, err)
	assert.Equal(t, uint64(300), view.LiquidBalance)

	view, err = e.wallet.Deposit(ctx, ports.WalletAmountRequest{Owner: "alice", Currency: testCurrency, Amount: 200})
	require.NoError(t, err)
	assert.Equal(t, uint64(500), view.LiquidBalance)

	_, err = e.wallet.Deposit(ctx, ports.WalletAmountRequest{Owner: "alice", Currency: testCurrency, Amount: 0})
	assertAppError(t, err, "VAL_001")

	_, err = e.wallet.Deposit(ctx, ports.WalletAmountRequest{Owner: "bob", Currency: testCurrency, Amount: 1})
	assertAppError(t, err, "STATE_001")

	_, err = e.wallet.Deposit(ctx, ports.WalletAmountRequest{Owner: "alice", Currency: testCurrency, Amount: ^uint64(0)})
	assertAppError(t, err, "MATH_001")
}

func TestWalletService_GetWallet(t *testing.T) {
	e := newTestEngine(t)
	e.setup(t, testFeeBps, testBufferBps)
	ctx := context.Background()
	e.fundWallet(t, "alice", 1000)
	e.registerPlan(t, 80)
	e.subscribe(t, "alice", "tok-1")

	_, err := e.vault.EnableYield(ctx, ports.YieldAmountRequest{Owner: "alice", Currency: testCurrency, Amount: 500})
	require.NoError(t, err)
	e.accrue(t, e.vaultRecord(t).BufferAccount, 45)

	view, err := e.wallet.GetWallet(ctx, "alice", testCurrency)
	require.NoError(t, err)
	assert.Equal(t, uint64(550), view.LiquidBalance)
	assert.Equal(t, uint64(240), view.Committed)
	assert.Equal(t, uint64(310), view.Withdrawable)
	assert.Equal(t, uint64(450), view.Wallet.YieldShares)
	assert.Equal(t, uint64(495), view.ShareValue)

	_, err = e.wallet.GetWallet(ctx, "bob", testCurrency)
	assertAppError(t, err, "STATE_001")
}

func TestWalletService_ListLedger(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.fundWallet(t, "alice", 100)
	for i := 0; i < 3; i++ {
		_, err := e.wallet.Deposit(ctx, ports.WalletAmountRequest{Owner: "alice", Currency: testCurrency, Amount: uint64(10 * (i + 1))})
		require.NoError(t, err)
	}

	entries, err := e.wallet.ListLedger(ctx, "alice", testCurrency, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, uint64(30), entries[0].Amount, "newest first")
	assert.Equal(t, domain.LedgerWalletDeposit, entries[0].Kind)
	assert.Equal(t, domain.FundingAccount(testCurrency), entries[0].FromAccount)

	entries, err = e.wallet.ListLedger(ctx, "alice", testCurrency, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = e.wallet.ListLedger(ctx, "bob", testCurrency, 10)
	assertAppError(t, err, "STATE_001")
}
