package postgres

import (
	"context"
	"testing"

	"subscription-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccount = "wallet:alice:USDC"

func TestBalanceRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectQuery("SELECT balance FROM token_accounts WHERE account").
		WithArgs(testAccount).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(500)))

	bal, err := repo.Get(context.Background(), testAccount)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), bal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Get_UnknownAccountIsZero(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectQuery("SELECT balance FROM token_accounts WHERE account").
		WithArgs("merchant:nobody:USDC").
		WillReturnRows(pgxmock.NewRows([]string{"balance"}))

	bal, err := repo.Get(context.Background(), "merchant:nobody:USDC")
	require.NoError(t, err)
	assert.Zero(t, bal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_GetForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO token_accounts .+ ON CONFLICT .+ DO NOTHING").
		WithArgs(testAccount).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery("SELECT balance FROM token_accounts WHERE account .+ FOR UPDATE").
		WithArgs(testAccount).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(80)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	bal, err := repo.GetForUpdate(context.Background(), tx, testAccount)
	require.NoError(t, err)
	assert.Equal(t, uint64(80), bal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Credit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO token_accounts .+ ON CONFLICT .+ DO UPDATE").
		WithArgs(testAccount, int64(250)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.Credit(context.Background(), tx, testAccount, 250))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Credit_Overflow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO token_accounts").
		WillReturnError(&pgconn.PgError{Code: "22003", Message: "bigint out of range"})

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Credit(context.Background(), tx, testAccount, 10)
	assert.ErrorIs(t, err, ports.ErrAmountOutOfRange)

	err = repo.Credit(context.Background(), tx, testAccount, 1<<63)
	assert.ErrorIs(t, err, ports.ErrAmountOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Debit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE token_accounts SET balance = balance -").
		WithArgs(testAccount, int64(80)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.Debit(context.Background(), tx, testAccount, 80))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Debit_Insufficient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE token_accounts SET balance = balance -").
		WithArgs(testAccount, int64(81)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Debit(context.Background(), tx, testAccount, 81)
	assert.ErrorIs(t, err, ports.ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
