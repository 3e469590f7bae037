// Package memory is an in-process record store with the same transactional
// contract as the Postgres adapter. A transaction works on a private copy of
// the committed state and swaps it in on commit; only one transaction is open
// at a time.
package memory

import (
	"context"
	"errors"
	"sync"

	"subscription-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var errForeignTx = errors.New("memory: transaction not created by this store")

type state struct {
	protocol *domain.ProtocolConfig
	wallets  map[uuid.UUID]domain.WalletAccount
	vaults   map[string]domain.YieldVault
	plans    map[uuid.UUID]domain.MerchantPlan
	subs     map[uuid.UUID]domain.Subscription
	tokens   map[string]domain.SessionTokenRecord
	balances map[string]uint64
	ledger   []domain.LedgerEntry
}

func newState() *state {
	return &state{
		wallets:  make(map[uuid.UUID]domain.WalletAccount),
		vaults:   make(map[string]domain.YieldVault),
		plans:    make(map[uuid.UUID]domain.MerchantPlan),
		subs:     make(map[uuid.UUID]domain.Subscription),
		tokens:   make(map[string]domain.SessionTokenRecord),
		balances: make(map[string]uint64),
	}
}

func (s *state) clone() *state {
	c := newState()
	if s.protocol != nil {
		p := *s.protocol
		c.protocol = &p
	}
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	for k, v := range s.vaults {
		c.vaults[k] = v
	}
	for k, v := range s.plans {
		c.plans[k] = v
	}
	for k, v := range s.subs {
		c.subs[k] = v
	}
	for k, v := range s.tokens {
		c.tokens[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	c.ledger = append([]domain.LedgerEntry(nil), s.ledger...)
	return c
}

// Store holds committed state and serialises writers.
type Store struct {
	writer sync.Mutex
	mu     sync.RWMutex
	data   *state

	eventsMu sync.Mutex
	events   []domain.Event

	webhooksMu sync.Mutex
	endpoints  map[string]domain.WebhookEndpoint
	deliveries []domain.WebhookDelivery
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState(), endpoints: make(map[string]domain.WebhookEndpoint)}
}

// Begin implements ports.DBTransactor. It blocks while another transaction is open.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	s.writer.Lock()
	if err := ctx.Err(); err != nil {
		s.writer.Unlock()
		return nil, err
	}
	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()
	return &Tx{store: s, work: work}, nil
}

// read runs fn against committed state.
func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Tx is a store transaction. Only Commit and Rollback are meaningful; the
// embedded pgx.Tx is nil and other methods must not be called.
type Tx struct {
	pgx.Tx
	store *Store
	work  *state
	done  bool
}

// Commit publishes the transaction's state.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.mu.Lock()
	t.store.data = t.work
	t.store.mu.Unlock()
	t.store.writer.Unlock()
	return nil
}

// Rollback discards the transaction's state.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.writer.Unlock()
	return nil
}

func (s *Store) working(tx pgx.Tx) (*state, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, errForeignTx
	}
	if t.done {
		return nil, pgx.ErrTxClosed
	}
	return t.work, nil
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(_ context.Context) error { return nil }

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }

// Events returns a copy of the stored events, oldest first.
func (s *Store) Events() []domain.Event {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	return append([]domain.Event(nil), s.events...)
}
