package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Protocol config ---

// ProtocolConfigRepo implements ports.ProtocolConfigRepository.
type ProtocolConfigRepo struct{ s *Store }

func NewProtocolConfigRepo(s *Store) *ProtocolConfigRepo { return &ProtocolConfigRepo{s: s} }

func (r *ProtocolConfigRepo) Create(_ context.Context, tx pgx.Tx, cfg *domain.ProtocolConfig) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if st.protocol != nil {
		return fmt.Errorf("insert protocol config: %w", ports.ErrDuplicate)
	}
	c := *cfg
	st.protocol = &c
	return nil
}

func (r *ProtocolConfigRepo) Get(_ context.Context) (*domain.ProtocolConfig, error) {
	var out *domain.ProtocolConfig
	r.s.read(func(st *state) {
		if st.protocol != nil {
			c := *st.protocol
			out = &c
		}
	})
	return out, nil
}

func (r *ProtocolConfigRepo) GetForUpdate(_ context.Context, tx pgx.Tx) (*domain.ProtocolConfig, error) {
	st, err := r.s.working(tx)
	if err != nil {
		return nil, err
	}
	if st.protocol == nil {
		return nil, nil
	}
	c := *st.protocol
	return &c, nil
}

func (r *ProtocolConfigRepo) Update(_ context.Context, tx pgx.Tx, cfg *domain.ProtocolConfig) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if st.protocol == nil {
		return fmt.Errorf("protocol config not found")
	}
	c := *cfg
	st.protocol = &c
	return nil
}

// --- Wallets ---

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct{ s *Store }

func NewWalletRepo(s *Store) *WalletRepo { return &WalletRepo{s: s} }

func (r *WalletRepo) Create(_ context.Context, tx pgx.Tx, w *domain.WalletAccount) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.wallets[w.ID]; ok {
		return fmt.Errorf("insert wallet: %w", ports.ErrDuplicate)
	}
	st.wallets[w.ID] = *w
	return nil
}

func (r *WalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.WalletAccount, error) {
	var out *domain.WalletAccount
	r.s.read(func(st *state) {
		if w, ok := st.wallets[id]; ok {
			out = &w
		}
	})
	return out, nil
}

func (r *WalletRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletAccount, error) {
	st, err := r.s.working(tx)
	if err != nil {
		return nil, err
	}
	w, ok := st.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WalletRepo) Update(_ context.Context, tx pgx.Tx, w *domain.WalletAccount) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.wallets[w.ID]; !ok {
		return fmt.Errorf("wallet not found: %s", w.ID)
	}
	st.wallets[w.ID] = *w
	return nil
}

// --- Vaults ---

// VaultRepo implements ports.VaultRepository.
type VaultRepo struct{ s *Store }

func NewVaultRepo(s *Store) *VaultRepo { return &VaultRepo{s: s} }

func (r *VaultRepo) Create(_ context.Context, tx pgx.Tx, v *domain.YieldVault) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.vaults[v.Currency]; ok {
		return fmt.Errorf("insert vault: %w", ports.ErrDuplicate)
	}
	st.vaults[v.Currency] = *v
	return nil
}

func (r *VaultRepo) GetByCurrency(_ context.Context, currency string) (*domain.YieldVault, error) {
	var out *domain.YieldVault
	r.s.read(func(st *state) {
		if v, ok := st.vaults[currency]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *VaultRepo) GetByCurrencyForUpdate(_ context.Context, tx pgx.Tx, currency string) (*domain.YieldVault, error) {
	st, err := r.s.working(tx)
	if err != nil {
		return nil, err
	}
	v, ok := st.vaults[currency]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *VaultRepo) Update(_ context.Context, tx pgx.Tx, v *domain.YieldVault) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.vaults[v.Currency]; !ok {
		return fmt.Errorf("vault not found: %s", v.Currency)
	}
	st.vaults[v.Currency] = *v
	return nil
}

func (r *VaultRepo) List(_ context.Context) ([]domain.YieldVault, error) {
	var out []domain.YieldVault
	r.s.read(func(st *state) {
		for _, v := range st.vaults {
			out = append(out, v)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

// --- Plans ---

// PlanRepo implements ports.PlanRepository.
type PlanRepo struct{ s *Store }

func NewPlanRepo(s *Store) *PlanRepo { return &PlanRepo{s: s} }

func (r *PlanRepo) Create(_ context.Context, tx pgx.Tx, p *domain.MerchantPlan) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.plans[p.ID]; ok {
		return fmt.Errorf("insert plan: %w", ports.ErrDuplicate)
	}
	st.plans[p.ID] = *p
	return nil
}

func (r *PlanRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.MerchantPlan, error) {
	var out *domain.MerchantPlan
	r.s.read(func(st *state) {
		if p, ok := st.plans[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *PlanRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.MerchantPlan, error) {
	st, err := r.s.working(tx)
	if err != nil {
		return nil, err
	}
	p, ok := st.plans[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PlanRepo) Update(_ context.Context, tx pgx.Tx, p *domain.MerchantPlan) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.plans[p.ID]; !ok {
		return fmt.Errorf("plan not found: %s", p.ID)
	}
	st.plans[p.ID] = *p
	return nil
}

// --- Subscriptions ---

// SubscriptionRepo implements ports.SubscriptionRepository.
type SubscriptionRepo struct{ s *Store }

func NewSubscriptionRepo(s *Store) *SubscriptionRepo { return &SubscriptionRepo{s: s} }

func (r *SubscriptionRepo) Create(_ context.Context, tx pgx.Tx, sub *domain.Subscription) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.subs[sub.ID]; ok {
		return fmt.Errorf("insert subscription: %w", ports.ErrDuplicate)
	}
	st.subs[sub.ID] = *sub
	return nil
}

func (r *SubscriptionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Subscription, error) {
	var out *domain.Subscription
	r.s.read(func(st *state) {
		if sub, ok := st.subs[id]; ok {
			out = &sub
		}
	})
	return out, nil
}

func (r *SubscriptionRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Subscription, error) {
	st, err := r.s.working(tx)
	if err != nil {
		return nil, err
	}
	sub, ok := st.subs[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *SubscriptionRepo) Update(_ context.Context, tx pgx.Tx, sub *domain.Subscription) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.subs[sub.ID]; !ok {
		return fmt.Errorf("subscription not found: %s", sub.ID)
	}
	st.subs[sub.ID] = *sub
	return nil
}

func (r *SubscriptionRepo) Delete(_ context.Context, tx pgx.Tx, id uuid.UUID) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.subs[id]; !ok {
		return fmt.Errorf("subscription not found: %s", id)
	}
	delete(st.subs, id)
	return nil
}

func (r *SubscriptionRepo) ListActiveByWallet(_ context.Context, tx pgx.Tx, walletID uuid.UUID) ([]domain.Subscription, error) {
	st, err := r.s.working(tx)
	if err != nil {
		return nil, err
	}
	var out []domain.Subscription
	for _, sub := range st.subs {
		if sub.Active && sub.WalletID == walletID {
			out = append(out, sub)
		}
	}
	sortSubscriptions(out)
	return out, nil
}

func (r *SubscriptionRepo) ListDue(_ context.Context, now time.Time, after *domain.DueCursor, limit int) ([]domain.Subscription, error) {
	var out []domain.Subscription
	r.s.read(func(st *state) {
		for _, sub := range st.subs {
			if after != nil && !after.Precedes(&sub) {
				continue
			}
			if sub.Active && sub.IsDue(now) {
				out = append(out, sub)
			}
		}
	})
	sortSubscriptions(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortSubscriptions(subs []domain.Subscription) {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].LastPaymentAt.Equal(subs[j].LastPaymentAt) {
			return subs[i].LastPaymentAt.Before(subs[j].LastPaymentAt)
		}
		return subs[i].ID.String() < subs[j].ID.String()
	})
}

// --- Session tokens ---

// SessionTokenRepo implements ports.SessionTokenRepository.
type SessionTokenRepo struct{ s *Store }

func NewSessionTokenRepo(s *Store) *SessionTokenRepo { return &SessionTokenRepo{s: s} }

func (r *SessionTokenRepo) Create(_ context.Context, tx pgx.Tx, rec *domain.SessionTokenRecord) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	if _, ok := st.tokens[rec.Token]; ok {
		return fmt.Errorf("insert session token: %w", ports.ErrDuplicate)
	}
	st.tokens[rec.Token] = *rec
	return nil
}

func (r *SessionTokenRepo) Get(_ context.Context, tx pgx.Tx, token string) (*domain.SessionTokenRecord, error) {
	st, err := r.s.working(tx)
	if err != nil {
		return nil, err
	}
	rec, ok := st.tokens[token]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// --- Balances ---

// BalanceRepo implements ports.BalanceRepository.
type BalanceRepo struct{ s *Store }

func NewBalanceRepo(s *Store) *BalanceRepo { return &BalanceRepo{s: s} }

func (r *BalanceRepo) Get(_ context.Context, account string) (uint64, error) {
	var bal uint64
	r.s.read(func(st *state) { bal = st.balances[account] })
	return bal, nil
}

func (r *BalanceRepo) GetForUpdate(_ context.Context, tx pgx.Tx, account string) (uint64, error) {
	st, err := r.s.working(tx)
	if err != nil {
		return 0, err
	}
	return st.balances[account], nil
}

func (r *BalanceRepo) Credit(_ context.Context, tx pgx.Tx, account string, amount uint64) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	cur := st.balances[account]
	if cur+amount < cur {
		return fmt.Errorf("credit %s: %w", account, ports.ErrAmountOutOfRange)
	}
	st.balances[account] = cur + amount
	return nil
}

func (r *BalanceRepo) Debit(_ context.Context, tx pgx.Tx, account string, amount uint64) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	cur := st.balances[account]
	if cur < amount {
		return fmt.Errorf("debit %s: %w", account, ports.ErrInsufficientBalance)
	}
	st.balances[account] = cur - amount
	return nil
}

// --- Ledger ---

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct{ s *Store }

func NewLedgerRepo(s *Store) *LedgerRepo { return &LedgerRepo{s: s} }

func (r *LedgerRepo) Append(_ context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	st, err := r.s.working(tx)
	if err != nil {
		return err
	}
	st.ledger = append(st.ledger, *entry)
	return nil
}

// ListByAccount returns entries touching account, newest first.
func (r *LedgerRepo) ListByAccount(_ context.Context, account string, limit int) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	r.s.read(func(st *state) {
		for i := len(st.ledger) - 1; i >= 0; i-- {
			if st.ledger[i].Touches(account) {
				out = append(out, st.ledger[i])
				if limit > 0 && len(out) == limit {
					return
				}
			}
		}
	})
	return out, nil
}

// --- Events ---

// EventRepo implements ports.EventRepository.
type EventRepo struct{ s *Store }

func NewEventRepo(s *Store) *EventRepo { return &EventRepo{s: s} }

func (r *EventRepo) Create(_ context.Context, evt *domain.Event) error {
	r.s.eventsMu.Lock()
	defer r.s.eventsMu.Unlock()
	r.s.events = append(r.s.events, *evt)
	return nil
}

// --- Webhooks ---

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct{ s *Store }

func NewWebhookRepo(s *Store) *WebhookRepo { return &WebhookRepo{s: s} }

func (r *WebhookRepo) UpsertEndpoint(_ context.Context, ep *domain.WebhookEndpoint) error {
	r.s.webhooksMu.Lock()
	defer r.s.webhooksMu.Unlock()
	r.s.endpoints[ep.Merchant] = *ep
	return nil
}

func (r *WebhookRepo) GetEndpoint(_ context.Context, merchant string) (*domain.WebhookEndpoint, error) {
	r.s.webhooksMu.Lock()
	defer r.s.webhooksMu.Unlock()
	ep, ok := r.s.endpoints[merchant]
	if !ok {
		return nil, nil
	}
	return &ep, nil
}

func (r *WebhookRepo) CreateDelivery(_ context.Context, d *domain.WebhookDelivery) error {
	r.s.webhooksMu.Lock()
	defer r.s.webhooksMu.Unlock()
	r.s.deliveries = append(r.s.deliveries, *d)
	return nil
}

func (r *WebhookRepo) UpdateDelivery(_ context.Context, d *domain.WebhookDelivery) error {
	r.s.webhooksMu.Lock()
	defer r.s.webhooksMu.Unlock()
	for i := range r.s.deliveries {
		if r.s.deliveries[i].ID == d.ID {
			r.s.deliveries[i] = *d
			return nil
		}
	}
	return fmt.Errorf("webhook delivery not found: %s", d.ID)
}

// ListDeliveries returns the merchant's deliveries, newest first.
func (r *WebhookRepo) ListDeliveries(_ context.Context, merchant string, limit int) ([]domain.WebhookDelivery, error) {
	r.s.webhooksMu.Lock()
	defer r.s.webhooksMu.Unlock()
	var out []domain.WebhookDelivery
	for i := len(r.s.deliveries) - 1; i >= 0; i-- {
		if r.s.deliveries[i].Merchant == merchant {
			out = append(out, r.s.deliveries[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// --- Analytics ---

// AnalyticsRepo implements ports.AnalyticsRepository over committed state.
type AnalyticsRepo struct{ s *Store }

func NewAnalyticsRepo(s *Store) *AnalyticsRepo { return &AnalyticsRepo{s: s} }

func (r *AnalyticsRepo) RevenueByDay(_ context.Context, merchant, currency string, since time.Time) ([]domain.RevenuePoint, error) {
	account := domain.MerchantAccount(merchant, currency)
	byDay := make(map[time.Time]uint64)
	r.s.read(func(st *state) {
		for _, e := range st.ledger {
			if e.Kind != domain.LedgerMerchantPayment || e.ToAccount != account || e.CreatedAt.Before(since) {
				continue
			}
			byDay[domain.UTCDay(e.CreatedAt)] += e.Amount
		}
	})

	out := make([]domain.RevenuePoint, 0, len(byDay))
	for day, revenue := range byDay {
		out = append(out, domain.RevenuePoint{Day: day, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

// ListSubscriptions returns the merchant's subscriptions, newest first.
func (r *AnalyticsRepo) ListSubscriptions(_ context.Context, merchant, currency string) ([]domain.Subscription, error) {
	var out []domain.Subscription
	r.s.read(func(st *state) {
		for _, sub := range st.subs {
			if sub.Merchant == merchant && (currency == "" || sub.Currency == currency) {
				out = append(out, sub)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// ListPlans returns the merchant's plans, oldest first.
func (r *AnalyticsRepo) ListPlans(_ context.Context, merchant, currency string) ([]domain.MerchantPlan, error) {
	var out []domain.MerchantPlan
	r.s.read(func(st *state) {
		for _, p := range st.plans {
			if p.Merchant == merchant && (currency == "" || p.Currency == currency) {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].PlanID < out[j].PlanID
	})
	return out, nil
}

// SubscriptionChanges scans the stored event log, oldest first.
func (r *AnalyticsRepo) SubscriptionChanges(_ context.Context, merchant, currency string, since time.Time) ([]domain.SubscriptionChange, error) {
	r.s.eventsMu.Lock()
	defer r.s.eventsMu.Unlock()

	var out []domain.SubscriptionChange
	for _, evt := range r.s.events {
		if evt.Type != domain.EventSubscriptionCreated && evt.Type != domain.EventSubscriptionCancelled {
			continue
		}
		if evt.OccurredAt.Before(since) {
			continue
		}
		var scope struct {
			Merchant string `json:"merchant"`
			Currency string `json:"currency"`
		}
		if err := json.Unmarshal(evt.Data, &scope); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", evt.ID, err)
		}
		if scope.Merchant == merchant && scope.Currency == currency {
			out = append(out, domain.SubscriptionChange{Type: evt.Type, OccurredAt: evt.OccurredAt})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
