package venue

import (
	"context"
	"fmt"
	"net/url"

	"subscription-ledger/internal/core/vaultmath"
)

// ExchangePricePrecision is the fixed scale of the published exchange price.
const ExchangePricePrecision uint64 = 1_000_000_000

// ExchangePrice prices position tokens with a direct per-unit price:
// value = tokens * exchangePrice / ExchangePricePrecision.
type ExchangePrice struct {
	c      *client
	market string
}

type priceState struct {
	ExchangePrice uint64 `json:"exchange_price"`
}

// NewExchangePrice creates a venue bound to one lending market.
func NewExchangePrice(baseURL, market, apiKey string, httpClient HTTPClient) *ExchangePrice {
	return &ExchangePrice{c: newClient(baseURL, apiKey, httpClient), market: market}
}

func (v *ExchangePrice) Name() string { return KindExchangePrice }

func (v *ExchangePrice) path(suffix string) string {
	return "/markets/" + url.PathEscape(v.market) + suffix
}

func (v *ExchangePrice) price(ctx context.Context) (uint64, error) {
	var st priceState
	if err := v.c.get(ctx, v.path("/price"), &st); err != nil {
		return 0, err
	}
	if st.ExchangePrice == 0 {
		return 0, fmt.Errorf("market %s published a zero exchange price", v.market)
	}
	return st.ExchangePrice, nil
}

func (v *ExchangePrice) Value(ctx context.Context, tokens uint64) (uint64, error) {
	if tokens == 0 {
		return 0, nil
	}
	p, err := v.price(ctx)
	if err != nil {
		return 0, err
	}
	return vaultmath.MulDiv(tokens, p, ExchangePricePrecision)
}

// PositionFor returns the tokens to burn for underlying, rounded up.
func (v *ExchangePrice) PositionFor(ctx context.Context, underlying uint64) (uint64, error) {
	if underlying == 0 {
		return 0, nil
	}
	p, err := v.price(ctx)
	if err != nil {
		return 0, err
	}
	return vaultmath.MulDivUp(underlying, ExchangePricePrecision, p)
}

func (v *ExchangePrice) Supply(ctx context.Context, underlying uint64) (uint64, error) {
	var out supplyResponse
	if err := v.c.post(ctx, v.path("/supply"), supplyRequest{Amount: underlying}, &out); err != nil {
		return 0, err
	}
	return out.Minted, nil
}

func (v *ExchangePrice) Redeem(ctx context.Context, tokens uint64) (uint64, error) {
	var out redeemResponse
	if err := v.c.post(ctx, v.path("/redeem"), redeemRequest{Tokens: tokens}, &out); err != nil {
		return 0, err
	}
	return out.Received, nil
}
