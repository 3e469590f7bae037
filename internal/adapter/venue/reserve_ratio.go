package venue

import (
	"context"
	"fmt"
	"net/url"

	"subscription-ledger/internal/core/vaultmath"
)

// ReserveRatio prices collateral tokens against a lending reserve:
// value = collateral * totalLiquidity / totalCollateralSupply.
type ReserveRatio struct {
	c       *client
	reserve string
}

type reserveState struct {
	TotalLiquidity        uint64 `json:"total_liquidity"`
	TotalCollateralSupply uint64 `json:"total_collateral_supply"`
}

type supplyRequest struct {
	Amount uint64 `json:"amount"`
}

type supplyResponse struct {
	Minted uint64 `json:"minted"`
}

type redeemRequest struct {
	Tokens uint64 `json:"tokens"`
}

type redeemResponse struct {
	Received uint64 `json:"received"`
}

// NewReserveRatio creates a venue bound to one reserve.
func NewReserveRatio(baseURL, reserve, apiKey string, httpClient HTTPClient) *ReserveRatio {
	return &ReserveRatio{c: newClient(baseURL, apiKey, httpClient), reserve: reserve}
}

func (v *ReserveRatio) Name() string { return KindReserveRatio }

func (v *ReserveRatio) path(suffix string) string {
	return "/reserves/" + url.PathEscape(v.reserve) + suffix
}

func (v *ReserveRatio) state(ctx context.Context) (*reserveState, error) {
	var st reserveState
	if err := v.c.get(ctx, v.path(""), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Value converts collateral into underlying. An empty reserve values everything at zero.
func (v *ReserveRatio) Value(ctx context.Context, collateral uint64) (uint64, error) {
	if collateral == 0 {
		return 0, nil
	}
	st, err := v.state(ctx)
	if err != nil {
		return 0, err
	}
	if st.TotalCollateralSupply == 0 {
		return 0, nil
	}
	return vaultmath.MulDiv(collateral, st.TotalLiquidity, st.TotalCollateralSupply)
}

// PositionFor returns the collateral to burn for underlying, rounded up.
func (v *ReserveRatio) PositionFor(ctx context.Context, underlying uint64) (uint64, error) {
	if underlying == 0 {
		return 0, nil
	}
	st, err := v.state(ctx)
	if err != nil {
		return 0, err
	}
	if st.TotalLiquidity == 0 {
		return 0, fmt.Errorf("reserve %s has no liquidity", v.reserve)
	}
	return vaultmath.MulDivUp(underlying, st.TotalCollateralSupply, st.TotalLiquidity)
}

func (v *ReserveRatio) Supply(ctx context.Context, underlying uint64) (uint64, error) {
	var out supplyResponse
	if err := v.c.post(ctx, v.path("/supply"), supplyRequest{Amount: underlying}, &out); err != nil {
		return 0, err
	}
	return out.Minted, nil
}

func (v *ReserveRatio) Redeem(ctx context.Context, collateral uint64) (uint64, error) {
	var out redeemResponse
	if err := v.c.post(ctx, v.path("/redeem"), redeemRequest{Tokens: collateral}, &out); err != nil {
		return 0, err
	}
	return out.Received, nil
}
