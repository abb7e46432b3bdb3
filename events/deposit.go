package events

import (
	"context"

	"code.ballastprotocol.io/ballast/types/num"
)

// CollateralDeposited is emitted when a party's collateral balance
// has been credited, before the backing tokens move.
type CollateralDeposited struct {
	*Base
	party  string
	asset  string
	amount *num.Uint
}

func NewCollateralDeposited(ctx context.Context, party, asset string, amount *num.Uint) *CollateralDeposited {
	return &CollateralDeposited{
		Base:   newBase(ctx, CollateralDepositedEvent),
		party:  party,
		asset:  asset,
		amount: amount.Clone(),
	}
}

func (c CollateralDeposited) Party() string {
	return c.party
}

func (c CollateralDeposited) Asset() string {
	return c.asset
}

func (c CollateralDeposited) Amount() *num.Uint {
	return c.amount.Clone()
}

func (c CollateralDeposited) IsParty(id string) bool {
	return c.party == id
}
