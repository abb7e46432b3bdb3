package events

import (
	"context"

	"code.ballastprotocol.io/ballast/types/num"
)

// CollateralRedeemed is emitted when collateral leaves a party's
// balance, either back to the owner on a withdrawal or to the
// liquidator on a seizure. It fires at the point of internal debit,
// before the tokens move.
type CollateralRedeemed struct {
	*Base
	from   string
	to     string
	asset  string
	amount *num.Uint
}

func NewCollateralRedeemed(ctx context.Context, from, to, asset string, amount *num.Uint) *CollateralRedeemed {
	return &CollateralRedeemed{
		Base:   newBase(ctx, CollateralRedeemedEvent),
		from:   from,
		to:     to,
		asset:  asset,
		amount: amount.Clone(),
	}
}

func (c CollateralRedeemed) From() string {
	return c.from
}

func (c CollateralRedeemed) To() string {
	return c.to
}

func (c CollateralRedeemed) Asset() string {
	return c.asset
}

func (c CollateralRedeemed) Amount() *num.Uint {
	return c.amount.Clone()
}

// IsSeizure returns true when the collateral moved to a party other
// than its owner.
func (c CollateralRedeemed) IsSeizure() bool {
	return c.from != c.to
}

func (c CollateralRedeemed) IsParty(id string) bool {
	return c.from == id || c.to == id
}
