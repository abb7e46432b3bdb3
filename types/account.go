package types

import (
	"fmt"

	"code.ballastprotocol.io/ballast/types/num"
)

// Account is the externally visible snapshot of a party's position:
// deposited collateral per asset plus the minted debt balance. Snapshots are
// deep copies, mutating one never touches the engine's books.
type Account struct {
	Party      string
	Debt       *num.Uint
	Collateral map[string]*num.Uint
}

func (a *Account) String() string {
	return fmt.Sprintf("account{party: %s, debt: %s, collateral: %v}", a.Party, a.Debt, a.Collateral)
}

// Clone deep-copies the account.
func (a *Account) Clone() *Account {
	cpy := &Account{
		Party:      a.Party,
		Debt:       a.Debt.Clone(),
		Collateral: make(map[string]*num.Uint, len(a.Collateral)),
	}
	for asset, balance := range a.Collateral {
		cpy.Collateral[asset] = balance.Clone()
	}
	return cpy
}
