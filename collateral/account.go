package collateral

import (
	"fmt"

	"code.ballastprotocol.io/ballast/metrics"
	"code.ballastprotocol.io/ballast/types"
	"code.ballastprotocol.io/ballast/types/num"
)

// account is the internal position of a single party: what they deposited per
// asset and how much of the debt unit they minted. All mutations go through
// the checked helpers so balances can neither wrap nor go negative.
type account struct {
	party      string
	collateral map[string]*num.Uint
	debt       *num.Uint
}

func newAccount(party string) *account {
	return &account{
		party:      party,
		collateral: map[string]*num.Uint{},
		debt:       num.Zero(),
	}
}

// balance returns the collateral balance for asset, zero when the party never
// deposited any. The returned value is not shared with the account.
func (a *account) balance(asset string) *num.Uint {
	if b, ok := a.collateral[asset]; ok {
		return b.Clone()
	}
	return num.Zero()
}

func (a *account) addCollateral(asset string, amount *num.Uint) error {
	cur, ok := a.collateral[asset]
	if !ok {
		cur = num.Zero()
	}
	next, overflowed := num.Zero().AddOverflow(cur, amount)
	if overflowed {
		return ErrArithmeticOverflow
	}
	a.collateral[asset] = next
	return nil
}

func (a *account) subCollateral(asset string, amount *num.Uint) error {
	cur, ok := a.collateral[asset]
	if !ok || cur.LT(amount) {
		return ErrInsufficientBalance
	}
	a.collateral[asset] = num.Zero().Sub(cur, amount)
	return nil
}

func (a *account) addDebt(amount *num.Uint) error {
	next, overflowed := num.Zero().AddOverflow(a.debt, amount)
	if overflowed {
		return ErrArithmeticOverflow
	}
	a.debt = next
	return nil
}

func (a *account) subDebt(amount *num.Uint) error {
	if a.debt.LT(amount) {
		return ErrInsufficientBalance
	}
	a.debt = num.Zero().Sub(a.debt, amount)
	return nil
}

// clone deep-copies the account, used for prospective solvency evaluation.
func (a *account) clone() *account {
	cpy := &account{
		party:      a.party,
		collateral: make(map[string]*num.Uint, len(a.collateral)),
		debt:       a.debt.Clone(),
	}
	for asset, balance := range a.collateral {
		cpy.collateral[asset] = balance.Clone()
	}
	return cpy
}

// snapshot exports the account as a shared domain type, deep-copied.
func (a *account) snapshot() *types.Account {
	out := &types.Account{
		Party:      a.party,
		Debt:       a.debt.Clone(),
		Collateral: make(map[string]*num.Uint, len(a.collateral)),
	}
	for asset, balance := range a.collateral {
		if balance.IsZero() {
			continue
		}
		out.Collateral[asset] = balance.Clone()
	}
	return out
}

// account returns the stored account for the party, creating it on first use.
// Only the mutating paths call this.
func (e *Engine) account(party string) *account {
	acc, ok := e.accounts[party]
	if !ok {
		acc = newAccount(party)
		e.accounts[party] = acc
		metrics.AccountGaugeSet(len(e.accounts))
	}
	return acc
}

// peek returns the party's account without creating one, so read paths do not
// grow the store.
func (e *Engine) peek(party string) *account {
	if acc, ok := e.accounts[party]; ok {
		return acc
	}
	return newAccount(party)
}

// GetAccount returns a snapshot of the party's full position. Unknown parties
// get an empty account.
func (e *Engine) GetAccount(party string) *types.Account {
	return e.peek(party).snapshot()
}

// GetCollateralBalance returns how much of the asset the party has deposited.
func (e *Engine) GetCollateralBalance(party, asset string) (*num.Uint, error) {
	if _, ok := e.feeds[asset]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAsset, asset)
	}
	return e.peek(party).balance(asset), nil
}

// GetDebt returns the party's minted debt balance.
func (e *Engine) GetDebt(party string) *num.Uint {
	return e.peek(party).debt.Clone()
}
