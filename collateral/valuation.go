package collateral

import (
	"context"
	"fmt"

	"code.ballastprotocol.io/ballast/types/num"
)

// pow10 returns 10^decimals with overflow detection, for rescaling between
// feed decimals and raw token amounts.
func pow10(decimals uint8) (*num.Uint, bool) {
	ten := num.NewUint(10)
	out := num.NewUint(1)
	for i := uint8(0); i < decimals; i++ {
		if _, overflowed := out.MulOverflow(out, ten); overflowed {
			return nil, true
		}
	}
	return out, false
}

// usdValue prices amount raw units of the asset at the feed's latest price:
// price * amount / 10^feedDecimals, truncating toward zero.
func (e *Engine) usdValue(ctx context.Context, asset string, amount *num.Uint) (*num.Uint, error) {
	feedID, ok := e.feeds[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAsset, asset)
	}
	price, decimals, err := e.oracle.GetPrice(ctx, feedID)
	if err != nil {
		return nil, err
	}
	scale, overflowed := pow10(decimals)
	if overflowed {
		return nil, ErrArithmeticOverflow
	}
	value, overflowed := num.Zero().MulOverflow(price, amount)
	if overflowed {
		return nil, ErrArithmeticOverflow
	}
	return value.Div(value, scale), nil
}

// tokenAmountFromUSD converts a USD value into raw asset units at the feed's
// latest price: usd * 10^feedDecimals / price, truncating toward zero.
func (e *Engine) tokenAmountFromUSD(ctx context.Context, asset string, usd *num.Uint) (*num.Uint, error) {
	feedID, ok := e.feeds[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAsset, asset)
	}
	price, decimals, err := e.oracle.GetPrice(ctx, feedID)
	if err != nil {
		return nil, err
	}
	scale, overflowed := pow10(decimals)
	if overflowed {
		return nil, ErrArithmeticOverflow
	}
	amount, overflowed := num.Zero().MulOverflow(usd, scale)
	if overflowed {
		return nil, ErrArithmeticOverflow
	}
	// the adapter guarantees a strictly positive price
	return amount.Div(amount, price), nil
}

// collateralValue sums the USD value of every registered asset, in registry
// order. Assets the account does not hold are priced on a zero balance, so
// every evaluation demands a live quote for the whole registry.
func (e *Engine) collateralValue(ctx context.Context, acc *account) (*num.Uint, error) {
	total := num.Zero()
	for _, entry := range e.registry {
		balance, ok := acc.collateral[entry.ID]
		if !ok {
			balance = num.Zero()
		}
		value, err := e.usdValue(ctx, entry.ID, balance)
		if err != nil {
			return nil, err
		}
		if _, overflowed := total.AddOverflow(total, value); overflowed {
			return nil, ErrArithmeticOverflow
		}
	}
	return total, nil
}

// healthFactor evaluates the account's solvency on fresh prices. The quotes
// come first: even a debt-free account reads as maximally healthy only once
// every feed has answered.
func (e *Engine) healthFactor(ctx context.Context, acc *account) (*num.Uint, error) {
	value, err := e.collateralValue(ctx, acc)
	if err != nil {
		return nil, err
	}
	return CalculateHealthFactor(acc.debt, value)
}

// checkHealthFactor fails with the computed value when the account sits
// below the minimum.
func (e *Engine) checkHealthFactor(ctx context.Context, acc *account) error {
	hf, err := e.healthFactor(ctx, acc)
	if err != nil {
		return err
	}
	if hf.LT(minHealthFactor) {
		return &BreachedHealthFactorError{Value: hf}
	}
	return nil
}

// CalculateHealthFactor is the pure solvency metric:
// collateralUSD * threshold% scaled to precision, divided by the debt.
// Division truncates, so an unsafe position can never round up to safe.
// A zero debt yields the maximum representable factor.
func CalculateHealthFactor(debt, collateralUSD *num.Uint) (*num.Uint, error) {
	if debt == nil || debt.IsZero() {
		return num.MaxUint(), nil
	}
	if collateralUSD == nil {
		collateralUSD = num.Zero()
	}
	adjusted, overflowed := num.Zero().MulOverflow(collateralUSD, num.NewUint(liquidationThreshold))
	if overflowed {
		return nil, ErrArithmeticOverflow
	}
	adjusted.Div(adjusted, num.NewUint(percentage))
	hf, overflowed := num.Zero().MulOverflow(adjusted, precision)
	if overflowed {
		return nil, ErrArithmeticOverflow
	}
	return hf.Div(hf, debt), nil
}

// GetUSDValue prices amount raw units of the asset at the current feed price.
func (e *Engine) GetUSDValue(ctx context.Context, asset string, amount *num.Uint) (*num.Uint, error) {
	if amount == nil {
		return nil, ErrInvalidAmount
	}
	return e.usdValue(ctx, asset, amount)
}

// GetTokenAmountFromUSD converts a USD value into raw asset units at the
// current feed price, truncating.
func (e *Engine) GetTokenAmountFromUSD(ctx context.Context, asset string, usd *num.Uint) (*num.Uint, error) {
	if usd == nil {
		return nil, ErrInvalidAmount
	}
	return e.tokenAmountFromUSD(ctx, asset, usd)
}

// GetAccountCollateralValue sums the USD value of all the party's deposited
// collateral.
func (e *Engine) GetAccountCollateralValue(ctx context.Context, party string) (*num.Uint, error) {
	return e.collateralValue(ctx, e.peek(party))
}

// GetAccountInformation returns the party's minted debt and total collateral
// value in one call.
func (e *Engine) GetAccountInformation(ctx context.Context, party string) (debt, collateralUSD *num.Uint, err error) {
	acc := e.peek(party)
	collateralUSD, err = e.collateralValue(ctx, acc)
	if err != nil {
		return nil, nil, err
	}
	return acc.debt.Clone(), collateralUSD, nil
}

// GetHealthFactor returns the party's current health factor on fresh prices.
func (e *Engine) GetHealthFactor(ctx context.Context, party string) (*num.Uint, error) {
	return e.healthFactor(ctx, e.peek(party))
}
