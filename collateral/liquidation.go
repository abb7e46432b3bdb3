package collateral

import (
	"context"
	"fmt"

	"code.ballastprotocol.io/ballast/events"
	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/metrics"
	"code.ballastprotocol.io/ballast/types/num"
)

// Liquidate lets the liquidator forcibly close part of an unhealthy party's
// position: debtToCover worth of the party's debt is repaid with the
// liquidator's own debt tokens, in exchange for the USD-equivalent collateral
// plus the liquidation bounty. The operation only goes through when it
// strictly improves the target's health factor.
func (e *Engine) Liquidate(ctx context.Context, liquidator, asset, party string, debtToCover *num.Uint) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()
	defer metrics.EngineTimeCounterAdd("collateral", "Liquidate")()

	rb := newRollback(e.log)
	err := e.liquidate(ctx, rb, liquidator, asset, party, debtToCover)
	if err != nil {
		err = rb.unwind(err)
	} else {
		metrics.LiquidationCounterInc(asset)
	}
	metrics.OpCounterInc("liquidate", outcome(err))
	return err
}

func (e *Engine) liquidate(ctx context.Context, rb *rollback, liquidator, asset, party string, debtToCover *num.Uint) error {
	ledger, err := e.validateAmountAsset(asset, debtToCover)
	if err != nil {
		e.log.Debug("cannot liquidate",
			logging.String("liquidator", liquidator),
			logging.String("party", party),
			logging.String("asset", asset),
			logging.Error(err),
		)
		return err
	}

	acc := e.account(party)
	startHF, err := e.healthFactor(ctx, acc)
	if err != nil {
		return err
	}
	if startHF.GTE(minHealthFactor) {
		return ErrHealthFactorOk
	}

	// the collateral equivalent of the covered debt, plus the bounty
	seizedBase, err := e.tokenAmountFromUSD(ctx, asset, debtToCover)
	if err != nil {
		return err
	}
	bonus, overflowed := num.Zero().MulOverflow(seizedBase, num.NewUint(liquidationBonus))
	if overflowed {
		return ErrArithmeticOverflow
	}
	bonus.Div(bonus, num.NewUint(percentage))
	totalSeized, overflowed := num.Zero().AddOverflow(seizedBase, bonus)
	if overflowed {
		return ErrArithmeticOverflow
	}

	// evaluate the prospective post-liquidation state before anything moves;
	// a party too far gone to hold totalSeized of the asset cannot be
	// liquidated through this path at all
	scratch := acc.clone()
	if err := scratch.subCollateral(asset, totalSeized); err != nil {
		return err
	}
	if err := scratch.subDebt(debtToCover); err != nil {
		return err
	}
	prospective, err := e.healthFactor(ctx, scratch)
	if err != nil {
		return err
	}
	if !prospective.GT(startHF) {
		return ErrHealthFactorNotImproved
	}

	// seize: books first, then the event, then the transfer out of custody
	if err := acc.subCollateral(asset, totalSeized); err != nil {
		return err
	}
	rb.add("restore seized collateral", func() error {
		return acc.addCollateral(asset, totalSeized)
	})

	e.broker.Send(events.NewCollateralRedeemed(ctx, party, liquidator, asset, totalSeized))

	ok, err := ledger.Transfer(ctx, liquidator, totalSeized)
	if err != nil || !ok {
		return transferFailed(err)
	}
	rb.add("reclaim seized collateral", func() error {
		return mustTransfer(ledger.TransferFrom(ctx, liquidator, e.custodian, totalSeized))
	})

	// cover: the liquidator's own debt tokens repay the party's debt
	if err := acc.subDebt(debtToCover); err != nil {
		return err
	}
	rb.add("restore covered debt", func() error {
		return acc.addDebt(debtToCover)
	})

	ok, err = e.debt.TransferFrom(ctx, liquidator, e.custodian, debtToCover)
	if err != nil || !ok {
		return transferFailed(err)
	}
	rb.add("return pulled debt tokens", func() error {
		return mustTransfer(e.debt.TransferFrom(ctx, e.custodian, liquidator, debtToCover))
	})

	if err := e.debt.Burn(ctx, debtToCover); err != nil {
		return fmt.Errorf("could not burn debt unit: %w", err)
	}
	rb.add("re-mint burned debt", func() error {
		return mustTransfer(e.debt.Mint(ctx, e.custodian, debtToCover))
	})

	// final verdict on fresh prices
	endHF, err := e.healthFactor(ctx, acc)
	if err != nil {
		return err
	}
	if !endHF.GT(startHF) {
		return ErrHealthFactorNotImproved
	}
	// a liquidator with a broken position of their own cannot liquidate
	if err := e.checkHealthFactor(ctx, e.peek(liquidator)); err != nil {
		return err
	}

	if e.log.IsDebug() {
		e.log.Debug("position liquidated",
			logging.String("liquidator", liquidator),
			logging.String("party", party),
			logging.String("asset", asset),
			logging.BigUint("debt-covered", debtToCover),
			logging.BigUint("collateral-seized", totalSeized),
			logging.BigUint("health-factor-before", startHF),
			logging.BigUint("health-factor-after", endHF),
		)
	}
	return nil
}
