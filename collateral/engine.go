package collateral

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"code.ballastprotocol.io/ballast/events"
	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/metrics"
	"code.ballastprotocol.io/ballast/types"
	"code.ballastprotocol.io/ballast/types/num"
)

var (
	// ErrInvalidAmount is returned when an operation amount is nil or zero.
	ErrInvalidAmount = errors.New("amount must be strictly positive")
	// ErrInvalidAsset is returned for assets missing from the registry.
	ErrInvalidAsset = errors.New("asset is not registered as collateral")
	// ErrInsufficientBalance is returned when a decrement exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransferFailed is returned when an external ledger refuses or fails a transfer.
	ErrTransferFailed = errors.New("external transfer failed")
	// ErrMintFailed is returned when the debt ledger refuses or fails a mint.
	ErrMintFailed = errors.New("external mint failed")
	// ErrBreachedHealthFactor is returned when an operation would leave an
	// account below the minimum health factor.
	ErrBreachedHealthFactor = errors.New("health factor below minimum")
	// ErrHealthFactorOk is returned when liquidating an account that is not liquidatable.
	ErrHealthFactorOk = errors.New("health factor above minimum, nothing to liquidate")
	// ErrHealthFactorNotImproved is returned when a liquidation would not
	// strictly improve the target's health factor.
	ErrHealthFactorNotImproved = errors.New("liquidation does not improve the health factor")
	// ErrArithmeticOverflow is returned when a checked 256-bit operation overflows.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrReentrantCall is returned when external ledger code calls back into
	// the engine while an operation is in flight.
	ErrReentrantCall = errors.New("reentrant call into the collateral engine")
	// ErrAssetFeedMismatch is returned at construction when the asset and
	// feed lists differ in length.
	ErrAssetFeedMismatch = errors.New("assets and feeds lists differ in length")
	// ErrDuplicateAsset is returned at construction on repeated asset IDs.
	ErrDuplicateAsset = errors.New("duplicate asset in registry")
	// ErrEmptyAssetID is returned at construction on empty asset or feed IDs.
	ErrEmptyAssetID = errors.New("asset and feed identifiers cannot be empty")
	// ErrMissingAssetLedger is returned at construction when a registered
	// asset has no ledger capability.
	ErrMissingAssetLedger = errors.New("no ledger capability for asset")
)

// BreachedHealthFactorError carries the computed health factor that failed
// the minimum check. It unwraps to ErrBreachedHealthFactor.
type BreachedHealthFactorError struct {
	Value *num.Uint
}

func (e *BreachedHealthFactorError) Error() string {
	return fmt.Sprintf("health factor below minimum: %s", e.Value)
}

func (e *BreachedHealthFactorError) Unwrap() error {
	return ErrBreachedHealthFactor
}

// Protocol ratios. These are fixed properties of the system, not configuration.
const (
	// liquidationThreshold is the percentage of collateral value counted
	// toward solvency, the inverse of the 200% overcollateralization demand.
	liquidationThreshold uint64 = 50
	// liquidationBonus is the percentage bounty a liquidator receives on top
	// of the seized collateral.
	liquidationBonus uint64 = 10
	percentage       uint64 = 100
)

var (
	// precision is the fixed-point scale of health factors, matching the
	// debt unit's 18 decimals.
	precision = num.NewUint(1000000000000000000)
	// minHealthFactor marks the boundary between safe and liquidatable.
	minHealthFactor = num.NewUint(1000000000000000000)
)

// Oracle hands out prices already checked for staleness and validity.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/oracle_mock.go -package mocks code.ballastprotocol.io/ballast/collateral Oracle
type Oracle interface {
	GetPrice(ctx context.Context, feedID string) (*num.Uint, uint8, error)
}

// DebtLedger is the engine's narrow view of the external debt-unit token:
// minting to an owner, burning from the custodian's holdings, and pulling
// previously approved tokens.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/debt_ledger_mock.go -package mocks code.ballastprotocol.io/ballast/collateral DebtLedger
type DebtLedger interface {
	Mint(ctx context.Context, owner string, amount *num.Uint) (bool, error)
	Burn(ctx context.Context, amount *num.Uint) error
	TransferFrom(ctx context.Context, from, to string, amount *num.Uint) (bool, error)
}

// AssetLedger is the engine's narrow view of one collateral token ledger.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/asset_ledger_mock.go -package mocks code.ballastprotocol.io/ballast/collateral AssetLedger
type AssetLedger interface {
	Transfer(ctx context.Context, to string, amount *num.Uint) (bool, error)
	TransferFrom(ctx context.Context, from, to string, amount *num.Uint) (bool, error)
}

// Broker send events to all the subscribers.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.ballastprotocol.io/ballast/collateral Broker
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// Engine is the position ledger: it tracks every party's deposited
// collateral and minted debt, gates every mutation on the health factor,
// and executes liquidations. External tokens are held by the custodian
// account on the external ledgers; the engine's books mirror who owns what.
type Engine struct {
	log *logging.Logger
	cfg Config

	broker Broker
	oracle Oracle
	debt   DebtLedger

	custodian string

	registry []types.Asset
	feeds    map[string]string
	ledgers  map[string]AssetLedger

	accounts map[string]*account

	inFlight atomic.Bool
}

// New instantiates the collateral engine. The assets and feeds lists are
// parallel: assets[i] is valued against feeds[i]. The registry they form is
// validated before any state is created and is immutable afterwards.
func New(log *logging.Logger, cfg Config, broker Broker, oracle Oracle, debt DebtLedger,
	custodian string, assets, feeds []string, ledgers map[string]AssetLedger,
) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	if len(assets) != len(feeds) {
		return nil, ErrAssetFeedMismatch
	}

	registry := make([]types.Asset, 0, len(assets))
	feedsByAsset := make(map[string]string, len(assets))
	ledgersByAsset := make(map[string]AssetLedger, len(assets))
	for i, asset := range assets {
		if len(asset) == 0 || len(feeds[i]) == 0 {
			return nil, ErrEmptyAssetID
		}
		if _, ok := feedsByAsset[asset]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAsset, asset)
		}
		ledger, ok := ledgers[asset]
		if !ok || ledger == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingAssetLedger, asset)
		}
		registry = append(registry, types.Asset{ID: asset, FeedID: feeds[i]})
		feedsByAsset[asset] = feeds[i]
		ledgersByAsset[asset] = ledger
	}

	return &Engine{
		log:       log,
		cfg:       cfg,
		broker:    broker,
		oracle:    oracle,
		debt:      debt,
		custodian: custodian,
		registry:  registry,
		feeds:     feedsByAsset,
		ledgers:   ledgersByAsset,
		accounts:  map[string]*account{},
	}, nil
}

// ReloadConf updates the internal configuration of the collateral engine.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.cfg = cfg
}

// begin acquires the in-flight flag, failing on reentry. Untrusted ledger
// code runs inside operations and may try to call back into the engine.
func (e *Engine) begin() error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

func (e *Engine) end() {
	e.inFlight.Store(false)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// DepositCollateral credits the party with amount of the asset and pulls the
// tokens from the party into custody. The books are updated before the pull;
// any failure afterwards unwinds both.
func (e *Engine) DepositCollateral(ctx context.Context, party, asset string, amount *num.Uint) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()
	defer metrics.EngineTimeCounterAdd("collateral", "DepositCollateral")()

	rb := newRollback(e.log)
	err := e.depositCollateral(ctx, rb, party, asset, amount)
	if err != nil {
		err = rb.unwind(err)
	}
	metrics.OpCounterInc("deposit", outcome(err))
	return err
}

func (e *Engine) depositCollateral(ctx context.Context, rb *rollback, party, asset string, amount *num.Uint) error {
	ledger, err := e.validateAmountAsset(asset, amount)
	if err != nil {
		e.log.Debug("cannot deposit collateral",
			logging.String("party", party),
			logging.String("asset", asset),
			logging.Error(err),
		)
		return err
	}

	acc := e.account(party)
	if err := acc.addCollateral(asset, amount); err != nil {
		return err
	}
	rb.add("restore collateral balance", func() error {
		return acc.subCollateral(asset, amount)
	})

	e.broker.Send(events.NewCollateralDeposited(ctx, party, asset, amount))

	ok, err := ledger.TransferFrom(ctx, party, e.custodian, amount)
	if err != nil || !ok {
		return transferFailed(err)
	}
	rb.add("return pulled collateral", func() error {
		return mustTransfer(ledger.Transfer(ctx, party, amount))
	})

	if err := e.checkHealthFactor(ctx, acc); err != nil {
		return err
	}

	if e.log.IsDebug() {
		e.log.Debug("collateral deposited",
			logging.String("party", party),
			logging.String("asset", asset),
			logging.BigUint("amount", amount),
		)
	}
	return nil
}

// MintDebt issues amount of the debt unit to the party. The debt is booked
// and the health factor checked before the external mint, so an unhealthy
// mint never reaches the debt ledger.
func (e *Engine) MintDebt(ctx context.Context, party string, amount *num.Uint) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()
	defer metrics.EngineTimeCounterAdd("collateral", "MintDebt")()

	rb := newRollback(e.log)
	err := e.mintDebt(ctx, rb, party, amount)
	if err != nil {
		err = rb.unwind(err)
	}
	metrics.OpCounterInc("mint", outcome(err))
	return err
}

func (e *Engine) mintDebt(ctx context.Context, rb *rollback, party string, amount *num.Uint) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}

	acc := e.account(party)
	if err := acc.addDebt(amount); err != nil {
		return err
	}
	rb.add("restore debt balance", func() error {
		return acc.subDebt(amount)
	})

	if err := e.checkHealthFactor(ctx, acc); err != nil {
		e.log.Debug("mint would break the health factor",
			logging.String("party", party),
			logging.BigUint("amount", amount),
			logging.Error(err),
		)
		return err
	}

	ok, err := e.debt.Mint(ctx, party, amount)
	if err != nil || !ok {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMintFailed, err)
		}
		return ErrMintFailed
	}

	if e.log.IsDebug() {
		e.log.Debug("debt minted",
			logging.String("party", party),
			logging.BigUint("amount", amount),
		)
	}
	return nil
}

// WithdrawCollateral debits the party's collateral and sends the tokens from
// custody back to the party. The prospective state is solvency-checked before
// any tokens move, and re-checked on fresh prices afterwards.
func (e *Engine) WithdrawCollateral(ctx context.Context, party, asset string, amount *num.Uint) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()
	defer metrics.EngineTimeCounterAdd("collateral", "WithdrawCollateral")()

	rb := newRollback(e.log)
	err := e.withdrawCollateral(ctx, rb, party, asset, amount)
	if err != nil {
		err = rb.unwind(err)
	}
	metrics.OpCounterInc("withdraw", outcome(err))
	return err
}

func (e *Engine) withdrawCollateral(ctx context.Context, rb *rollback, party, asset string, amount *num.Uint) error {
	ledger, err := e.validateAmountAsset(asset, amount)
	if err != nil {
		e.log.Debug("cannot withdraw collateral",
			logging.String("party", party),
			logging.String("asset", asset),
			logging.Error(err),
		)
		return err
	}

	acc := e.account(party)
	if err := acc.subCollateral(asset, amount); err != nil {
		return err
	}
	rb.add("restore collateral balance", func() error {
		return acc.addCollateral(asset, amount)
	})

	e.broker.Send(events.NewCollateralRedeemed(ctx, party, party, asset, amount))

	// don't move tokens we would only have to claw back
	if err := e.checkHealthFactor(ctx, acc); err != nil {
		return err
	}

	ok, err := ledger.Transfer(ctx, party, amount)
	if err != nil || !ok {
		return transferFailed(err)
	}
	rb.add("reclaim withdrawn collateral", func() error {
		return mustTransfer(ledger.TransferFrom(ctx, party, e.custodian, amount))
	})

	if err := e.checkHealthFactor(ctx, acc); err != nil {
		return err
	}

	if e.log.IsDebug() {
		e.log.Debug("collateral withdrawn",
			logging.String("party", party),
			logging.String("asset", asset),
			logging.BigUint("amount", amount),
		)
	}
	return nil
}

// BurnDebt retires amount of the party's debt: the tokens are pulled from
// the party into custody and destroyed, and the books updated first.
func (e *Engine) BurnDebt(ctx context.Context, party string, amount *num.Uint) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()
	defer metrics.EngineTimeCounterAdd("collateral", "BurnDebt")()

	rb := newRollback(e.log)
	err := e.burnDebt(ctx, rb, party, amount)
	if err != nil {
		err = rb.unwind(err)
	}
	metrics.OpCounterInc("burn", outcome(err))
	return err
}

func (e *Engine) burnDebt(ctx context.Context, rb *rollback, party string, amount *num.Uint) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}

	acc := e.account(party)
	if err := acc.subDebt(amount); err != nil {
		return err
	}
	rb.add("restore debt balance", func() error {
		return acc.addDebt(amount)
	})

	ok, err := e.debt.TransferFrom(ctx, party, e.custodian, amount)
	if err != nil || !ok {
		return transferFailed(err)
	}
	rb.add("return pulled debt tokens", func() error {
		return mustTransfer(e.debt.TransferFrom(ctx, e.custodian, party, amount))
	})

	if err := e.debt.Burn(ctx, amount); err != nil {
		return fmt.Errorf("could not burn debt unit: %w", err)
	}
	rb.add("re-mint burned debt", func() error {
		return mustTransfer(e.debt.Mint(ctx, e.custodian, amount))
	})

	// burning only raises the factor, the check stays to surface feed issues
	if err := e.checkHealthFactor(ctx, acc); err != nil {
		return err
	}

	if e.log.IsDebug() {
		e.log.Debug("debt burned",
			logging.String("party", party),
			logging.BigUint("amount", amount),
		)
	}
	return nil
}

// DepositAndMint deposits collateral and mints debt as one atomic unit: a
// failing mint unwinds the deposit as well.
func (e *Engine) DepositAndMint(ctx context.Context, party, asset string, collateralAmount, debtAmount *num.Uint) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()
	defer metrics.EngineTimeCounterAdd("collateral", "DepositAndMint")()

	rb := newRollback(e.log)
	err := e.depositCollateral(ctx, rb, party, asset, collateralAmount)
	if err == nil {
		err = e.mintDebt(ctx, rb, party, debtAmount)
	}
	if err != nil {
		err = rb.unwind(err)
	}
	metrics.OpCounterInc("deposit-mint", outcome(err))
	return err
}

// RedeemAndBurn burns debt and withdraws collateral as one atomic unit. The
// burn runs first so the solvency evaluation of the withdrawal sees the
// reduced debt; the net effect equals the two primitives in sequence.
func (e *Engine) RedeemAndBurn(ctx context.Context, party, asset string, collateralAmount, debtAmount *num.Uint) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()
	defer metrics.EngineTimeCounterAdd("collateral", "RedeemAndBurn")()

	rb := newRollback(e.log)
	err := e.burnDebt(ctx, rb, party, debtAmount)
	if err == nil {
		err = e.withdrawCollateral(ctx, rb, party, asset, collateralAmount)
	}
	if err != nil {
		err = rb.unwind(err)
	}
	metrics.OpCounterInc("redeem-burn", outcome(err))
	return err
}

func (e *Engine) validateAmountAsset(asset string, amount *num.Uint) (AssetLedger, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	ledger, ok := e.ledgers[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAsset, asset)
	}
	return ledger, nil
}

// transferFailed folds an external ledger refusal or error into the sentinel.
func transferFailed(err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	return ErrTransferFailed
}

// mustTransfer normalizes the (ok, err) pair of ledger calls used in
// compensations into a single error.
func mustTransfer(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return ErrTransferFailed
	}
	return nil
}

// Assets returns the registered collateral assets in registry order.
func (e *Engine) Assets() []string {
	out := make([]string, 0, len(e.registry))
	for _, a := range e.registry {
		out = append(out, a.ID)
	}
	return out
}

// GetFeed returns the price feed ID the asset is valued against.
func (e *Engine) GetFeed(asset string) (string, error) {
	feedID, ok := e.feeds[asset]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidAsset, asset)
	}
	return feedID, nil
}

// MinHealthFactor returns the boundary below which accounts are liquidatable.
func (e *Engine) MinHealthFactor() *num.Uint {
	return minHealthFactor.Clone()
}

// LiquidationThreshold returns the percentage of collateral value counted
// toward solvency.
func (e *Engine) LiquidationThreshold() *num.Uint {
	return num.NewUint(liquidationThreshold)
}

// LiquidationBonus returns the percentage bounty paid on seized collateral.
func (e *Engine) LiquidationBonus() *num.Uint {
	return num.NewUint(liquidationBonus)
}

// Precision returns the fixed-point scale of health factors.
func (e *Engine) Precision() *num.Uint {
	return precision.Clone()
}
