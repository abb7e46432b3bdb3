package collateral_test

import (
	"context"
	"testing"

	"code.ballastprotocol.io/ballast/collateral"
	"code.ballastprotocol.io/ballast/collateral/mocks"
	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/oracles"
	"code.ballastprotocol.io/ballast/types/num"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

const (
	testCustodian = "vault-custodian"
	testParty     = "party1"
	testWETH      = "WETH"
	testWBTC      = "WBTC"
	testWETHFeed  = "WETH/USD"
	testWBTCFeed  = "WBTC/USD"
)

type testEngine struct {
	*collateral.Engine
	ctrl     *gomock.Controller
	broker   *mocks.MockBroker
	oracle   *mocks.MockOracle
	debt     *mocks.MockDebtLedger
	ledgers  map[string]*mocks.MockAssetLedger
	prices   map[string]*num.Uint
	feedErrs map[string]error
}

func getTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	oracle := mocks.NewMockOracle(ctrl)
	debt := mocks.NewMockDebtLedger(ctrl)
	ledgers := map[string]*mocks.MockAssetLedger{
		testWETH: mocks.NewMockAssetLedger(ctrl),
		testWBTC: mocks.NewMockAssetLedger(ctrl),
	}
	eng, err := collateral.New(
		logging.NewTestLogger(),
		collateral.NewDefaultConfig(),
		broker,
		oracle,
		debt,
		testCustodian,
		[]string{testWETH, testWBTC},
		[]string{testWETHFeed, testWBTCFeed},
		map[string]collateral.AssetLedger{
			testWETH: ledgers[testWETH],
			testWBTC: ledgers[testWBTC],
		},
	)
	require.NoError(t, err)
	return &testEngine{
		Engine:  eng,
		ctrl:    ctrl,
		broker:  broker,
		oracle:  oracle,
		debt:    debt,
		ledgers: ledgers,
		prices: map[string]*num.Uint{
			testWETHFeed: unit(2000),
			testWBTCFeed: unit(30000),
		},
		feedErrs: map[string]error{},
	}
}

func (te *testEngine) Finish() {
	te.ctrl.Finish()
}

// primeOracle arms the oracle mock to serve the stored quote for any feed,
// in 18 decimals. Every books-changing operation revalues the whole registry,
// so the fixture opens with a standing quote per feed; setPrice overrides
// one, markStale and failFeed turn one bad.
func (te *testEngine) primeOracle() {
	te.oracle.EXPECT().GetPrice(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(
		func(_ context.Context, feedID string) (*num.Uint, uint8, error) {
			if err, ok := te.feedErrs[feedID]; ok {
				return nil, 0, err
			}
			price, ok := te.prices[feedID]
			if !ok {
				return nil, 0, oracles.ErrUnknownFeed
			}
			return price.Clone(), 18, nil
		},
	)
}

func (te *testEngine) setPrice(feedID string, price *num.Uint) {
	te.prices[feedID] = price
}

// failFeed makes every quote for the feed fail with err from now on.
func (te *testEngine) failFeed(feedID string, err error) {
	te.feedErrs[feedID] = err
}

// markStale makes the feed serve ErrStalePrice, the way the adapter does once
// an observation outlives the staleness window.
func (te *testEngine) markStale(feedID string) {
	te.failFeed(feedID, oracles.ErrStalePrice)
}

// deposit seeds a party position, asserting the happy path as it goes. The
// closing solvency check quotes every registered feed, so the oracle has to
// be primed first.
func (te *testEngine) deposit(t *testing.T, party, asset string, amount *num.Uint) {
	t.Helper()
	te.broker.EXPECT().Send(gomock.Any()).Times(1)
	te.ledgers[asset].EXPECT().TransferFrom(gomock.Any(), party, testCustodian, amount).Times(1).Return(true, nil)
	require.NoError(t, te.DepositCollateral(context.Background(), party, asset, amount))
}

// mint seeds minted debt for a party, asserting the happy path as it goes.
// The oracle has to be primed with a price that keeps the party healthy.
func (te *testEngine) mint(t *testing.T, party string, amount *num.Uint) {
	t.Helper()
	te.debt.EXPECT().Mint(gomock.Any(), party, amount).Times(1).Return(true, nil)
	require.NoError(t, te.MintDebt(context.Background(), party, amount))
}

// unit scales a whole number of tokens, USD, or debt units up to the raw
// 18-decimal representation everything is booked in.
func unit(amount uint64) *num.Uint {
	return num.Zero().Mul(num.NewUint(amount), num.MustUintFromString("1000000000000000000"))
}
