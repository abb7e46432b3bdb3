package oracles_test

import (
	"context"
	"testing"
	"time"

	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/oracles"
	"code.ballastprotocol.io/ballast/oracles/mocks"
	"code.ballastprotocol.io/ballast/types/num"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeedID = "WETH/USD"

var testNow = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

type testAdapter struct {
	*oracles.Adapter
	ctrl *gomock.Controller
	ts   *mocks.MockTimeService
	feed *mocks.MockPriceFeed
}

func getTestAdapter(t *testing.T) *testAdapter {
	t.Helper()
	ctrl := gomock.NewController(t)
	ts := mocks.NewMockTimeService(ctrl)
	feed := mocks.NewMockPriceFeed(ctrl)
	a, err := oracles.New(
		logging.NewTestLogger(),
		oracles.NewDefaultConfig(),
		ts,
		map[string]oracles.PriceFeed{testFeedID: feed},
	)
	require.NoError(t, err)
	return &testAdapter{
		Adapter: a,
		ctrl:    ctrl,
		ts:      ts,
		feed:    feed,
	}
}

// freshData is a Chainlink style observation: 8 decimals, one hour old.
func freshData(price int64) oracles.FeedData {
	return oracles.FeedData{
		Price:     num.NewInt(price),
		Decimals:  8,
		UpdatedAt: testNow.Add(-time.Hour),
	}
}

func TestAdapterConstruction(t *testing.T) {
	t.Run("nil time service fails", func(t *testing.T) {
		_, err := oracles.New(logging.NewTestLogger(), oracles.NewDefaultConfig(), nil, nil)
		assert.ErrorIs(t, err, oracles.ErrNoTimeService)
	})

	t.Run("empty feed ID fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		feeds := map[string]oracles.PriceFeed{"": mocks.NewMockPriceFeed(ctrl)}
		_, err := oracles.New(logging.NewTestLogger(), oracles.NewDefaultConfig(), mocks.NewMockTimeService(ctrl), feeds)
		assert.ErrorIs(t, err, oracles.ErrEmptyFeedID)
	})

	t.Run("nil feed fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		feeds := map[string]oracles.PriceFeed{"WBTC/USD": nil}
		_, err := oracles.New(logging.NewTestLogger(), oracles.NewDefaultConfig(), mocks.NewMockTimeService(ctrl), feeds)
		assert.ErrorIs(t, err, oracles.ErrNilFeed)
	})

	t.Run("no feeds at all is fine", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		a, err := oracles.New(logging.NewTestLogger(), oracles.NewDefaultConfig(), mocks.NewMockTimeService(ctrl), nil)
		require.NoError(t, err)
		assert.Empty(t, a.FeedIDs())
	})
}

func TestGetPrice(t *testing.T) {
	t.Run("fresh observation is returned untouched", testGetPriceFresh)
	t.Run("unknown feed is rejected", testGetPriceUnknownFeed)
	t.Run("feed failure is propagated", testGetPriceFeedFailure)
	t.Run("observation older than the timeout is rejected", testGetPriceStale)
	t.Run("observation exactly at the timeout is served", testGetPriceBoundary)
	t.Run("missing timestamp is treated as stale", testGetPriceZeroTimestamp)
	t.Run("non-positive prices are rejected", testGetPriceNonPositive)
}

func testGetPriceFresh(t *testing.T) {
	tst := getTestAdapter(t)
	defer tst.ctrl.Finish()

	tst.feed.EXPECT().LatestData(gomock.Any()).Times(1).Return(freshData(200000000000), nil)
	tst.ts.EXPECT().GetTimeNow().Times(1).Return(testNow)

	price, decimals, err := tst.GetPrice(context.Background(), testFeedID)
	require.NoError(t, err)
	assert.True(t, price.EQ(num.NewUint(200000000000)))
	assert.Equal(t, uint8(8), decimals)
}

func testGetPriceUnknownFeed(t *testing.T) {
	tst := getTestAdapter(t)
	defer tst.ctrl.Finish()

	price, _, err := tst.GetPrice(context.Background(), "DOGE/USD")
	assert.ErrorIs(t, err, oracles.ErrUnknownFeed)
	assert.Nil(t, price)
}

func testGetPriceFeedFailure(t *testing.T) {
	tst := getTestAdapter(t)
	defer tst.ctrl.Finish()

	cause := errors.New("aggregator unreachable")
	tst.feed.EXPECT().LatestData(gomock.Any()).Times(1).Return(oracles.FeedData{}, cause)

	_, _, err := tst.GetPrice(context.Background(), testFeedID)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fetching latest data")
}

func testGetPriceStale(t *testing.T) {
	tst := getTestAdapter(t)
	defer tst.ctrl.Finish()

	data := freshData(200000000000)
	data.UpdatedAt = testNow.Add(-3*time.Hour - time.Second)
	tst.feed.EXPECT().LatestData(gomock.Any()).Times(1).Return(data, nil)
	tst.ts.EXPECT().GetTimeNow().Times(1).Return(testNow)

	_, _, err := tst.GetPrice(context.Background(), testFeedID)
	assert.ErrorIs(t, err, oracles.ErrStalePrice)
}

func testGetPriceBoundary(t *testing.T) {
	tst := getTestAdapter(t)
	defer tst.ctrl.Finish()

	data := freshData(200000000000)
	data.UpdatedAt = testNow.Add(-3 * time.Hour)
	tst.feed.EXPECT().LatestData(gomock.Any()).Times(1).Return(data, nil)
	tst.ts.EXPECT().GetTimeNow().Times(1).Return(testNow)

	price, _, err := tst.GetPrice(context.Background(), testFeedID)
	require.NoError(t, err)
	assert.True(t, price.EQ(num.NewUint(200000000000)))
}

func testGetPriceZeroTimestamp(t *testing.T) {
	tst := getTestAdapter(t)
	defer tst.ctrl.Finish()

	data := freshData(200000000000)
	data.UpdatedAt = time.Time{}
	tst.feed.EXPECT().LatestData(gomock.Any()).Times(1).Return(data, nil)
	tst.ts.EXPECT().GetTimeNow().Times(1).Return(testNow)

	_, _, err := tst.GetPrice(context.Background(), testFeedID)
	assert.ErrorIs(t, err, oracles.ErrStalePrice)
}

func testGetPriceNonPositive(t *testing.T) {
	for name, price := range map[string]*num.Int{
		"zero":     num.NewInt(0),
		"negative": num.NewInt(-42),
		"nil":      nil,
	} {
		t.Run(name, func(t *testing.T) {
			tst := getTestAdapter(t)
			defer tst.ctrl.Finish()

			data := freshData(0)
			data.Price = price
			tst.feed.EXPECT().LatestData(gomock.Any()).Times(1).Return(data, nil)
			tst.ts.EXPECT().GetTimeNow().Times(1).Return(testNow)

			_, _, err := tst.GetPrice(context.Background(), testFeedID)
			assert.ErrorIs(t, err, oracles.ErrInvalidPrice)
		})
	}
}

func TestStaleTimeoutIsConfigurable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ts := mocks.NewMockTimeService(ctrl)
	feed := mocks.NewMockPriceFeed(ctrl)

	cfg := oracles.NewDefaultConfig()
	cfg.StaleTimeout.Duration = 10 * time.Minute
	a, err := oracles.New(logging.NewTestLogger(), cfg, ts, map[string]oracles.PriceFeed{testFeedID: feed})
	require.NoError(t, err)

	data := freshData(200000000000)
	data.UpdatedAt = testNow.Add(-11 * time.Minute)
	feed.EXPECT().LatestData(gomock.Any()).Times(1).Return(data, nil)
	ts.EXPECT().GetTimeNow().Times(1).Return(testNow)

	_, _, err = a.GetPrice(context.Background(), testFeedID)
	assert.ErrorIs(t, err, oracles.ErrStalePrice)
	assert.Equal(t, 10*time.Minute, a.StaleTimeout())
}

func TestReloadConfRetunesStaleTimeout(t *testing.T) {
	tst := getTestAdapter(t)
	defer tst.ctrl.Finish()

	data := freshData(200000000000)
	data.UpdatedAt = testNow.Add(-2 * time.Hour)
	tst.feed.EXPECT().LatestData(gomock.Any()).Times(2).Return(data, nil)
	tst.ts.EXPECT().GetTimeNow().Times(2).Return(testNow)

	// two hours old passes under the default three hour window
	price, _, err := tst.GetPrice(context.Background(), testFeedID)
	require.NoError(t, err)
	assert.True(t, price.EQ(num.NewUint(200000000000)))

	cfg := oracles.NewDefaultConfig()
	cfg.StaleTimeout.Duration = time.Hour
	tst.ReloadConf(cfg)
	require.Equal(t, time.Hour, tst.StaleTimeout())

	// the same observation is now too old
	_, _, err = tst.GetPrice(context.Background(), testFeedID)
	assert.ErrorIs(t, err, oracles.ErrStalePrice)
}

func TestReturnedPriceIsAClone(t *testing.T) {
	tst := getTestAdapter(t)
	defer tst.ctrl.Finish()

	data := freshData(200000000000)
	tst.feed.EXPECT().LatestData(gomock.Any()).Times(2).Return(data, nil)
	tst.ts.EXPECT().GetTimeNow().Times(2).Return(testNow)

	price, _, err := tst.GetPrice(context.Background(), testFeedID)
	require.NoError(t, err)
	price.SetUint64(1)

	again, _, err := tst.GetPrice(context.Background(), testFeedID)
	require.NoError(t, err)
	assert.True(t, again.EQ(num.NewUint(200000000000)))
}

func TestFeedIDsAreSorted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	feeds := map[string]oracles.PriceFeed{
		"WETH/USD": mocks.NewMockPriceFeed(ctrl),
		"DAI/USD":  mocks.NewMockPriceFeed(ctrl),
		"WBTC/USD": mocks.NewMockPriceFeed(ctrl),
	}
	a, err := oracles.New(logging.NewTestLogger(), oracles.NewDefaultConfig(), mocks.NewMockTimeService(ctrl), feeds)
	require.NoError(t, err)

	assert.Equal(t, []string{"DAI/USD", "WBTC/USD", "WETH/USD"}, a.FeedIDs())
}
