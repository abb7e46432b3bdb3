package oracles

import (
	"context"
	"time"

	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/metrics"
	"code.ballastprotocol.io/ballast/types/num"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrUnknownFeed signals that no price feed is registered under the requested ID.
	ErrUnknownFeed = errors.New("no price feed registered for this ID")
	// ErrStalePrice signals that the latest observation is too old to be used.
	ErrStalePrice = errors.New("stale price observation")
	// ErrInvalidPrice signals that the feed reported a non-positive price.
	ErrInvalidPrice = errors.New("invalid price observation")
	// ErrEmptyFeedID is returned when a feed is registered under an empty ID.
	ErrEmptyFeedID = errors.New("price feed ID cannot be empty")
	// ErrNilFeed is returned when a nil feed is registered.
	ErrNilFeed = errors.New("price feed cannot be nil")
	// ErrNoTimeService is returned when the adapter is built without a clock.
	ErrNoTimeService = errors.New("a time service is required")
)

// FeedData is a single observation as reported by an upstream feed. Price is
// signed because feeds report whatever their source does, including garbage.
type FeedData struct {
	Price     *num.Int
	Decimals  uint8
	UpdatedAt time.Time
}

// PriceFeed is the upstream source of observations for a single instrument.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/price_feed_mock.go -package mocks code.ballastprotocol.io/ballast/oracles PriceFeed
type PriceFeed interface {
	LatestData(ctx context.Context) (FeedData, error)
}

// TimeService is the clock staleness is measured against.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks code.ballastprotocol.io/ballast/oracles TimeService
type TimeService interface {
	GetTimeNow() time.Time
}

// Adapter guards the collateral engine against bad oracle data. It never
// adjusts a price: observations either come back exactly as reported, with
// their feed decimals, or they are rejected.
type Adapter struct {
	log *logging.Logger
	cfg Config

	ts    TimeService
	feeds map[string]PriceFeed
}

// New instantiates a new oracle adapter over the given feeds. The feed set is
// fixed for the lifetime of the adapter.
func New(log *logging.Logger, cfg Config, ts TimeService, feeds map[string]PriceFeed) (*Adapter, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	if ts == nil {
		return nil, ErrNoTimeService
	}
	a := &Adapter{
		log:   log,
		cfg:   cfg,
		ts:    ts,
		feeds: make(map[string]PriceFeed, len(feeds)),
	}
	for id, feed := range feeds {
		if len(id) == 0 {
			return nil, ErrEmptyFeedID
		}
		if feed == nil {
			return nil, errors.Wrap(ErrNilFeed, id)
		}
		a.feeds[id] = feed
	}
	return a, nil
}

// ReloadConf updates the adapter configuration.
func (a *Adapter) ReloadConf(cfg Config) {
	a.log.Info("reloading configuration")
	if a.log.GetLevel() != cfg.Level.Get() {
		a.log.Info("updating log level",
			logging.String("old", a.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		a.log.SetLevel(cfg.Level.Get())
	}

	a.cfg = cfg
}

// GetPrice returns the latest usable price for the feed along with the number
// of decimals the feed quotes in. An observation is usable when it is no older
// than the configured stale timeout and strictly positive. The price is
// returned exactly as reported, callers deal with decimals themselves.
func (a *Adapter) GetPrice(ctx context.Context, feedID string) (*num.Uint, uint8, error) {
	timer := metrics.NewTimeCounter("oracles", "Adapter.GetPrice")
	defer timer.EngineTimeCounterAdd()

	feed, ok := a.feeds[feedID]
	if !ok {
		return nil, 0, ErrUnknownFeed
	}

	data, err := feed.LatestData(ctx)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "fetching latest data for feed %s", feedID)
	}

	now := a.ts.GetTimeNow()
	if data.UpdatedAt.IsZero() || now.Sub(data.UpdatedAt) > a.cfg.StaleTimeout.Get() {
		metrics.StalePriceCounterInc(feedID)
		if a.log.IsDebug() {
			a.log.Debug("rejecting stale price observation",
				logging.String("feed-id", feedID),
				logging.Time("updated-at", data.UpdatedAt),
				logging.Time("now", now),
			)
		}
		return nil, 0, ErrStalePrice
	}

	if data.Price == nil || !data.Price.IsPositive() {
		a.log.Warn("rejecting non-positive price observation",
			logging.String("feed-id", feedID),
			logging.BigInt("price", data.Price),
		)
		return nil, 0, ErrInvalidPrice
	}

	return data.Price.U.Clone(), data.Decimals, nil
}

// FeedIDs returns the registered feed IDs in lexical order.
func (a *Adapter) FeedIDs() []string {
	ids := maps.Keys(a.feeds)
	slices.Sort(ids)
	return ids
}

// StaleTimeout returns the currently configured stale timeout.
func (a *Adapter) StaleTimeout() time.Duration {
	return a.cfg.StaleTimeout.Get()
}
