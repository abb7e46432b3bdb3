package subscribers

import (
	"context"
	"sync"

	"code.ballastprotocol.io/ballast/events"
	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/types/num"
)

// DepositEvent is the subset of a collateral deposit the journal cares about.
type DepositEvent interface {
	events.Event
	Party() string
	Asset() string
	Amount() *num.Uint
}

// RedeemEvent covers both voluntary redemptions and liquidation seizures.
type RedeemEvent interface {
	events.Event
	From() string
	To() string
	Asset() string
	Amount() *num.Uint
	IsSeizure() bool
}

// JournalEntry is a single collateral movement as observed on the event bus.
type JournalEntry struct {
	Seq     uint64
	Type    events.Type
	Party   string // the party whose collateral account was touched
	To      string // recipient of a redemption, empty for deposits
	Asset   string
	Amount  *num.Uint
	Seizure bool
	TraceID string
}

// CollateralJournal accumulates collateral movements in bus order. It exists
// so operators can reconcile engine balances against the external ledgers
// without querying the engine itself.
type CollateralJournal struct {
	*Base

	log *logging.Logger

	mu      sync.RWMutex
	entries []JournalEntry
	byParty map[string][]int
	seq     uint64
}

func NewCollateralJournal(ctx context.Context, log *logging.Logger, ack bool) *CollateralJournal {
	j := &CollateralJournal{
		Base:    NewBase(ctx, 10, ack),
		log:     log,
		entries: []JournalEntry{},
		byParty: map[string][]int{},
	}
	if j.isRunning() {
		go j.loop(j.ctx)
	}
	return j
}

func (j *CollateralJournal) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			j.Halt()
			return
		case e := <-j.ch:
			if j.isRunning() {
				j.Push(e...)
			}
		}
	}
}

func (j *CollateralJournal) Push(evts ...events.Event) {
	if len(evts) == 0 {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, e := range evts {
		switch et := e.(type) {
		case RedeemEvent:
			j.record(JournalEntry{
				Type:    e.Type(),
				Party:   et.From(),
				To:      et.To(),
				Asset:   et.Asset(),
				Amount:  et.Amount(),
				Seizure: et.IsSeizure(),
				TraceID: e.TraceID(),
			}, et.From(), et.To())
		case DepositEvent:
			j.record(JournalEntry{
				Type:    e.Type(),
				Party:   et.Party(),
				Asset:   et.Asset(),
				Amount:  et.Amount(),
				TraceID: e.TraceID(),
			}, et.Party())
		default:
			j.log.Debug("collateral journal ignoring event",
				logging.String("type", e.Type().String()))
		}
	}
}

// record appends the entry and indexes it for every party involved.
// Callers hold the write lock.
func (j *CollateralJournal) record(entry JournalEntry, parties ...string) {
	j.seq++
	entry.Seq = j.seq
	idx := len(j.entries)
	j.entries = append(j.entries, entry)
	seen := ""
	for _, p := range parties {
		if p == "" || p == seen {
			continue
		}
		j.byParty[p] = append(j.byParty[p], idx)
		seen = p
	}
}

func (j *CollateralJournal) Types() []events.Type {
	return []events.Type{
		events.CollateralDepositedEvent,
		events.CollateralRedeemedEvent,
	}
}

// Entries returns all journal entries in bus order.
func (j *CollateralJournal) Entries() []JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]JournalEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// PartyEntries returns the entries involving the given party, oldest first.
func (j *CollateralJournal) PartyEntries(party string) []JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	idxs, ok := j.byParty[party]
	if !ok {
		return nil
	}
	out := make([]JournalEntry, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, j.entries[i])
	}
	return out
}

// Len returns the number of recorded movements.
func (j *CollateralJournal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}
