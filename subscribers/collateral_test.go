package subscribers_test

import (
	"context"
	"testing"
	"time"

	"code.ballastprotocol.io/ballast/events"
	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/subscribers"
	"code.ballastprotocol.io/ballast/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestJournal(t *testing.T) (*subscribers.CollateralJournal, context.CancelFunc) {
	t.Helper()
	ctx, cfunc := context.WithCancel(context.Background())
	return subscribers.NewCollateralJournal(ctx, logging.NewTestLogger(), true), cfunc
}

func TestJournalRecordsInBusOrder(t *testing.T) {
	j, cfunc := getTestJournal(t)
	defer cfunc()

	ctx := context.Background()
	j.Push(
		events.NewCollateralDeposited(ctx, "party1", "WETH", num.NewUint(100)),
		events.NewCollateralDeposited(ctx, "party2", "WBTC", num.NewUint(5)),
		events.NewCollateralRedeemed(ctx, "party1", "party1", "WETH", num.NewUint(40)),
	)

	require.Equal(t, 3, j.Len())
	entries := j.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, uint64(1), entries[0].Seq)
	assert.Equal(t, uint64(2), entries[1].Seq)
	assert.Equal(t, uint64(3), entries[2].Seq)

	assert.Equal(t, events.CollateralDepositedEvent, entries[0].Type)
	assert.Equal(t, "party1", entries[0].Party)
	assert.Equal(t, "WETH", entries[0].Asset)
	assert.True(t, entries[0].Amount.EQ(num.NewUint(100)))
	assert.Empty(t, entries[0].To)
	assert.False(t, entries[0].Seizure)

	// a redemption back to the owner is not a seizure
	assert.Equal(t, events.CollateralRedeemedEvent, entries[2].Type)
	assert.Equal(t, "party1", entries[2].Party)
	assert.Equal(t, "party1", entries[2].To)
	assert.False(t, entries[2].Seizure)
}

func TestJournalIndexesSeizureForBothParties(t *testing.T) {
	j, cfunc := getTestJournal(t)
	defer cfunc()

	ctx := context.Background()
	j.Push(
		events.NewCollateralDeposited(ctx, "party1", "WETH", num.NewUint(1000)),
		events.NewCollateralRedeemed(ctx, "party1", "liquidator", "WETH", num.NewUint(300)),
	)

	p1 := j.PartyEntries("party1")
	require.Len(t, p1, 2)
	assert.Equal(t, events.CollateralDepositedEvent, p1[0].Type)
	assert.Equal(t, events.CollateralRedeemedEvent, p1[1].Type)
	assert.True(t, p1[1].Seizure)

	liq := j.PartyEntries("liquidator")
	require.Len(t, liq, 1)
	assert.Equal(t, "party1", liq[0].Party)
	assert.Equal(t, "liquidator", liq[0].To)
	assert.True(t, liq[0].Seizure)

	assert.Nil(t, j.PartyEntries("nobody"))
}

func TestJournalSelfRedeemIndexedOnce(t *testing.T) {
	j, cfunc := getTestJournal(t)
	defer cfunc()

	j.Push(events.NewCollateralRedeemed(context.Background(), "party1", "party1", "WETH", num.NewUint(10)))

	require.Len(t, j.PartyEntries("party1"), 1)
}

func TestJournalEntriesAreACopy(t *testing.T) {
	j, cfunc := getTestJournal(t)
	defer cfunc()

	j.Push(events.NewCollateralDeposited(context.Background(), "party1", "WETH", num.NewUint(100)))

	entries := j.Entries()
	entries[0].Party = "tampered"
	assert.Equal(t, "party1", j.Entries()[0].Party)
}

func TestJournalIgnoresOtherEvents(t *testing.T) {
	j, cfunc := getTestJournal(t)
	defer cfunc()

	j.Push(events.NewTime(context.Background(), time.Now()))
	assert.Equal(t, 0, j.Len())
}

func TestJournalTypes(t *testing.T) {
	j, cfunc := getTestJournal(t)
	defer cfunc()

	assert.Equal(t, []events.Type{
		events.CollateralDepositedEvent,
		events.CollateralRedeemedEvent,
	}, j.Types())
}
