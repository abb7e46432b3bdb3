package types

// Asset is one entry of the collateral registry: a collateral token
// identifier tied to the price feed it is valued against. The registry is
// fixed at engine construction.
type Asset struct {
	ID     string
	FeedID string
}

func (a Asset) String() string {
	return a.ID + "@" + a.FeedID
}
