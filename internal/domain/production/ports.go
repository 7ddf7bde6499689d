package production

import (
	"context"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
)

// StockReader reads current quantities from bulk storage
type StockReader interface {
	Amount(c compound.Compound) int
}

// SubstrateRequester asks the logistics side to bring amount of c into the facility
type SubstrateRequester interface {
	RequestSubstrate(ctx context.Context, facilityID string, c compound.Compound, amount int) error
}

// OutputSink takes compounds out of the facility into bulk storage and
// returns how much it accepted
type OutputSink interface {
	Deposit(ctx context.Context, c compound.Compound, amount int) (int, error)
}

// TickEnv bundles the collaborators a facility needs for one tick
type TickEnv struct {
	Stock     StockReader
	Requester SubstrateRequester
	Sink      OutputSink
}
