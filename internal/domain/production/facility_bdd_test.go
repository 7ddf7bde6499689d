package production_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/production"
)

type facilityContext struct {
	resolver  *compound.Resolver
	entries   []production.TargetEntry
	facility  *production.Facility
	stock     stockMap
	requester *recordingRequester
	sink      *limitedSink
	gated     map[compound.Compound]bool
}

func (ctx *facilityContext) reset() {
	ctx.resolver = compound.NewDefaultResolver()
	ctx.entries = nil
	ctx.facility = nil
	ctx.stock = stockMap{}
	ctx.requester = &recordingRequester{}
	ctx.sink = newLimitedSink(1_000_000)
	ctx.gated = make(map[compound.Compound]bool)
}

func (ctx *facilityContext) aProductionPlan(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		number, err := strconv.Atoi(tableCell(table, row, "number"))
		if err != nil {
			return err
		}
		ctx.entries = append(ctx.entries, production.TargetEntry{
			Target: compound.Compound(tableCell(table, row, "target")),
			Number: number,
		})
	}
	return nil
}

func (ctx *facilityContext) aFacilityWith(batch, reaction int) error {
	plan, err := production.NewPlan(ctx.entries, ctx.resolver)
	if err != nil {
		return err
	}
	gate := production.NewReserveGate(production.DefaultReserveThresholds(), ctx.resolver)
	ctx.facility, err = production.NewFacility(production.FacilityConfig{
		ID:             "lab-cluster",
		BatchSize:      batch,
		ReactionAmount: reaction,
	}, plan, ctx.resolver, gate)
	return err
}

func (ctx *facilityContext) bulkStorageHolds(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		amount, err := strconv.Atoi(tableCell(table, row, "amount"))
		if err != nil {
			return err
		}
		ctx.stock[compound.Compound(tableCell(table, row, "compound"))] = amount
	}
	return nil
}

func (ctx *facilityContext) theFacilityTicks() error {
	return ctx.theFacilityTicksTimes(1)
}

func (ctx *facilityContext) theFacilityTicksTimes(n int) error {
	for i := 0; i < n; i++ {
		tr, err := ctx.facility.Tick(context.Background(), production.TickEnv{
			Stock:     ctx.stock,
			Requester: ctx.requester,
			Sink:      ctx.sink,
		})
		if err != nil {
			return err
		}
		for _, c := range tr.Gated {
			ctx.gated[c] = true
		}
	}
	return nil
}

func (ctx *facilityContext) theFacilityReceives(amountA int, a string, amountB int, b string) error {
	if _, err := ctx.facility.Inputs().Add(compound.Compound(a), amountA); err != nil {
		return err
	}
	_, err := ctx.facility.Inputs().Add(compound.Compound(b), amountB)
	return err
}

func (ctx *facilityContext) theFacilityShouldBeInState(state string) error {
	if string(ctx.facility.State()) != state {
		return fmt.Errorf("expected state %s, got %s", state, ctx.facility.State())
	}
	return nil
}

func (ctx *facilityContext) theFacilityTargetShouldBe(target string) error {
	if string(ctx.facility.Target()) != target {
		return fmt.Errorf("expected target %s, got %s", target, ctx.facility.Target())
	}
	return nil
}

func (ctx *facilityContext) shouldHaveBeenHeldByTheReserve(c string) error {
	if !ctx.gated[compound.Compound(c)] {
		return fmt.Errorf("expected %s to be held by the reserve", c)
	}
	for _, r := range ctx.requester.requests {
		if r.compound == compound.Compound(c) {
			return fmt.Errorf("%s was requested despite the reserve", c)
		}
	}
	return nil
}

func (ctx *facilityContext) shouldHaveBeenRequested(amount int, c string) error {
	for _, r := range ctx.requester.requests {
		if r.compound == compound.Compound(c) && r.amount == amount {
			return nil
		}
	}
	return fmt.Errorf("no request for %d %s in %+v", amount, c, ctx.requester.requests)
}

func (ctx *facilityContext) storageShouldHaveReceived(amount int, c string) error {
	if got := ctx.sink.received[compound.Compound(c)]; got != amount {
		return fmt.Errorf("expected storage to receive %d %s, got %d", amount, c, got)
	}
	return nil
}

func tableCell(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func InitializeFacilityScenario(sc *godog.ScenarioContext) {
	ctx := &facilityContext{}

	sc.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a production plan:$`, ctx.aProductionPlan)
	sc.Step(`^a facility with batch size (\d+) and reaction amount (\d+)$`, ctx.aFacilityWith)
	sc.Step(`^bulk storage holds:$`, ctx.bulkStorageHolds)
	sc.Step(`^the facility ticks$`, ctx.theFacilityTicks)
	sc.Step(`^the facility ticks (\d+) times$`, ctx.theFacilityTicksTimes)
	sc.Step(`^the facility receives (\d+) "([^"]*)" and (\d+) "([^"]*)"$`, ctx.theFacilityReceives)
	sc.Step(`^the facility should be in state "([^"]*)"$`, ctx.theFacilityShouldBeInState)
	sc.Step(`^the facility target should be "([^"]*)"$`, ctx.theFacilityTargetShouldBe)
	sc.Step(`^"([^"]*)" should have been held by the reserve$`, ctx.shouldHaveBeenHeldByTheReserve)
	sc.Step(`^(\d+) "([^"]*)" should have been requested$`, ctx.shouldHaveBeenRequested)
	sc.Step(`^storage should have received (\d+) "([^"]*)"$`, ctx.storageShouldHaveReceived)
}

func TestFacilityFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeFacilityScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
