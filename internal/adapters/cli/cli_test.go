package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	daemongrpc "github.com/andrescamacho/colony-go/internal/adapters/grpc"
	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTreeFormatter_RendersTiers(t *testing.T) {
	resolver := compound.NewDefaultResolver()
	tree, err := resolver.Tree(compound.UtriumAcid)
	require.NoError(t, err)

	f := NewTreeFormatter(resolver, false)
	rendered := f.FormatTree(tree)

	assert.Contains(t, rendered, "UH2O [T2]\n")
	assert.Contains(t, rendered, "├── UH [T1]\n")
	assert.Contains(t, rendered, "│   ├── U [RAW]\n")
	assert.Contains(t, rendered, "└── OH [T1]\n")
	assert.Equal(t, "Tree: 7 nodes (4 RAW, 3 REACTION), depth=3", f.FormatTreeSummary(tree))
}

func TestTreeFormatter_RequirementsLargestFirst(t *testing.T) {
	f := NewTreeFormatter(compound.NewDefaultResolver(), false)

	out := f.FormatRequirements(10, compound.CatalyzedZynthiumAlkalide, map[compound.Compound]int{
		compound.Zynthium: 10,
		compound.Oxygen:   20,
		compound.Catalyst: 10,
	})

	assert.Equal(t, "Raw materials for 10 XZHO2:\n  O        20\n  X        10\n  Z        10\n", out)
}

func TestResolveCommand(t *testing.T) {
	out, err := execute(t, "resolve", "OH", "--amount", "100")

	require.NoError(t, err)
	assert.Contains(t, out, "OH [T1]")
	assert.Contains(t, out, "1. OH (T1)")
	assert.Contains(t, out, "Raw materials for 100 OH:")
}

func TestResolveCommand_UnknownCompound(t *testing.T) {
	_, err := execute(t, "resolve", "XYZ")

	var unknown *compound.ErrUnknownCompound
	assert.ErrorAs(t, err, &unknown)
}

func TestPlanCommand_PicksTargetFromConfiguredStock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
logging:
  level: info
database:
  type: sqlite
  path: ` + filepath.Join(dir, "colony.db") + `
simulation:
  rooms:
    - name: W1N1
      initial_stock:
        - {compound: H, amount: 500}
        - {compound: O, amount: 50000}
        - {compound: OH, amount: 4000}
production:
  reserve_amount: 1000
  batch_size: 1000
  plan:
    - {target: OH, number: 4000}
    - {target: GH, number: 100}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	out, err := execute(t, "--config", path, "plan", "--room", "W1N1")

	require.NoError(t, err)
	assert.Contains(t, out, "stock from config")
	assert.Contains(t, out, "next target: GH (have 0, missing 100)")
	assert.Contains(t, out, "H        have 500     need 100    held by reserve")
}

type liveColony struct{}

func (liveColony) CurrentTick() int64 { return 310 }
func (liveColony) RoomInfos() []metrics.RoomInfo {
	return []metrics.RoomInfo{{
		Name:             "W1N1",
		QueueDepth:       2,
		HasTask:          true,
		TaskSourceID:     "W1N1-storage",
		TaskTargetID:     "W1N1-lab",
		TaskResource:     "H",
		TaskAmount:       1000,
		TaskCompleted:    400,
		FacilityID:       "W1N1-lab",
		FacilityState:    "SYNTHESIZING",
		FacilityTarget:   "OH",
		FacilityBatch:    1000,
		FacilityProduced: 250,
	}}
}

func TestStatusCommand_LiveQueriesDaemonSocket(t *testing.T) {
	dir := t.TempDir()
	socket := filepath.Join(dir, "d.sock")
	srv, err := daemongrpc.NewDaemonServer(liveColony{}, socket)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	path := filepath.Join(dir, "config.yaml")
	body := `
database:
  type: sqlite
  path: ` + filepath.Join(dir, "colony.db") + `
daemon:
  socket_path: ` + socket + `
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	out, err := execute(t, "--config", path, "status", "W1N1", "--live")

	require.NoError(t, err)
	assert.Contains(t, out, "Daemon at tick 310")
	assert.Contains(t, out, "Facility: W1N1-lab SYNTHESIZING target=OH produced=250/1000")
	assert.Contains(t, out, "Task:     H 400/1000 W1N1-storage -> W1N1-lab (600 left)")
	assert.Contains(t, out, "Queue:    2 pending")
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://colony:xxxxx@db:5432/colony", maskPassword("postgres://colony:secret@db:5432/colony"))
	assert.Equal(t, "not a url", maskPassword("not a url"))
}
