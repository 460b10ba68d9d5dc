package agent

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nstehr/ironbot/ipc"
	"github.com/nstehr/ironbot/model"
	"github.com/nstehr/ironbot/navigation"
	"github.com/nstehr/ironbot/rules"
)

// scripted wires an agent to a fixed server script and captures what the
// bot writes back.
func scripted(lines ...string) (*ipc.Connection, *bytes.Buffer) {
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return ipc.NewConnection(ipc.NewLineTransport(in, &out, nil)), &out
}

const openInit = `{"player_num":0,"player_count":2,"position":[0,0],"map":[[1,1,1],[1,1,1],[1,1,1]],"lighthouses":[[1,1]]}`

func TestRunRefinedSession(t *testing.T) {
	conn, out := scripted(
		openInit,
		`{"position":[0,0],"score":0,"energy":0,"view":[],"lighthouses":[{"position":[1,1],"owner":null,"energy":0,"connections":[],"have_key":false}]}`,
		`{"success":false,"message":"busy"}`,
		`{"position":[1,1],"score":0,"energy":150,"view":[],"lighthouses":[{"position":[1,1],"owner":null,"energy":0,"connections":[],"have_key":false}]}`,
		`{"success":true,"message":""}`,
	)
	a := New(conn, "ironbot", RuleDecider(rules.Refined(), rand.New(rand.NewSource(1))))

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	want := strings.Join([]string{
		`{"name":"ironbot"}`,
		`{"command":"move","x":1,"y":1}`,
		`{"command":"attack","energy":150}`,
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("bot wrote:\n%s\nwant:\n%s", out.String(), want)
	}
	if a.Session == "" {
		t.Error("agent has no session id")
	}
}

func TestRunMalformedInitEndsCleanly(t *testing.T) {
	conn, out := scripted(`{"player_num":`)
	a := New(conn, "ironbot", RuleDecider(rules.Refined(), rand.New(rand.NewSource(1))))

	if err := a.Run(context.Background()); err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
	if out.Len() != 0 {
		t.Errorf("bot wrote %q before a valid handshake", out.String())
	}
}

func TestRunEmptyInputEndsCleanly(t *testing.T) {
	conn, _ := scripted()
	a := New(conn, "ironbot", RuleDecider(rules.Simple(), rand.New(rand.NewSource(1))))
	if err := a.Run(context.Background()); err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
}

func TestRunNoLegalMoveIsFatal(t *testing.T) {
	conn, _ := scripted(
		`{"player_num":0,"player_count":2,"position":[1,1],"map":[[0,0,0],[0,1,0],[0,0,0]],"lighthouses":[[1,1]]}`,
		`{"position":[1,1],"score":0,"energy":5,"view":[],"lighthouses":[{"position":[1,1],"owner":0,"energy":50,"connections":[],"have_key":true}]}`,
	)
	a := New(conn, "ironbot", RuleDecider(rules.Refined(), rand.New(rand.NewSource(1))))

	err := a.Run(context.Background())
	if !errors.Is(err, rules.ErrNoLegalMove) {
		t.Errorf("Run() = %v, want ErrNoLegalMove", err)
	}
}

type fakeDecider struct {
	observed []bool
}

func (f *fakeDecider) Decide(model.Turn) (model.Action, error) {
	return model.Move(model.Direction{DX: 0, DY: 1}), nil
}

func (f *fakeDecider) Observe(accepted bool) {
	f.observed = append(f.observed, accepted)
}

func TestRunReportsResultsToObserver(t *testing.T) {
	conn, _ := scripted(
		openInit,
		`{"position":[0,0],"score":0,"energy":0,"view":[],"lighthouses":[]}`,
		`{"success":false,"message":"wall"}`,
		`{"position":[0,0],"score":0,"energy":0,"view":[],"lighthouses":[]}`,
		`{"success":true,"message":""}`,
	)
	fake := &fakeDecider{}
	var gotWorld rules.World
	a := New(conn, "ironbot", func(w rules.World) (Decider, error) {
		gotWorld = w
		return fake, nil
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(fake.observed) != 2 || fake.observed[0] || !fake.observed[1] {
		t.Errorf("observed = %v, want [false true]", fake.observed)
	}
	if gotWorld.Maps == nil || gotWorld.Maps.Len() != 1 {
		t.Errorf("decider built without distance maps: %+v", gotWorld)
	}
}

func TestRunCancelledContext(t *testing.T) {
	conn, out := scripted(openInit)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(conn, "ironbot", RuleDecider(rules.Refined(), rand.New(rand.NewSource(1))))
	if err := a.Run(ctx); err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
	if out.String() != "{\"name\":\"ironbot\"}\n" {
		t.Errorf("bot wrote %q", out.String())
	}
}

func TestLearnedDecider(t *testing.T) {
	grid := model.GridFromInts([][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	lhs := []model.Cell{{X: 1, Y: 1}, {X: 2, Y: 0}}
	world := rules.World{Player: 0, Grid: grid, Maps: navigation.BuildAll(grid, lhs)}
	rng := rand.New(rand.NewSource(1))

	d, err := LearnedDecider(LearnedConfig{Hidden: []int{4}}, rng)(world)
	if err != nil {
		t.Fatalf("untrained learned decider: %v", err)
	}
	if _, ok := d.(ResultObserver); !ok {
		t.Error("learned decider does not observe results")
	}
	action, err := d.Decide(model.Turn{Position: model.Cell{X: 0, Y: 0}})
	if err != nil {
		t.Fatalf("Decide() = %v", err)
	}
	if action.Kind == "" {
		t.Error("Decide() returned an empty action")
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	if _, err := LearnedDecider(LearnedConfig{WeightsPath: missing}, rng)(world); err == nil {
		t.Error("expected an error for a missing weights file")
	}
}
