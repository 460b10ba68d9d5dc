package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/nstehr/ironbot/ipc"
	"github.com/nstehr/ironbot/model"
	"github.com/nstehr/ironbot/navigation"
	"github.com/nstehr/ironbot/policy"
	"github.com/nstehr/ironbot/rules"
)

// Decider picks exactly one action per turn.
type Decider interface {
	Decide(turn model.Turn) (model.Action, error)
}

// ResultObserver is implemented by deciders that want to hear whether the
// server accepted their last action.
type ResultObserver interface {
	Observe(accepted bool)
}

// DeciderFactory builds the session's decider once the handshake has
// produced the world.
type DeciderFactory func(world rules.World) (Decider, error)

// RuleDecider plays with the heuristic rule engine.
func RuleDecider(p rules.Profile, rng *rand.Rand) DeciderFactory {
	return func(world rules.World) (Decider, error) {
		return rules.NewEngine(p, world, rng)
	}
}

// LearnedConfig selects the network for the learned variant.
type LearnedConfig struct {
	WeightsPath string
	Hidden      []int
	Epsilon     float64
}

// LearnedDecider plays with a network. Weights come from cfg.WeightsPath
// when set; otherwise the network starts untrained.
func LearnedDecider(cfg LearnedConfig, rng *rand.Rand) DeciderFactory {
	return func(world rules.World) (Decider, error) {
		layout := policy.NewLayout(world.Player, world.Grid, world.Maps)
		netCfg := policy.DefaultNetworkConfig(layout, cfg.Hidden)
		if cfg.WeightsPath != "" {
			loaded, err := policy.LoadConfig(cfg.WeightsPath)
			if err != nil {
				return nil, err
			}
			netCfg = loaded
		} else {
			slog.Warn("no weights given, network is untrained")
		}
		net, err := policy.NewNetwork(netCfg, cfg.Epsilon, rng)
		if err != nil {
			return nil, err
		}
		return policy.NewLearned(layout, net, rng)
	}
}

// Agent owns one game session: handshake, then a strict
// state/action/result cycle until the server goes away.
type Agent struct {
	Conn       *ipc.Connection
	Name       string
	Session    string
	newDecider DeciderFactory
	log        *slog.Logger
}

func New(conn *ipc.Connection, name string, factory DeciderFactory) *Agent {
	session := uuid.NewString()
	return &Agent{
		Conn:       conn,
		Name:       name,
		Session:    session,
		newDecider: factory,
		log:        slog.With("session", session),
	}
}

// ended reports errors that finish a session cleanly.
func ended(err error) bool {
	return errors.Is(err, ipc.ErrSessionEnded) || errors.Is(err, ipc.ErrMalformed)
}

// Run plays until the stream ends or ctx is cancelled. End of input and
// malformed input are a normal finish and return nil.
func (a *Agent) Run(ctx context.Context) error {
	init, err := a.Conn.RecvInit()
	if err != nil {
		if ended(err) {
			a.log.Info("session ended before handshake", "reason", err)
			return nil
		}
		return fmt.Errorf("receive init: %w", err)
	}

	grid := init.Grid()
	maps := navigation.BuildAll(grid, init.LighthousePositions())
	world := rules.World{Player: init.PlayerNum, Grid: grid, Maps: maps}
	a.log.Info("player identified",
		"player", init.PlayerNum,
		"players", init.PlayerCount,
		"start", init.Start(),
		"map", fmt.Sprintf("%dx%d", grid.Width(), grid.Height()),
		"lighthouses", maps.Len(),
	)

	decider, err := a.newDecider(world)
	if err != nil {
		return fmt.Errorf("build decider: %w", err)
	}
	observer, _ := decider.(ResultObserver)

	if err := a.Conn.SendHello(a.Name); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}

	var prev *snapshot
	for turn := 1; ; turn++ {
		if ctx.Err() != nil {
			a.log.Info("session cancelled", "turn", turn)
			return nil
		}

		state, err := a.Conn.RecvState()
		if err != nil {
			if ended(err) {
				a.log.Info("session ended", "turn", turn, "reason", err)
				return nil
			}
			return fmt.Errorf("receive state: %w", err)
		}
		t := state.Turn()

		snap := takeSnapshot(world.Player, t)
		if events := detectEvents(turn, prev, snap); len(events) > 0 {
			a.log.Info("turn events", "turn", turn, "events", formatEvents(events))
		}
		prev = &snap

		a.log.Debug("turn state",
			"turn", turn,
			"position", t.Position,
			"score", t.Score,
			"energy", t.Energy,
		)

		action, err := decider.Decide(t)
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		if err := a.Conn.SendAction(action); err != nil {
			return fmt.Errorf("send action: %w", err)
		}

		res, err := a.Conn.RecvResult()
		if err != nil {
			if ended(err) {
				a.log.Info("session ended", "turn", turn, "reason", err)
				return nil
			}
			return fmt.Errorf("receive result: %w", err)
		}
		if !res.Success {
			a.log.Warn("action rejected", "turn", turn, "action", action.String(), "message", res.Message)
		}
		if observer != nil {
			observer.Observe(res.Success)
		}
	}
}
