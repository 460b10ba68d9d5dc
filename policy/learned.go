package policy

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/nstehr/ironbot/model"
)

// RejectedReward is the reward booked when the server refused the
// previous action.
const RejectedReward = -10

// Learned plays by asking the network to pick a menu entry each turn.
// It keeps the reward bookkeeping across turns for diagnostics only.
type Learned struct {
	layout Layout
	net    *Network
	rng    *rand.Rand

	lastScore  int
	pending    bool
	accepted   bool
	cumulative int
}

// NewLearned wires a network to a session layout. The network's input
// and output widths must match the layout.
func NewLearned(layout Layout, net *Network, rng *rand.Rand) (*Learned, error) {
	if want := layout.FeatureLen(); net.cfg.InputSize != want {
		return nil, fmt.Errorf("%w: network takes %d features, layout produces %d", ErrShapeMismatch, net.cfg.InputSize, want)
	}
	if want := MenuLen(layout.Maps.Len()); net.cfg.OutputSize != want {
		return nil, fmt.Errorf("%w: network scores %d actions, menu has %d", ErrShapeMismatch, net.cfg.OutputSize, want)
	}
	return &Learned{layout: layout, net: net, rng: rng}, nil
}

// Decide books the reward for the previous action, then picks this
// turn's action from the menu.
func (l *Learned) Decide(turn model.Turn) (model.Action, error) {
	if l.pending {
		reward := l.Reward(turn.Score)
		l.cumulative += reward
		slog.Debug("reward", "reward", reward, "cumulative", l.cumulative)
	}
	l.lastScore = turn.Score

	idx, err := l.net.SelectAction(Features(turn, l.layout))
	if err != nil {
		return model.Action{}, fmt.Errorf("select action: %w", err)
	}
	menu := Menu(turn, l.layout, l.jitter)
	action := menu[idx]
	slog.Debug("network picked action", "index", idx, "action", action.String())

	l.pending = true
	l.accepted = true
	return action, nil
}

// Observe records whether the server accepted the last action.
func (l *Learned) Observe(accepted bool) {
	l.accepted = accepted
}

// Reward is what the last action earned given the new score.
func (l *Learned) Reward(score int) int {
	if !l.accepted {
		return RejectedReward
	}
	return score - l.lastScore
}

// CumulativeReward is the running sum of booked rewards.
func (l *Learned) CumulativeReward() int { return l.cumulative }

func (l *Learned) jitter() float64 {
	return 0.1 + 0.4*l.rng.Float64()
}
