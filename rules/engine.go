package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/ironbot/model"
)

// Engine runs the compiled rules against each turn's state and returns
// exactly one action. Apart from the read-only World it keeps nothing
// between turns.
type Engine struct {
	rules   []*Rule
	profile Profile
	world   World
	rng     *rand.Rand
}

// NewEngine compiles the profile's rules into expr bytecode and sorts them
// by priority. rng is the only source of randomness the engine uses.
func NewEngine(p Profile, world World, rng *rand.Rand) (*Engine, error) {
	p.Validate()
	compiled, err := compileRules(CompileProfile(p))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	slog.Info("rule engine ready", "profile", p.Name, "rules", names)
	return &Engine{rules: compiled, profile: p, world: world, rng: rng}, nil
}

// Profile returns the validated profile the engine was built from.
func (e *Engine) Profile() Profile { return e.profile }

// Decide picks the action for one turn. The only error it returns is
// ErrNoLegalMove; every other failure is logged and the next rule tried.
func (e *Engine) Decide(turn model.Turn) (model.Action, error) {
	state := model.NewLighthouseState(e.world.Player, turn, e.world.Maps)
	env := TurnEnv{
		World:   e.world,
		Profile: e.profile,
		Turn:    turn,
		State:   state,
		Rand:    e.rng,
	}

	for _, r := range e.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}

		action, err := r.Action(env)
		if errors.Is(err, ErrNoLegalMove) {
			return model.Action{}, err
		}
		if err != nil {
			slog.Error("rule action error", "rule", r.Name, "error", err)
			continue
		}
		if action == nil {
			continue
		}
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category, "action", action.String())
		return *action, nil
	}

	moves := env.LegalMoves()
	if len(moves) == 0 {
		return model.Action{}, ErrNoLegalMove
	}
	d := moves[e.rng.Intn(len(moves))]
	slog.Warn("no rule fired, moving at random", "move", d)
	return model.Move(d), nil
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(TurnEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
