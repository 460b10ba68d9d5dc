package rules

import (
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/ironbot/model"
)

// ActionFunc produces the turn's action once a rule's condition holds.
// Returning a nil action lets the next rule try.
type ActionFunc func(env TurnEnv) (*model.Action, error)

// Rule is a condition → action pair. The engine evaluates rules by
// priority and the first one that yields an action wins the turn.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for logs
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
