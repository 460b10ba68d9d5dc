package model

import "fmt"

// ActionKind names the three commands the server accepts.
type ActionKind string

const (
	ActionMove    ActionKind = "move"
	ActionAttack  ActionKind = "attack"
	ActionConnect ActionKind = "connect"
)

// Action is the single order emitted per turn. Only the fields matching
// Kind are meaningful.
type Action struct {
	Kind        ActionKind
	Move        Direction
	Energy      int
	Destination Cell
}

func Move(d Direction) Action { return Action{Kind: ActionMove, Move: d} }

func Attack(energy int) Action { return Action{Kind: ActionAttack, Energy: energy} }

func Connect(dest Cell) Action { return Action{Kind: ActionConnect, Destination: dest} }

func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("move(%d,%d)", a.Move.DX, a.Move.DY)
	case ActionAttack:
		return fmt.Sprintf("attack(%d)", a.Energy)
	case ActionConnect:
		return fmt.Sprintf("connect(%d,%d)", a.Destination.X, a.Destination.Y)
	default:
		return fmt.Sprintf("unknown(%q)", string(a.Kind))
	}
}
