package ipc

import (
	"fmt"

	"github.com/nstehr/ironbot/model"
)

// Command names understood by the game server.
const (
	CommandMove    = "move"
	CommandAttack  = "attack"
	CommandConnect = "connect"
)

type MoveCommand struct {
	Command string `json:"command"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type AttackCommand struct {
	Command string `json:"command"`
	Energy  int    `json:"energy"`
}

type ConnectCommand struct {
	Command     string `json:"command"`
	Destination [2]int `json:"destination"`
}

// FromAction builds the wire command for a.
func FromAction(a model.Action) (any, error) {
	switch a.Kind {
	case model.ActionMove:
		return MoveCommand{Command: CommandMove, X: a.Move.DX, Y: a.Move.DY}, nil
	case model.ActionAttack:
		return AttackCommand{Command: CommandAttack, Energy: a.Energy}, nil
	case model.ActionConnect:
		return ConnectCommand{Command: CommandConnect, Destination: [2]int{a.Destination.X, a.Destination.Y}}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", a.Kind)
	}
}
