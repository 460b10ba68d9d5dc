package ipc

import (
	"fmt"

	"github.com/nstehr/ironbot/model"
)

// InitMessage is the first line the game server sends.
type InitMessage struct {
	PlayerNum   int      `json:"player_num"`
	PlayerCount int      `json:"player_count"`
	Position    [2]int   `json:"position"`
	Map         [][]int  `json:"map"`
	Lighthouses [][2]int `json:"lighthouses"`
}

// HelloMessage answers the init message.
type HelloMessage struct {
	Name string `json:"name"`
}

// LighthouseData is one lighthouse as reported in a turn. Owner is null
// for lighthouses nobody controls.
type LighthouseData struct {
	Position    [2]int   `json:"position"`
	Owner       *int     `json:"owner"`
	Energy      int      `json:"energy"`
	Connections [][2]int `json:"connections"`
	HaveKey     bool     `json:"have_key"`
}

// StateMessage is the per-turn snapshot.
type StateMessage struct {
	Position    [2]int           `json:"position"`
	Score       int              `json:"score"`
	Energy      int              `json:"energy"`
	View        [][]int          `json:"view"`
	Lighthouses []LighthouseData `json:"lighthouses"`
}

// ResultMessage reports whether the server accepted the last action.
type ResultMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func cell(p [2]int) model.Cell { return model.Cell{X: p[0], Y: p[1]} }

// Validate rejects init messages the bot cannot play from.
func (m InitMessage) Validate() error {
	if len(m.Map) == 0 || len(m.Map[0]) == 0 {
		return fmt.Errorf("%w: empty map", ErrMalformed)
	}
	return nil
}

// Grid converts the passability map.
func (m InitMessage) Grid() *model.GridMap {
	return model.GridFromInts(m.Map)
}

// Start is the agent's initial position.
func (m InitMessage) Start() model.Cell { return cell(m.Position) }

// LighthousePositions lists the lighthouses in server order.
func (m InitMessage) LighthousePositions() []model.Cell {
	out := make([]model.Cell, len(m.Lighthouses))
	for i, p := range m.Lighthouses {
		out[i] = cell(p)
	}
	return out
}

// Turn converts the snapshot to domain types.
func (m StateMessage) Turn() model.Turn {
	t := model.Turn{
		Position:    cell(m.Position),
		Score:       m.Score,
		Energy:      m.Energy,
		View:        m.View,
		Lighthouses: make([]model.Lighthouse, len(m.Lighthouses)),
	}
	for i, lh := range m.Lighthouses {
		owner := model.NoOwner
		if lh.Owner != nil {
			owner = *lh.Owner
		}
		conns := make([]model.Cell, len(lh.Connections))
		for j, c := range lh.Connections {
			conns[j] = cell(c)
		}
		t.Lighthouses[i] = model.Lighthouse{
			Pos:         cell(lh.Position),
			Owner:       owner,
			Energy:      lh.Energy,
			HaveKey:     lh.HaveKey,
			Connections: conns,
		}
	}
	return t
}
