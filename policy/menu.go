package policy

import (
	"github.com/nstehr/ironbot/model"
	"github.com/nstehr/ironbot/navigation"
)

// MenuLen is the number of actions offered with n lighthouses.
func MenuLen(n int) int {
	return len(model.Directions) + 1 + 2*n
}

// Menu lists the actions the network chooses between, in a fixed order:
// the eight raw moves, attack with all energy, one step toward each
// lighthouse, then connect to each lighthouse. Entries are not filtered
// for legality; the server rejects what it must.
func Menu(turn model.Turn, layout Layout, jitter func() float64) []model.Action {
	lhs := layout.Lighthouses()
	menu := make([]model.Action, 0, MenuLen(len(lhs)))

	for _, d := range model.Directions {
		menu = append(menu, model.Move(d))
	}
	menu = append(menu, model.Attack(turn.Energy))

	legal := layout.Grid.LegalMoves(turn.Position)
	for _, pos := range lhs {
		d := model.Directions[0]
		if dm, ok := layout.Maps.Map(pos); ok {
			if step, ok := navigation.StepToward(dm, turn.Position, legal, jitter); ok {
				d = step
			}
		}
		menu = append(menu, model.Move(d))
	}
	for _, pos := range lhs {
		menu = append(menu, model.Connect(pos))
	}
	return menu
}
