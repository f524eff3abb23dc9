package script

import (
	"github.com/Shopify/go-lua"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/capability"
)

// bindAPI installs the api global table. Coordinates are zero based, as in
// the map file. Queries that can come up empty return nil.
func bindAPI(l *lua.State, api capability.API, log logrus.FieldLogger) {
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "getPlayerLocation", Function: func(l *lua.State) int {
			x, y := api.PlayerLocation()
			l.PushInteger(x)
			l.PushInteger(y)
			return 2
		}},
		{Name: "setPlayerLocation", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			l.PushBoolean(api.SetPlayerLocation(x, y))
			return 1
		}},
		{Name: "getPlayerInventory", Function: func(l *lua.State) int {
			inv := api.PlayerInventory()
			l.CreateTable(0, len(inv))
			for name, qty := range inv {
				l.PushInteger(qty)
				l.SetField(-2, name)
			}
			return 1
		}},
		{Name: "addItemToInventory", Function: func(l *lua.State) int {
			l.PushBoolean(api.AddItemToInventory(lua.CheckString(l, 1), lua.OptInteger(l, 2, 1)))
			return 1
		}},
		{Name: "removeItemFromInventory", Function: func(l *lua.State) int {
			l.PushBoolean(api.RemoveItemFromInventory(lua.CheckString(l, 1), lua.OptInteger(l, 2, 1)))
			return 1
		}},
		{Name: "getLastAcquiredItem", Function: func(l *lua.State) int {
			pushOptString(l, api.LastAcquiredItem())
			return 1
		}},
		{Name: "getGridSize", Function: func(l *lua.State) int {
			w, h := api.GridSize()
			l.PushInteger(w)
			l.PushInteger(h)
			return 2
		}},
		{Name: "getGridSquareContents", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			l.PushString(api.GridSquareContents(x, y))
			return 1
		}},
		{Name: "getItemAt", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			pushOptString(l, api.ItemAt(x, y))
			return 1
		}},
		{Name: "getObstacleRequirements", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			reqs := api.ObstacleRequirements(x, y)
			if reqs == nil {
				l.PushNil()
				return 1
			}
			l.CreateTable(len(reqs), 0)
			for i, r := range reqs {
				l.PushString(r)
				l.RawSetInt(-2, i+1)
			}
			return 1
		}},
		{Name: "isGridSquareVisible", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			l.PushBoolean(api.IsGridSquareVisible(x, y))
			return 1
		}},
		{Name: "setGridSquareVisible", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			visible := true
			if !l.IsNoneOrNil(3) {
				visible = l.ToBoolean(3)
			}
			l.PushBoolean(api.SetGridSquareVisible(x, y, visible))
			return 1
		}},
		{Name: "addItemToGrid", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			l.PushBoolean(api.AddItemToGrid(x, y, lua.CheckString(l, 3)))
			return 1
		}},
		{Name: "removeItemFromGrid", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			l.PushBoolean(api.RemoveItemFromGrid(x, y))
			return 1
		}},
		{Name: "setGridItemName", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			l.PushBoolean(api.SetGridItemName(x, y, lua.CheckString(l, 3)))
			return 1
		}},
		{Name: "addObstacleToGrid", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			l.PushBoolean(api.AddObstacleToGrid(x, y, lua.CheckString(l, 3)))
			return 1
		}},
		{Name: "removeObstacleFromGrid", Function: func(l *lua.State) int {
			x, y := checkXY(l, 1)
			l.PushBoolean(api.RemoveObstacleFromGrid(x, y))
			return 1
		}},
		{Name: "requestMenuOption", Function: func(l *lua.State) int {
			l.PushBoolean(api.RequestMenuOption(lua.CheckString(l, 1), lua.CheckString(l, 2)))
			return 1
		}},
		{Name: "getCurrentDate", Function: func(l *lua.State) int {
			l.PushString(api.CurrentDate())
			return 1
		}},
		{Name: "getDaysElapsed", Function: func(l *lua.State) int {
			l.PushInteger(api.DaysElapsed())
			return 1
		}},
		{Name: "advanceDate", Function: func(l *lua.State) int {
			api.AdvanceDate()
			return 0
		}},
		{Name: "notifyPlayerMove", Function: func(l *lua.State) int {
			dir := lua.CheckString(l, 1)
			x, y := checkXY(l, 2)
			api.NotifyPlayerMove(dir, x, y)
			return 0
		}},
		{Name: "notifyItemAcquired", Function: func(l *lua.State) int {
			api.NotifyItemAcquired(lua.CheckString(l, 1), lua.OptInteger(l, 2, 1))
			return 0
		}},
		{Name: "notifyMenuSelected", Function: func(l *lua.State) int {
			api.NotifyMenuSelected(lua.CheckString(l, 1))
			return 0
		}},
		{Name: "log", Function: func(l *lua.State) int {
			log.Info(lua.CheckString(l, 1))
			return 0
		}},
	}, 0)
	l.SetGlobal(APIGlobal)
}

func checkXY(l *lua.State, first int) (int, int) {
	return lua.CheckInteger(l, first), lua.CheckInteger(l, first+1)
}

func pushOptString(l *lua.State, s string) {
	if s == "" {
		l.PushNil()
		return
	}
	l.PushString(s)
}
