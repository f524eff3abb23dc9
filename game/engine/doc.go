// Package engine holds the world state of a gridquest session.
//
// A World is built once from a parsed map and then mutated by moves and
// by extensions. It owns the grid, the fog of war, the player's position
// and inventory, and the day counter.
//
// Rules:
//   - Empty, goal and item cells can always be entered.
//   - An obstacle can be entered once the inventory holds at least one of
//     each required item. Requirements are never consumed.
//   - Entering a cell reveals the 3x3 block around it and spends one day.
//     Items on the destination are picked up as part of the move.
//   - The game is won when the player stands on the goal.
//
// Every query is bounds-checked and returns a zero value off the grid.
// Every mutator returns false and changes nothing when its precondition
// fails. World does no event dispatch; see package session for the move
// sequence that drives extensions.
//
// Usage:
//
//	cfg := config.Parse(text)
//	world, err := engine.NewWorld(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if to, ok := world.Destination(engine.Right); ok {
//		out := world.MovePlayerTo(to.X, to.Y)
//		fmt.Println(out.Moved, out.Picked)
//	}
package engine
