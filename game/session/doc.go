// Package session runs games.
//
// A Session wires one map into a playable game: it builds the world, puts
// an event bus and capability facade in front of it, loads the native
// plugins the map names and runs its scripts. Move is the only way the
// player acts on the world and always follows the same order:
//
//  1. work out the destination and check it can be entered
//  2. move the player (fog, day counter and pickup happen here)
//  3. announce the pickup, if there was one
//  4. announce the move
//  5. check for the win, which is handled once
//
// Extensions see the world as it is after each step and may change it;
// later steps see those changes.
//
// Manager keeps sessions in memory under short random ids.
//
// Usage:
//
//	manager := session.NewManager(session.WithLogger(log))
//	sess, err := manager.Create("", cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := sess.Move("right")
package session
