// Package config reads gridquest map files.
//
// A map file is plain text made of declarations, one keyword per
// declaration, continued over as many lines as needed:
//
//	size     (4,4)
//	start    (0,0)
//	goal     (3,3)
//	item     "Key" { at (1,0) message "A small brass key." }
//	obstacle { at (2,0) requires "Key" }
//	plugin   gridquest.plugins.Reveal
//	script   !{ ... Lua ... }
//
// Parse never fails. Declarations it cannot use are dropped and recorded in
// GameConfig.Diagnostics, so a sloppy file still loads whatever it can.
// Items declared twice under one name share a single entry, as do obstacles
// with the same set of requirements.
//
// Manager serves maps out of a directory, decoding each file by its suffix
// (name.map or name.utf8.map for UTF-8, name.utf16.map, name.utf32.map) and
// caching the parsed result.
package config
