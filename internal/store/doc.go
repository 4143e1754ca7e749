// Package store persists saved games in a SQLite database.
//
// Each save row holds the canonical JSON of a serialized game state
// plus the metadata needed to list and reload it: a UUID, a
// user-chosen name, and the datapack names the game was played under.
// Reloading a save requires loading the same datapacks first; the
// engine validates the document against the resulting ruleset.
package store
