// Package sqlite persists combat matches, bonded-creature growth and the
// notification journal in a single SQLite database.
package sqlite
