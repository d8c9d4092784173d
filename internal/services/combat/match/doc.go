// Package match owns live combat sessions.
//
// A Match wraps one arena and serializes every mutation behind its own lock,
// so dispatches in different matches run in parallel while dispatches in the
// same match never interleave. After each dispatch the match persists growth,
// journals notifications, and forwards them to the feed.
package match
