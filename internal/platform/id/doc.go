// Package id provides utilities for generating URL-safe identifiers.
//
// Identifiers are UUIDv4 bytes encoded as lowercase base32 (RFC 4648) with
// no padding: 26 characters, safe for URLs, file paths and Lua scripts.
package id
