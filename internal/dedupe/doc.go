// Package dedupe provides activity deduplication using a time-based cache
// to prevent processing redelivered inbound activities within a
// configurable window.
package dedupe
