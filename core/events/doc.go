// Package events publishes registry lifecycle events.
//
// When a NATS URL is configured every successfully swapped snapshot is announced
// on the configured subject; otherwise a Noop publisher is used.
package events
