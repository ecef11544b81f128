// Package service implements the graph coloring workflow on top of the
// repository.
//
// ColorService imports graphs through the codec package, stores them, runs
// the colorizer against a stored graph and persists the resulting render
// colors. Runs on the same graph are serialized; runs on different graphs
// proceed in parallel.
//
// # Event System
//
// Every state change is published on an EventBus so connected clients can
// follow imports, colorize runs and deletions over Server-Sent Events.
package service
