// Package handler implements the HTTP API.
//
// Graphs are imported by POSTing a document to /api/graphs, colored with
// POST /api/graphs/{id}/colorize and read back either whole, as a render view
// or exported in any supported format. Every failure is returned as a JSON
// ErrorResponse. A colorize run that finds no color column answers 422 with
// the run report; malformed values on individual nodes still answer 200 and
// are listed in the report's failures.
//
// The router also serves /healthz, /metrics and the /events SSE stream.
package handler
