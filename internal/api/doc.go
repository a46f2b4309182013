// Package api defines the wire types shared by the ewmsd HTTP server and
// its clients, plus a small client for the CLI.
//
// The API is the consumer contract for presentation layers: read access to
// the bed collection with live stay classification, the three transitions,
// and the empty-bed query. Clients poll GET /api/beds for countdown
// display; the endpoint is stateless, so any cadence works.
package api
