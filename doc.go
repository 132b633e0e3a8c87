// Package wsclient is a thin reconnecting WebSocket client built on
// gorilla/websocket. A Client dials with custom handshake headers, sends
// text or JSON payloads, correlates application pings with their pongs and
// recovers from unexpected closures with a fixed-interval, budget-bounded
// reconnect. Inbound frames are decoded and handed to per-event handlers
// (message, error, connect, disconnect); a Manager groups independent named
// clients for bulk connect, close and status listing.
package wsclient
