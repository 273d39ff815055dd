package server

/*
Package `server` exposes the dataset over a line oriented TCP protocol.

Each connection is served by its own goroutine, that reads one command per line and writes back one reply per line,
in order. Commands are parsed and evaluated by the `commands` package against a shared `store.Store`.

Any client can stop the whole server with `z`: the listener is closed right away, idle connections are unblocked and
closed, and connections in the middle of a command finish writing their reply first. Connections still open after
the grace period are closed forcibly.

hey-wdi doesn't try to protect itself from malicious users.
*/
