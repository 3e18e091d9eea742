package types

// Relay -> Client
// Snapshot (text frame):
//   [ PlayerSnapshot, ... ]   // one JSON array per line of extractor output
//
// Diagnostic (text frame):
//   any non-JSON line the extractor wrote to its error stream
//
// Client -> Relay
// Heartbeat (text frame):
//   "ping"                    // no reply expected

const Heartbeat = "ping"
