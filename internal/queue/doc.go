// Package queue persists meeting runs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema migrations, stats queries,
// heartbeat tracking, stuck-item recovery, and status transitions that mirror
// the public workflow enum. Queue items capture progress, intermediate stage
// artifacts, and degradation warnings so stages can coordinate without
// additional state.
//
// Treat this package as the single source of truth for queue semantics; when
// you add new statuses or columns, add a migration under migrations/.
package queue
