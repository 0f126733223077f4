// Package core contains the issue client contracts, the change-tracking entity
// collection and the client orchestration that saves field deltas. Transport
// and signing adapters depend on this package; core must not depend on them.
package core
