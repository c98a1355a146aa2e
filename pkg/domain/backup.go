package domain

import "time"

// OperationKind is the kind of a deferred mutation recorded in the backup log.
type OperationKind string

const (
	OpAdd    OperationKind = "add"
	OpUpdate OperationKind = "update"
	OpDelete OperationKind = "delete"
)

// PendingOperation is one entry of the backup log: a mutation that failed
// against the server and is queued for replay. Payload is set for add/update;
// delete carries only TransactionID. Entries are never mutated in place.
type PendingOperation struct {
	ID            int64
	Kind          OperationKind
	Payload       *Transaction
	TransactionID int64
	EnqueuedAt    time.Time
}
