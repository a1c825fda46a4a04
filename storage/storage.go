package storage

import (
	"github.com/apparentlyarhm/validator/types"
)

// ExecutionsStore is the audit log of console commands run through the API.
//
// Insert records one execution.
//
// Recent returns up to limit executions, newest first. A limit of zero or
// less returns all of them.
type ExecutionsStore interface {
	Insert(types.Execution) error
	Recent(limit int) ([]types.Execution, error)
}

// Storage is a complete implementation of the data store.
//
// Copy creates a new DB connection. Should always close the connection when
// you're done with it.
//
// Close closes the session.
//
// Init creates indexes, and should always be called when Storage is first
// being set up.
type Storage interface {
	Copy() Storage
	Close()
	Init() error
	Executions() ExecutionsStore
}
