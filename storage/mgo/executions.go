package mgo

import (
	"github.com/apparentlyarhm/validator/types"
	"github.com/globalsign/mgo"
)

// An Executions implements storage.ExecutionsStore
type Executions struct {
	collection *mgo.Collection // the executions collection
}

// Insert implements storage.ExecutionsStore.Insert
func (e Executions) Insert(ex types.Execution) error {
	return e.collection.Insert(ex)
}

// Recent implements storage.ExecutionsStore.Recent
func (e Executions) Recent(limit int) ([]types.Execution, error) {
	q := e.collection.Find(nil).Sort("-created_at")
	if limit > 0 {
		q = q.Limit(limit)
	}

	out := []types.Execution{}
	if err := q.All(&out); err != nil {
		return nil, err
	}
	return out, nil
}
