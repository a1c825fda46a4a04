package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/apparentlyarhm/validator/types"
	scribble "github.com/nanobox-io/golang-scribble"
)

// An Executions implements storage.ExecutionsStore
type Executions struct {
	driver *scribble.Driver
}

// Insert implements storage.ExecutionsStore.Insert
func (e Executions) Insert(ex types.Execution) error {
	if ex.ID == "" {
		return errors.New("jsonstore: execution has no id")
	}
	return e.driver.Write(executionsCollection, ex.ID, ex)
}

// Recent implements storage.ExecutionsStore.Recent. The whole collection is
// read and sorted on every call.
func (e Executions) Recent(limit int) ([]types.Execution, error) {
	records, err := e.driver.ReadAll(executionsCollection)
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %s: %w", executionsCollection, err)
	}

	out := make([]types.Execution, 0, len(records))
	for _, r := range records {
		var ex types.Execution
		if err := json.Unmarshal([]byte(r), &ex); err != nil {
			log.WithError(err).Warn("skipping unreadable execution")
			continue
		}
		out = append(out, ex)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
