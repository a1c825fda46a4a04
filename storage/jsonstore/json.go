// Package jsonstore keeps the data store as JSON documents on local disk.
package jsonstore

import (
	"fmt"
	"os"
	"path/filepath"

	vlog "github.com/apparentlyarhm/validator/log"
	"github.com/apparentlyarhm/validator/storage"
	scribble "github.com/nanobox-io/golang-scribble"
)

var log = vlog.Log.WithField("sys", "JSON")

const executionsCollection = "executions"

// A JSON implements storage.Storage with one file per record under dataPath.
type JSON struct {
	dataPath string
	driver   *scribble.Driver
}

// NewJSON returns a JSON store rooted at dataPath. Init must be called
// before use.
func NewJSON(dataPath string) *JSON {
	return &JSON{dataPath: dataPath}
}

// Init implements storage.Storage.Init
func (j *JSON) Init() error {
	driver, err := scribble.New(j.dataPath, nil)
	if err != nil {
		return fmt.Errorf("jsonstore: open %s: %w", j.dataPath, err)
	}

	if err := os.MkdirAll(filepath.Join(j.dataPath, executionsCollection), 0755); err != nil {
		return fmt.Errorf("jsonstore: create %s: %w", executionsCollection, err)
	}

	j.driver = driver
	log.WithField("path", j.dataPath).Info("data store ready")
	return nil
}

// Copy returns itself
func (j *JSON) Copy() storage.Storage {
	return j
}

// Close does nothing
func (j *JSON) Close() {}

// Executions implements storage.Storage.Executions
func (j *JSON) Executions() storage.ExecutionsStore {
	return Executions{driver: j.driver}
}

var _ storage.Storage = (*JSON)(nil)
