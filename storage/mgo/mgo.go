// Package mgo implements storage on MongoDB.
package mgo

import (
	"fmt"
	"time"

	vlog "github.com/apparentlyarhm/validator/log"
	"github.com/apparentlyarhm/validator/storage"
	"github.com/globalsign/mgo"
)

var log = vlog.Log.WithField("sys", "MONGO")

const (
	executionsCollection = "executions"
	dialTimeout          = 10 * time.Second
)

// A Config is exactly what it sounds like.
type Config struct {
	DialAddress string // the mongo dial address
	Database    string // the database name
}

// NewMgo returns a connected Mgo
func NewMgo(mc Config) (*Mgo, error) {
	sess, err := mgo.DialWithTimeout(mc.DialAddress, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("mgo: dial: %w", err)
	}
	return &Mgo{session: sess, dbname: mc.Database}, nil
}

// A Mgo implements storage.Storage for MongoDB
type Mgo struct {
	dbname  string
	session *mgo.Session
}

// Copy implements storage.Storage.Copy
func (m Mgo) Copy() storage.Storage {
	return Mgo{session: m.session.Copy(), dbname: m.dbname}
}

// Close implements storage.Storage.Close
func (m Mgo) Close() {
	m.session.Close()
}

// Executions implements storage.Storage.Executions
func (m Mgo) Executions() storage.ExecutionsStore {
	return Executions{collection: m.session.DB(m.dbname).C(executionsCollection)}
}

// Init implements storage.Storage.Init
func (m Mgo) Init() error {
	log.WithField("db", m.dbname).Info("initializing database")

	err := m.session.DB(m.dbname).C(executionsCollection).EnsureIndex(mgo.Index{
		Key:        []string{"-created_at"},
		Background: true,
	})
	if err != nil {
		return fmt.Errorf("mgo: index %s: %w", executionsCollection, err)
	}
	return nil
}

var _ storage.Storage = Mgo{}
