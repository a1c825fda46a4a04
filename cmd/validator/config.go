package main

import (
	"fmt"
	"strings"

	"github.com/apparentlyarhm/validator/gameapi"
	"github.com/apparentlyarhm/validator/query"
	"github.com/apparentlyarhm/validator/rcon"
	"github.com/apparentlyarhm/validator/storage"
	"github.com/apparentlyarhm/validator/storage/jsonstore"
	"github.com/apparentlyarhm/validator/storage/mgo"
	"github.com/apparentlyarhm/validator/types"
	"github.com/blang/semver"
	"github.com/spf13/viper"
)

func setDefaults(cfg *viper.Viper) {
	cfg.SetDefault("http.bind_addr", "")
	cfg.SetDefault("http.port", 9090)
	cfg.SetDefault("minecraft.host", "localhost")
	cfg.SetDefault("minecraft.query-port", 25565)
	cfg.SetDefault("rcon.port", 25575)
	cfg.SetDefault("rcon.pass", "YOUR RCON PASSWORD")
	cfg.SetDefault("rcon.dial-timeout", rcon.DefaultDialTimeout.String())
	cfg.SetDefault("rcon.io-timeout", rcon.DefaultIOTimeout.String())
	cfg.SetDefault("rcon.reassembly", "sentinel")
	cfg.SetDefault("query.timeout", query.DefaultTimeout.String())
	cfg.SetDefault("storage", "json")
	cfg.SetDefault("json-store.path", "data")
	cfg.SetDefault("mongo.dial", "mongodb://localhost:27017")
	cfg.SetDefault("mongo.database", "validator")
	cfg.SetDefault("api.keys.admin", []string{})
	cfg.SetDefault("api.keys.user", []string{})
	cfg.SetDefault("api.min-client-version", "")
}

func newRCONConfig(cfg *viper.Viper) (rcon.Config, error) {
	rc := rcon.Config{
		DialTimeout: cfg.GetDuration("rcon.dial-timeout"),
		IOTimeout:   cfg.GetDuration("rcon.io-timeout"),
	}

	switch r := strings.ToLower(cfg.GetString("rcon.reassembly")); r {
	case "", "sentinel":
		rc.Reassembly = rcon.NewSentinelReassembler
	case "size":
		rc.Reassembly = rcon.NewSizeReassembler
	default:
		return rc, fmt.Errorf("rcon.reassembly: unknown scheme %q", r)
	}
	return rc, nil
}

func newAPIKeys(cfg *viper.Viper) (map[string]string, error) {
	keys := map[string]string{}
	for _, role := range []string{types.RoleUser, types.RoleAdmin} {
		for _, k := range cfg.GetStringSlice("api.keys." + role) {
			if k == "" {
				continue
			}
			if prev, ok := keys[k]; ok && prev != role {
				return nil, fmt.Errorf("api.keys: key configured for both %s and %s", prev, role)
			}
			keys[k] = role
		}
	}
	return keys, nil
}

func newServerConfig(cfg *viper.Viper, store storage.Storage) (*gameapi.ServerConfig, error) {
	rc, err := newRCONConfig(cfg)
	if err != nil {
		return nil, err
	}

	keys, err := newAPIKeys(cfg)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		log.Warn("No API keys configured; every API request except ping will be refused")
	}

	sc := &gameapi.ServerConfig{
		BindAddr: cfg.GetString("http.bind_addr"),
		Port:     cfg.GetInt("http.port"),
		Storage:  store,
		Minecraft: gameapi.MinecraftConfig{
			Host:         cfg.GetString("minecraft.host"),
			QueryPort:    cfg.GetInt("minecraft.query-port"),
			RCONPort:     cfg.GetInt("rcon.port"),
			RCONPassword: cfg.GetString("rcon.pass"),
			RCON:         rc,
			Query:        query.Config{Timeout: cfg.GetDuration("query.timeout")},
		},
		APIKeys: keys,
	}

	if v := cfg.GetString("api.min-client-version"); v != "" {
		min, err := semver.ParseTolerant(v)
		if err != nil {
			return nil, fmt.Errorf("api.min-client-version: %w", err)
		}
		sc.MinClientVersion = &min
	}

	return sc, nil
}

func newStorage(cfg *viper.Viper) (storage.Storage, error) {
	switch s := cfg.GetString("storage"); s {
	case "json":
		return jsonstore.NewJSON(cfg.GetString("json-store.path")), nil
	case "mongodb":
		return mgo.NewMgo(mgo.Config{
			DialAddress: cfg.GetString("mongo.dial"),
			Database:    cfg.GetString("mongo.database"),
		})
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", s)
	}
}
