package gameapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/apparentlyarhm/validator/query"
	"github.com/apparentlyarhm/validator/rcon"
	"github.com/apparentlyarhm/validator/storage"
	"github.com/blang/semver"
	"github.com/gorilla/mux"
)

// MinecraftConfig locates the game server and its console.
type MinecraftConfig struct {
	Host         string
	QueryPort    int
	RCONPort     int
	RCONPassword string
	RCON         rcon.Config
	Query        query.Config
}

// ServerConfig contains the base Server configuration
type ServerConfig struct {
	BindAddr  string
	Port      int
	Storage   storage.Storage
	Minecraft MinecraftConfig

	// APIKeys maps bearer tokens to a role, types.RoleAdmin or types.RoleUser.
	APIKeys map[string]string

	// MinClientVersion, when set, rejects clients that do not send an
	// X-Validator-Client-Version of at least this version.
	MinClientVersion *semver.Version
}

// A Server runs the HTTP API in front of the game server.
type Server struct {
	http.Server
	sc *ServerConfig
}

// NewServer creates a Server
func NewServer(sc *ServerConfig) *Server {
	s := Server{
		Server: http.Server{
			Addr:              fmt.Sprintf("%s:%d", sc.BindAddr, sc.Port),
			ReadHeaderTimeout: 10 * time.Second,
		},
		sc: sc,
	}

	s.Handler = newRouter(sc, minecraftConsole{mc: sc.Minecraft}, minecraftStatus{cfg: sc.Minecraft.Query})
	return &s
}

func newRouter(sc *ServerConfig, c console, sq statusQuerier) *mux.Router {
	requestUUID := requestUUID{}
	apiAuth := apiAuth{keys: sc.APIKeys}
	clientVersion := clientVersion{min: sc.MinClientVersion}

	r := mux.NewRouter()
	r.Use(requestUUID.handle)

	// Liveness needs no credentials.
	initPing(r)

	// Handles all other /api requests, and sets the caller identity
	api := r.PathPrefix("/api").Subrouter()
	api.Use(clientVersion.handle)
	api.Use(apiAuth.handle)

	initCommands(api)

	initServerInfo(sq, sc.Minecraft.Host, sc.Minecraft.QueryPort, api)

	initRCON(c, sc.Storage.Executions(), api)

	initExecutions(sc.Storage.Executions(), api)

	return r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go func() {
		log.Printf("Starting HTTP Server on %s:%d", s.sc.BindAddr, s.sc.Port)
		if err := s.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Warn("HTTP server died with error")
		} else {
			log.Print("HTTP server graceful shutdown")
		}
	}()

	return nil
}

// Stop stops the http server
func (s *Server) Stop() {
	log.Warn("Shutting down HTTP server ...")

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Shutdown request error")
		}
	}()
	wg.Wait()
}

// minecraftConsole runs each command on a fresh RCON connection.
type minecraftConsole struct {
	mc MinecraftConfig
}

func (m minecraftConsole) Run(ctx context.Context, command string) (string, error) {
	return rcon.Exec(ctx, m.mc.RCON, m.mc.Host, m.mc.RCONPort, m.mc.RCONPassword, command)
}

type minecraftStatus struct {
	cfg query.Config
}

func (m minecraftStatus) Status(ctx context.Context, host string, port int) (query.ServerStatus, error) {
	return query.Query(ctx, m.cfg, host, port)
}
