package gameapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apparentlyarhm/validator/query"
	"github.com/apparentlyarhm/validator/storage/mocks"
	"github.com/apparentlyarhm/validator/types"
	"github.com/blang/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type statusFake struct {
	status query.ServerStatus
	err    error
	host   string
	port   int
}

func (s *statusFake) Status(ctx context.Context, host string, port int) (query.ServerStatus, error) {
	s.host, s.port = host, port
	return s.status, s.err
}

func newTestRouter(t *testing.T, min *semver.Version) (http.Handler, *consoleFake, *mocks.ExecutionsStore) {
	t.Helper()

	es := &mocks.ExecutionsStore{}
	st := &mocks.Storage{}
	st.On("Executions").Return(es)

	sc := &ServerConfig{
		Storage: st,
		Minecraft: MinecraftConfig{
			Host:      "mc.example.com",
			QueryPort: 25565,
		},
		APIKeys: map[string]string{
			"admin-key": types.RoleAdmin,
			"user-key":  types.RoleUser,
		},
		MinClientVersion: min,
	}

	c := &consoleFake{out: "There are 0 of a max of 20 players online:"}
	sq := &statusFake{status: query.ServerStatus{Fields: map[string]string{"hostname": "A Minecraft Server"}}}
	return newRouter(sc, c, sq), c, es
}

func TestRouter(t *testing.T) {
	t.Parallel()

	minVersion := semver.MustParse("1.2.0")

	tests := []struct {
		name    string
		min     *semver.Version
		method  string
		path    string
		headers map[string]string
		rBody   string
		status  int
	}{
		{name: "ping without key", method: http.MethodGet, path: "/api/ping", status: http.StatusOK},
		{name: "commands without key", method: http.MethodGet, path: "/api/commands", status: http.StatusUnauthorized},
		{
			name:    "unknown key",
			method:  http.MethodGet,
			path:    "/api/commands",
			headers: map[string]string{"Authorization": "Bearer nope"},
			status:  http.StatusUnauthorized,
		},
		{
			name:    "basic auth is not a bearer token",
			method:  http.MethodGet,
			path:    "/api/commands",
			headers: map[string]string{"Authorization": "Basic user-key"},
			status:  http.StatusUnauthorized,
		},
		{
			name:    "commands",
			method:  http.MethodGet,
			path:    "/api/commands",
			headers: map[string]string{"Authorization": "Bearer user-key"},
			status:  http.StatusOK,
		},
		{
			name:    "server info",
			method:  http.MethodGet,
			path:    "/api/server-info",
			headers: map[string]string{"Authorization": "Bearer user-key"},
			status:  http.StatusOK,
		},
		{
			name:    "executions as user",
			method:  http.MethodGet,
			path:    "/api/executions",
			headers: map[string]string{"Authorization": "Bearer user-key"},
			status:  http.StatusForbidden,
		},
		{
			name:    "rcon wrong method",
			method:  http.MethodGet,
			path:    "/api/rcon",
			headers: map[string]string{"Authorization": "Bearer admin-key"},
			status:  http.StatusMethodNotAllowed,
		},
		{
			name:    "client too old",
			min:     &minVersion,
			method:  http.MethodGet,
			path:    "/api/commands",
			headers: map[string]string{"Authorization": "Bearer user-key", "X-Validator-Client-Version": "1.1.9"},
			status:  http.StatusBadRequest,
		},
		{
			name:    "client version missing",
			min:     &minVersion,
			method:  http.MethodGet,
			path:    "/api/commands",
			headers: map[string]string{"Authorization": "Bearer user-key"},
			status:  http.StatusBadRequest,
		},
		{
			name:    "client new enough",
			min:     &minVersion,
			method:  http.MethodGet,
			path:    "/api/commands",
			headers: map[string]string{"Authorization": "Bearer user-key", "X-Validator-Client-Version": "v1.2.0"},
			status:  http.StatusOK,
		},
		{
			name:   "ping ignores client version",
			min:    &minVersion,
			method: http.MethodGet,
			path:   "/api/ping",
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _, _ := newTestRouter(t, tt.min)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.rBody))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status != http.StatusMethodNotAllowed {
				assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
			}
		})
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	t.Parallel()
	h, _, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"message":"pong!"}`, rr.Body.String())
}

func TestRouter_RCONRecordsRequester(t *testing.T) {
	t.Parallel()
	h, c, es := newTestRouter(t, nil)

	var recorded types.Execution
	es.On("Insert", mock.AnythingOfType("types.Execution")).
		Run(func(args mock.Arguments) { recorded = args.Get(0).(types.Execution) }).
		Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/rcon", strings.NewReader(`{"command":"SAY","arguments":["hi all"]}`))
	req.Header.Set("Authorization", "Bearer user-key")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "say hi all", c.got)

	var resp types.CommonResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, c.out, resp.Message)

	es.AssertExpectations(t)
	assert.Equal(t, requesterID("user-key"), recorded.Requester)
	assert.NotContains(t, recorded.Requester, "user-key")
	assert.Equal(t, types.RoleUser, recorded.Role)
}

func TestRequesterID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, requesterID("a"), requesterID("a"))
	assert.NotEqual(t, requesterID("a"), requesterID("b"))
}
