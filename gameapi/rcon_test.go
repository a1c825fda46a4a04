package gameapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/apparentlyarhm/validator/errs"
	"github.com/apparentlyarhm/validator/storage/mocks"
	"github.com/apparentlyarhm/validator/types"
	"github.com/apparentlyarhm/validator/vclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type consoleFake struct {
	out string
	err error
	got string
}

func (c *consoleFake) Run(ctx context.Context, command string) (string, error) {
	c.got = command
	return c.out, c.err
}

func withRequester(r *http.Request, role string) *http.Request {
	ctx := context.WithValue(r.Context(), contextKeyRequestUUID, "request-1")
	ctx = context.WithValue(ctx, contextKeyRequester, "requester-1")
	ctx = context.WithValue(ctx, contextKeyRole, role)
	return r.WithContext(ctx)
}

func TestRCON_Handle(t *testing.T) {
	now := vclock.Mock()
	now.Add(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Sub(now.Now()))

	tests := []struct {
		name    string
		role    string
		rBody   string
		console *consoleFake
		sent    string // console text, empty if the console must not be reached
		status  int
		body    string
		ex      *types.Execution // recorded execution, nil if none
	}{
		{
			name:    "invalid JSON",
			role:    types.RoleUser,
			rBody:   "{",
			console: &consoleFake{},
			status:  http.StatusBadRequest,
			body:    `{"status_code":400,"error":"Invalid request"}`,
		},
		{
			name:    "unknown command",
			role:    types.RoleAdmin,
			rBody:   `{"command":"OP","arguments":["bob"]}`,
			console: &consoleFake{},
			status:  http.StatusNotFound,
		},
		{
			name:    "disabled command",
			role:    types.RoleAdmin,
			rBody:   `{"command":"GIVE","arguments":["bob","dirt","1"]}`,
			console: &consoleFake{},
			status:  http.StatusBadRequest,
		},
		{
			name:    "admin only",
			role:    types.RoleUser,
			rBody:   `{"command":"STOP"}`,
			console: &consoleFake{},
			status:  http.StatusForbidden,
			body:    `{"status_code":403,"error":"STOP requires the admin role"}`,
		},
		{
			name:    "wrong arity",
			role:    types.RoleUser,
			rBody:   `{"command":"TELEPORT","arguments":["alice"]}`,
			console: &consoleFake{},
			status:  http.StatusBadRequest,
		},
		{
			name:    "success",
			role:    types.RoleUser,
			rBody:   `{"command":"kick","arguments":["Notch"]}`,
			console: &consoleFake{out: "Kicked §eNotch§r from the game"},
			sent:    "kick Notch",
			status:  http.StatusOK,
			body:    `{"message":"Kicked §eNotch§r from the game"}`,
			ex: &types.Execution{
				Requester: "requester-1",
				Role:      types.RoleUser,
				Command:   "KICK",
				Arguments: []string{"Notch"},
				Success:   true,
				Duration:  "0s",
				CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		{
			name:    "strip colors",
			role:    types.RoleAdmin,
			rBody:   `{"command":"STOP","strip_colors":true}`,
			console: &consoleFake{out: "§cStopping the server"},
			sent:    "stop",
			status:  http.StatusOK,
			body:    `{"message":"Stopping the server"}`,
			ex: &types.Execution{
				Requester: "requester-1",
				Role:      types.RoleAdmin,
				Command:   "STOP",
				Arguments: []string{},
				Success:   true,
				Duration:  "0s",
				CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		{
			name:    "console unreachable",
			role:    types.RoleUser,
			rBody:   `{"command":"SAY","arguments":["hello"]}`,
			console: &consoleFake{err: fmt.Errorf("rcon: dial: %w", errs.ErrConnection)},
			sent:    "say hello",
			status:  http.StatusBadGateway,
			ex: &types.Execution{
				Requester: "requester-1",
				Role:      types.RoleUser,
				Command:   "SAY",
				Arguments: []string{"hello"},
				Error:     "rcon: dial: connection error",
				Duration:  "0s",
				CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := &mocks.ExecutionsStore{}
			var recorded types.Execution
			if tt.ex != nil {
				es.On("Insert", mock.AnythingOfType("types.Execution")).
					Run(func(args mock.Arguments) { recorded = args.Get(0).(types.Execution) }).
					Return(nil).Once()
			}

			rh := rconHandler{c: tt.console, ei: es, timeout: time.Second}

			req := httptest.NewRequest(http.MethodPost, "/api/rcon", strings.NewReader(tt.rBody))
			rr := httptest.NewRecorder()
			http.HandlerFunc(rh.handle).ServeHTTP(rr, withRequester(req, tt.role))

			assert.Equal(t, tt.status, rr.Code, "handler returned wrong status code")
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rr.Body.String())
			}
			assert.Equal(t, tt.sent, tt.console.got)

			es.AssertExpectations(t)
			if tt.ex != nil {
				assert.NotEmpty(t, recorded.ID)
				recorded.ID = ""
				assert.Equal(t, *tt.ex, recorded)
			}
		})
	}
}

func TestRCON_HandleStoreFailure(t *testing.T) {
	es := &mocks.ExecutionsStore{}
	es.On("Insert", mock.Anything).Return(fmt.Errorf("disk full"))

	rh := rconHandler{c: &consoleFake{out: "ok"}, ei: es, timeout: time.Second}

	req := httptest.NewRequest(http.MethodPost, "/api/rcon", strings.NewReader(`{"command":"SAY","arguments":["hi"]}`))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rh.handle).ServeHTTP(rr, withRequester(req, types.RoleUser))

	assert.Equal(t, http.StatusOK, rr.Code, "audit failures do not fail the command")
	es.AssertExpectations(t)
}
