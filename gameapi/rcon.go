package gameapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/apparentlyarhm/validator/commands"
	"github.com/apparentlyarhm/validator/rcon"
	"github.com/apparentlyarhm/validator/types"
	"github.com/apparentlyarhm/validator/vclock"
	"github.com/gofrs/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type console interface {
	Run(ctx context.Context, command string) (string, error)
}

type executionsInserter interface {
	Insert(types.Execution) error
}

type rconRequest struct {
	Command     string   `json:"command"`
	Arguments   []string `json:"arguments"`
	StripColors bool     `json:"strip_colors"`
}

type rconHandler struct {
	c       console
	ei      executionsInserter
	timeout time.Duration
}

func initRCON(c console, ei executionsInserter, api *mux.Router) {
	rh := rconHandler{c: c, ei: ei, timeout: 30 * time.Second}

	api.HandleFunc("/rcon", rh.handle).Methods(http.MethodPost)
}

// handle runs one catalog command on the game server console. Everything that
// reaches the console is recorded in the executions store.
func (rh rconHandler) handle(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	rc, err := getRequestContext(r.Context())
	if err != nil {
		handleError(w, types.RESTError{
			Error:      "Error finding request identity",
			StatusCode: http.StatusInternalServerError,
		})
		return
	}
	rhLog := logWithRequest(r.RequestURI, rc)

	var req rconRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rhLog.WithError(err).Info("Invalid JSON")
		handleError(w, types.RESTError{
			Error:      "Invalid request",
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	cmd, err := commands.Lookup(req.Command)
	if err != nil {
		handleError(w, errorFor(err))
		return
	}
	rhLog = rhLog.WithField("cmd", cmd.Name)

	if cmd.AdminOnly && rc.role != types.RoleAdmin {
		rhLog.Warn("admin-only command refused")
		handleError(w, types.RESTError{
			Error:      cmd.Name + " requires the admin role",
			StatusCode: http.StatusForbidden,
		})
		return
	}

	text, err := cmd.Format(req.Arguments...)
	if err != nil {
		handleError(w, errorFor(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), rh.timeout)
	defer cancel()

	start := vclock.Clock().Now()
	out, err := rh.c.Run(ctx, text)
	rh.record(rhLog, rc, cmd, req.Arguments, start, err)

	if err != nil {
		rhLog.WithError(err).Warn("command failed")
		handleError(w, errorFor(err))
		return
	}

	if req.StripColors {
		out = rcon.StripColorCodes(out)
	}

	if err := writeJSON(w, types.CommonResponse{Message: out}); err != nil {
		rhLog.WithError(err).Error("http response failed to write")
	}
}

func (rh rconHandler) record(l *logrus.Entry, rc requestContext, cmd commands.Command, args []string, start time.Time, runErr error) {
	id, err := uuid.NewV4()
	if err != nil {
		l.WithError(err).Error("could not create execution id")
		return
	}
	if args == nil {
		args = []string{}
	}

	ex := types.Execution{
		ID:        id.String(),
		Requester: rc.requester,
		Role:      rc.role,
		Command:   cmd.Name,
		Arguments: args,
		Success:   runErr == nil,
		Duration:  vclock.Clock().Since(start).String(),
		CreatedAt: start.UTC(),
	}
	if runErr != nil {
		ex.Error = runErr.Error()
	}

	if err := rh.ei.Insert(ex); err != nil {
		l.WithError(err).Error("could not record execution")
	}
}
