package gameapi

import (
	"net/http"
	"strconv"

	"github.com/apparentlyarhm/validator/types"
	"github.com/gorilla/mux"
)

const (
	defaultExecutionsLimit = 50
	maxExecutionsLimit     = 500
)

type executionsLister interface {
	Recent(limit int) ([]types.Execution, error)
}

type executions struct {
	el executionsLister
}

func initExecutions(el executionsLister, api *mux.Router) {
	e := executions{el: el}

	api.HandleFunc("/executions", e.handle).Methods(http.MethodGet)
}

func (e executions) handle(w http.ResponseWriter, r *http.Request) {
	rc, err := getRequestContext(r.Context())
	if err != nil {
		handleError(w, types.RESTError{
			Error:      "Error finding request identity",
			StatusCode: http.StatusInternalServerError,
		})
		return
	}
	eLog := logWithRequest(r.RequestURI, rc)

	if rc.role != types.RoleAdmin {
		handleError(w, types.RESTError{
			Error:      "Executions require the admin role",
			StatusCode: http.StatusForbidden,
		})
		return
	}

	limit := defaultExecutionsLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			handleError(w, types.RESTError{
				Error:      "Invalid limit",
				StatusCode: http.StatusBadRequest,
			})
			return
		}
		if limit > maxExecutionsLimit {
			limit = maxExecutionsLimit
		}
	}

	list, err := e.el.Recent(limit)
	if err != nil {
		eLog.WithError(err).Error("could not read executions")
		handleError(w, types.RESTError{
			Error:      "Could not read executions",
			StatusCode: http.StatusInternalServerError,
		})
		return
	}

	if err := writeJSON(w, list); err != nil {
		eLog.WithError(err).Error("http response failed to write")
	}
}
