package gameapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/apparentlyarhm/validator/query"
	"github.com/apparentlyarhm/validator/types"
	"github.com/gorilla/mux"
)

type statusQuerier interface {
	Status(ctx context.Context, host string, port int) (query.ServerStatus, error)
}

type serverInfo struct {
	sq   statusQuerier
	host string
	port int
}

func initServerInfo(sq statusQuerier, host string, port int, api *mux.Router) {
	si := serverInfo{sq: sq, host: host, port: port}

	api.HandleFunc("/server-info", si.handle).Methods(http.MethodGet)
}

// handle queries the game server. The address and port parameters override
// the configured server.
func (si serverInfo) handle(w http.ResponseWriter, r *http.Request) {
	rc, err := getRequestContext(r.Context())
	if err != nil {
		handleError(w, types.RESTError{
			Error:      "Error finding request identity",
			StatusCode: http.StatusInternalServerError,
		})
		return
	}
	siLog := logWithRequest(r.RequestURI, rc)

	host := si.host
	if a := r.URL.Query().Get("address"); a != "" {
		host = a
	}

	port := si.port
	if p := r.URL.Query().Get("port"); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			handleError(w, types.RESTError{
				Error:      "Invalid port",
				StatusCode: http.StatusBadRequest,
			})
			return
		}
	}

	status, err := si.sq.Status(r.Context(), host, port)
	if err != nil {
		siLog.WithError(err).Warn("server query failed")
		handleError(w, errorFor(err))
		return
	}

	if err := writeJSON(w, status.Info()); err != nil {
		siLog.WithError(err).Error("http response failed to write")
	}
}
