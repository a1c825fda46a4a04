package gameapi

import (
	"net/http"

	"github.com/apparentlyarhm/validator/types"
	"github.com/gorilla/mux"
)

func initPing(r *mux.Router) {
	r.HandleFunc("/api/ping", ping).Methods(http.MethodGet)
}

func ping(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, types.CommonResponse{Message: "pong!"}); err != nil {
		log.WithError(err).Error("http response failed to write")
	}
}
