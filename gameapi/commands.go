package gameapi

import (
	"net/http"

	"github.com/apparentlyarhm/validator/commands"
	"github.com/gorilla/mux"
)

func initCommands(api *mux.Router) {
	api.HandleFunc("/commands", listCommands).Methods(http.MethodGet)
}

// listCommands reports the whole catalog, including disabled commands, so
// clients can grey them out.
func listCommands(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, commands.All()); err != nil {
		log.WithError(err).Error("http response failed to write")
	}
}
