package gameapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apparentlyarhm/validator/commands"
	"github.com/apparentlyarhm/validator/errs"
	"github.com/apparentlyarhm/validator/rcon"
	"github.com/apparentlyarhm/validator/types"
)

func handleError(w http.ResponseWriter, restError types.RESTError) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(restError.StatusCode)
	return json.NewEncoder(w).Encode(restError)
}

func writeJSON(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// statusFor maps a failure to the HTTP status reported to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, commands.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnsupportedCommand),
		errors.Is(err, commands.ErrArity),
		errors.Is(err, commands.ErrInvalidArgument),
		errors.Is(err, rcon.ErrInvalidBody):
		return http.StatusBadRequest
	case errs.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errs.ErrAuthentication),
		errors.Is(err, errs.ErrConnection),
		errors.Is(err, errs.ErrProtocol):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorFor(err error) types.RESTError {
	return types.RESTError{StatusCode: statusFor(err), Error: err.Error()}
}
