package gameapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/apparentlyarhm/validator/types"
	"github.com/blang/semver"
	"github.com/gofrs/uuid"
)

// requesterNamespace derives stable requester ids from API keys so that keys
// never reach logs or the audit store.
var requesterNamespace = uuid.Must(uuid.FromString("5b0c8a4e-6f3d-4c1e-9a57-1f2de0c3b7a9"))

// requesterID returns the audit identity of an API key.
func requesterID(key string) string {
	return uuid.NewV5(requesterNamespace, key).String()
}

type apiAuth struct {
	keys map[string]string
}

func (aa apiAuth) handle(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			s := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(s) != 2 || !strings.EqualFold(s[0], "Bearer") {
				handleError(w, types.RESTError{
					StatusCode: http.StatusUnauthorized,
					Error:      "Missing bearer token",
				})
				return
			}

			role, ok := aa.keys[s[1]]
			if !ok {
				log.WithField("URI", r.RequestURI).Info("unknown API key")
				handleError(w, types.RESTError{
					StatusCode: http.StatusUnauthorized,
					Error:      "Invalid API key",
				})
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyRequester, requesterID(s[1]))
			ctx = context.WithValue(ctx, contextKeyRole, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

type clientVersion struct {
	min *semver.Version
}

func (cv clientVersion) handle(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if cv.min == nil {
				next.ServeHTTP(w, r)
				return
			}

			version, err := semver.ParseTolerant(r.Header.Get("X-Validator-Client-Version"))
			if err != nil {
				handleError(w, types.RESTError{
					StatusCode: http.StatusBadRequest,
					Error:      "Could not read client version",
				})
				return
			}
			if version.LT(*cv.min) {
				handleError(w, types.RESTError{
					StatusCode: http.StatusBadRequest,
					Error:      "Client must be updated to " + cv.min.String() + " or later",
				})
				return
			}

			next.ServeHTTP(w, r)
		},
	)
}
