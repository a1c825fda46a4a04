package gameapi

import (
	"context"
	"errors"
)

type contextKey int

const (
	contextKeyRequestUUID contextKey = iota
	contextKeyRequester
	contextKeyRole
)

type requestContext struct {
	requestUUID string
	requester   string
	role        string
}

func getRequestContext(ctx context.Context) (requestContext, error) {
	var rc requestContext

	rc.requestUUID, _ = ctx.Value(contextKeyRequestUUID).(string)

	var ok bool
	if rc.requester, ok = ctx.Value(contextKeyRequester).(string); !ok {
		return rc, errors.New("requester not found in context")
	}
	if rc.role, ok = ctx.Value(contextKeyRole).(string); !ok {
		return rc, errors.New("role not found in context")
	}
	return rc, nil
}
