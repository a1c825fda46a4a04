package gameapi

import (
	vlog "github.com/apparentlyarhm/validator/log"
	"github.com/sirupsen/logrus"
)

var log = vlog.Log.WithField("sys", "API")

func logWithRequest(requestURI string, rc requestContext) *logrus.Entry {
	return log.WithFields(
		logrus.Fields{
			"URI":       requestURI,
			"rID":       rc.requestUUID,
			"requester": rc.requester,
		},
	)
}
