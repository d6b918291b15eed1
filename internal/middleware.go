package internal

import (
	"github.com/go-kit/kit/endpoint"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/log"
)

// Defines an error that wraps a failure which is logged but not shown to the client
type internalErrorer interface {
	Internal() error
}

// LogFailures is a middleware that writes failed endpoint calls to the request's logger. Failures of the storage
// backend are logged as errors together with their cause - everything else is the client's fault.
func LogFailures(name string, fallback *logrus.Entry) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			response, err = next(ctx, request)
			if err == nil {
				return response, nil
			}
			logger := ctxhelper.LoggerOr(ctx, fallback).WithField(log.FldEndpoint, name)
			if IsStoreUnavailable(err) {
				if in, ok := err.(internalErrorer); ok && in.Internal() != nil {
					logger = logger.WithField(log.FldCause, in.Internal().Error())
				}
				logger.WithError(err).Error("Endpoint call failed")
			} else {
				logger.WithError(err).Debug("Endpoint call rejected")
			}
			return response, err
		}
	}
}
