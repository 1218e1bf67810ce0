package controllers

import (
	"net/http"

	"github.com/angelmondragon/menuflow-backend/api/responses"
	"github.com/angelmondragon/menuflow-backend/api/validators"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

// endpoint is a JSON handler reduced to its work: it returns the success
// status and payload, or an error for the envelope.
type endpoint func(r *http.Request) (int, any, error)

// serve adapts an endpoint. available is false when the backing service was
// not wired, which answers INTERNAL_ERROR instead of panicking.
func serve(service string, available bool, logg *logger.Logger, fn endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable(service))
			return
		}
		status, payload, err := fn(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if status == http.StatusNoContent {
			responses.WriteNoContent(w)
			return
		}
		responses.WriteSuccessStatus(w, status, payload)
	}
}

func ok(payload any, err error) (int, any, error) {
	return http.StatusOK, payload, err
}

func created(payload any, err error) (int, any, error) {
	return http.StatusCreated, payload, err
}

func noContent(err error) (int, any, error) {
	return http.StatusNoContent, nil, err
}

// decode reads and validates a JSON body into a fresh T.
func decode[T any](r *http.Request) (T, error) {
	var body T
	err := validators.DecodeJSONBody(r, &body)
	return body, err
}
