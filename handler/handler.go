package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ewintr.nl/headlines/model"
)

func Index(w http.ResponseWriter) {
	Message(w, http.StatusOK, "headlines index")
}

func Message(w http.ResponseWriter, status int, message string, details ...any) {
	w.WriteHeader(status)
	response := struct {
		Message string `json:"message"`
		Details []any  `json:"details,omitempty"`
	}{
		Message: message,
		Details: details,
	}
	body, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		fmt.Fprintf(w, `{"message": %q, "details":%q}`, message, marshalErr.Error())
		return
	}
	w.Write(body)
}

func Error(w http.ResponseWriter, status int, message string, err error, details ...any) {
	w.WriteHeader(status)
	response := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Details []any  `json:"details,omitempty"`
	}{
		Message: message,
		Error:   err.Error(),
		Details: details,
	}
	body, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		fmt.Fprintf(w, `{"message": %q, "error": %q, "details":%q}`, message, err.Error(), marshalErr.Error())
		return
	}

	w.Write(body)
}

const maxBodyBytes = 64 << 10

// decodeBody reads a JSON request body of at most maxBodyBytes. The returned status is the
// one to answer with when decoding fails.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, err
		}
		return http.StatusBadRequest, err
	}

	return http.StatusOK, nil
}

func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		Error(w, http.StatusInternalServerError, "could not marshal response", err)
		return
	}
	w.WriteHeader(status)
	w.Write(body)
}

// PublicError is the error text a client gets to see. Causes from the store or other
// upstream services stay in the logs.
func PublicError(err error) error {
	switch ErrorStatus(err) {
	case http.StatusServiceUnavailable:
		return model.ErrUpstreamUnavailable
	case http.StatusInternalServerError:
		return errors.New("internal error")
	default:
		return err
	}
}

// ErrorStatus maps domain errors to the status code the API answers with.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
