package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type responder struct {
	log logrus.FieldLogger
}

// jsonResponse writes data as JSON with status.
func (rs responder) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.log.WithError(err).Warn("failed to encode response")
	}
}

// errorResponse writes a message-only error body.
func (rs responder) errorResponse(w http.ResponseWriter, status int, message string) {
	rs.jsonResponse(w, status, types.ErrorResponse{Error: message})
}

// fail maps err through HTTPStatus. Server errors are logged and reported
// without their cause.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rs.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		rs.errorResponse(w, status, http.StatusText(status))
		return
	}

	body := types.ErrorResponse{Error: err.Error()}
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		body.Error = "content does not match the resume schema"
		for _, fe := range schemaErr.Errors {
			body.Details = append(body.Details, types.FieldDetail{Field: fe.Field, Message: fe.Message})
		}
	}
	rs.jsonResponse(w, status, body)
}

// decode reads a JSON body into dst, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// validationError converts validator output into *ErrValidation for the
// first failing field.
func validationError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return &ErrValidation{Field: ves[0].Field(), Message: ves[0].Tag()}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}

func decodeStrict(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
