package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errs.Code         `json:"code"`
	Message string            `json:"message"`
	Fields  []errs.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "encode response"))
		return
	}
	writeRaw(w, status, "application/json", data)
}

func writeRaw(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	body := errorBody{Error: errorDetail{
		Code:    code,
		Message: errs.UserMessage(err),
		Fields:  errs.Fields(err),
	}}
	data, _ := json.Marshal(body)
	writeRaw(w, statusFor(code), "application/json", data)
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidJSON, errs.ErrCodeInvalidLevel,
		errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeSchemaValidation:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound, errs.ErrCodeNodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errs.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errs.ErrCodeNetwork:
		return http.StatusBadGateway
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidJSON, err, "decode request body")
	}
	return nil
}

// validNodeID rejects requests whose {id} path parameter is not a usable
// node id.
func validNodeID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := errs.ValidateNodeID(chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
