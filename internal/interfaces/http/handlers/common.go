package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies when the handler is built
// without an explicit limit.
const DefaultMaxBodyBytes int64 = 2 << 20

// unavailableMessage replaces the message of every server-side failure so
// that internals never reach the client.
const unavailableMessage = "analysis unavailable"

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError renders err with the status mapped from its code.  Server
// errors are masked and logged.
func writeAppError(w http.ResponseWriter, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", logging.String("code", string(code)), logging.Err(err))
		}
		writeJSON(w, status, ErrorResponse{Code: string(code), Message: unavailableMessage})
		return
	}

	resp := ErrorResponse{Code: string(code), Message: errors.DefaultMessageForCode(code)}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a bounded JSON body into dst.  Any failure is an
// InvalidInput error.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.InvalidInput("request body too large").WithDetail(strconv.FormatInt(tooLarge.Limit, 10) + " bytes max")
		case stderrors.Is(err, io.EOF):
			return errors.InvalidInput("request body is empty")
		default:
			return errors.InvalidInput("request body is not valid JSON").WithCause(err)
		}
	}
	return nil
}

// textField interprets a raw JSON member that must hold a string.  A
// missing member, an explicit null and any non-string value are rejected.
func textField(name string, raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.InvalidInput(name + " is required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.InvalidInput(name + " must be a string")
	}
	return &s, nil
}

//Personal.AI order the ending
