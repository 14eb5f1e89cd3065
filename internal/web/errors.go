package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls s.respondError(w, r, err)
//  3. statusFor picks the HTTP status from the error's type
//  4. core.MapError supplies the user-facing message and code
//  5. Technical error is logged with the request id, JSON is returned

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Fields  []core.FieldError `json:"fields,omitempty"`
}

// requestError is a malformed request: bad JSON, bad query parameter,
// missing multipart form.
type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return "invalid request: " + e.msg + ": " + e.err.Error()
	}
	return "invalid request: " + e.msg
}

func (e *requestError) Unwrap() error { return e.err }

func badRequest(msg string, err error) error {
	return &requestError{msg: msg, err: err}
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var (
		ve *core.ValidationError
		ue *core.UploadError
		re *requestError
	)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusTooManyRequests
	case errors.As(err, &ve), errors.As(err, &ue), errors.As(err, &re):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse builds the client body for err. Client errors carry their
// own text as the message; server errors only the mapped message.
func errorResponse(err error, status int) ErrorResponse {
	userMsg := core.MapError(err)
	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	if status < http.StatusInternalServerError {
		resp.Message = err.Error()
	}
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	return resp
}

// respondError logs err with request context and writes the JSON body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse(err, status)

	log := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", resp.Code,
		"error", err.Error(),
	)
	if status >= http.StatusInternalServerError {
		log.Error("request error")
	} else {
		log.Debug("request rejected")
	}

	writeJSON(w, r, status, resp)
}
