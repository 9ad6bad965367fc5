package response

import (
	"net/http"

	"github.com/yourname/sleepdiary/internal"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

type APIResponse struct {
	Data      interface{}        `json:"data,omitempty"`
	Meta      map[string]any     `json:"meta,omitempty"`
	Error     *internal.AppError `json:"error,omitempty"`
	RequestID string             `json:"requestId,omitempty"`
}

// WithRequestID stamps the envelope so a failed load can be matched to its log line.
func (r APIResponse) WithRequestID(id string) APIResponse {
	r.RequestID = id
	return r
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta, Error: nil}
}

func BadRequest(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(http.StatusBadRequest, msg)}
}

// InvalidEntry is a 400 listing each rejected entry field and why.
func InvalidEntry(msg string, fields map[string]string) APIResponse {
	e := internal.NewAppError(http.StatusBadRequest, msg)
	e.Fields = fields
	return APIResponse{Error: e}
}

func Unauthorized(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(http.StatusUnauthorized, msg)}
}

func InternalError(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(http.StatusInternalServerError, msg)}
}

func NotFound(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(http.StatusNotFound, msg)}
}

// EditUnavailable is the 409 for an edit request on an entry that is neither
// the cached entry nor dated yesterday. It still carries the entry's view so
// the client can keep showing it.
func EditUnavailable(msg string, view any) APIResponse {
	return APIResponse{Data: view, Error: internal.NewAppError(http.StatusConflict, msg)}
}

func NewAppError(status int, msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(status, msg)}
}
