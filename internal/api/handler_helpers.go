package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/response"
	"github.com/yourname/sleepdiary/internal/service"
	"github.com/yourname/sleepdiary/internal/storage"
)

// statusFor lets the diary's sentinel errors override the status a handler
// guessed: missing records are 404, rejected entries 400, edits 409.
func statusFor(err error, status int) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entry.ErrEditUnavailable):
		return http.StatusConflict
	case service.EntryFieldErrors(err) != nil:
		return http.StatusBadRequest
	}
	return status
}

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString(response.RequestIDKey)
	status = statusFor(err, status)
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		if fields := service.EntryFieldErrors(err); fields != nil {
			resp = response.InvalidEntry(msg, fields)
		} else {
			resp = response.BadRequest(msg + ": " + err.Error())
		}
	case http.StatusNotFound:
		resp = response.NotFound(msg + ": " + err.Error())
	case http.StatusInternalServerError:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp.WithRequestID(requestID))
}

// HandleEditUnavailable answers a refused edit with the entry's view still attached.
func HandleEditUnavailable(c *gin.Context, logger internal.Logger, view entry.ViewModel) {
	requestID := c.GetString(response.RequestIDKey)
	logger.Infof("[request_id=%s] edit refused for %q", requestID, view.FormattedDate)
	c.JSON(http.StatusConflict, response.EditUnavailable(entry.ErrEditUnavailable.Error(), view).WithRequestID(requestID))
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString(response.RequestIDKey)
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta).WithRequestID(requestID))
}
