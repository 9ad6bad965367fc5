package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/service"
)

// EditResponse tells the client which screen to open and with which entry.
type EditResponse struct {
	Route string               `json:"route"`
	Entry *internal.SleepEntry `json:"entry"`
}

func PostViewEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body internal.SleepEntry
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateEntry(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Entry validation failed")
			return
		}

		view, err := service.ShowEntry(c.Request.Context(), app.Entries(), entry.ProvidedEntry(body))
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to show entry")
			return
		}
		HandleSuccess(c, app.Logger(), view, nil)
	}
}

func GetTodayEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := service.ShowEntry(c.Request.Context(), app.Entries(), entry.Fallback())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to show entry")
			return
		}
		HandleSuccess(c, app.Logger(), view, map[string]any{"source": entry.FallbackLookup.String()})
	}
}

func PutYesterdaysEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body internal.SleepEntry
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateEntry(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Entry validation failed")
			return
		}
		if err := service.CacheYesterdaysEntry(c.Request.Context(), app.Entries(), &body); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to cache entry")
			return
		}
		HandleSuccess(c, app.Logger(), body, nil)
	}
}

// PostEditEntry resolves the optional body the same way the entry screen
// does and answers with the edit route, or 409 when editing is unavailable.
func PostEditEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Failed to read body")
			return
		}
		var body *internal.SleepEntry
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid JSON")
				return
			}
		}

		var resp EditResponse
		nav := entry.NavigatorFunc(func(_ context.Context, e *internal.SleepEntry) error {
			resp = EditResponse{Route: entry.EditRoute, Entry: e}
			return nil
		})

		view, err := service.EditEntry(c.Request.Context(), app.Entries(), entry.SourceFor(body), nav)
		switch {
		case errors.Is(err, entry.ErrEditUnavailable):
			HandleEditUnavailable(c, app.Logger(), view)
			return
		case err != nil:
			HandleError(c, app.Logger(), err, 500, "Failed to open editor")
			return
		}
		HandleSuccess(c, app.Logger(), resp, nil)
	}
}
