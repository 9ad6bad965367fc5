package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/auth"
	"github.com/yourname/sleepdiary/internal/service"
)

// GetProfile answers 404 until the seeder has written users/{id} for the caller.
func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet(auth.UserKey).(*internal.User)

		view, err := service.GetProfile(c.Request.Context(), app.Database(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch profile")
			return
		}
		HandleSuccess(c, app.Logger(), view, nil)
	}
}
