package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/response"
	"github.com/yourname/sleepdiary/internal/seed"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func GetFactors(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		children, err := app.Database().Get(c.Request.Context(), seed.FactorsPath)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch factors")
			return
		}
		factors, err := seed.DecodeFactors(children)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to decode factors")
			return
		}
		HandleSuccess(c, app.Logger(), factors, map[string]any{"count": len(factors)})
	}
}

// StreamFactors upgrades to a websocket and sends the catalog once per
// snapshot until the client goes away.
func StreamFactors(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			app.Logger().Warnf("[request_id=%s] websocket upgrade failed: %v", c.GetString(response.RequestIDKey), err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// the client only ever closes; any read error ends the stream
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		err = app.Seeder().Watch(ctx, func(factors map[string]internal.SleepFactor) {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(factors); err != nil {
				app.Logger().Debugf("websocket write: %v", err)
				cancel()
			}
		})
		if err != nil && ctx.Err() == nil {
			app.Logger().Warnf("[request_id=%s] factor stream ended: %v", c.GetString(response.RequestIDKey), err)
		}
	}
}
