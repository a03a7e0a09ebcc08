package streamagg

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chrispappas/golang-generics-set/set"
	"github.com/gin-gonic/gin"
	"github.com/minor-industries/streamagg/schema"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type wsSample struct {
	Series string  `json:"series"`
	UnixMs int64   `json:"t"`
	Value  float64 `json:"value"`
}

func (e *Engine) setupServer() error {
	r := e.server

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/aggregates")
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})

	r.GET("/aggregates", func(c *gin.Context) {
		c.JSON(http.StatusOK, e.snapshot())
	})

	r.GET("/ws", func(c *gin.Context) {
		ctx := c.Request.Context()

		conn, wsErr := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if wsErr != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, wsErr)
			return
		}

		defer func() {
			_ = conn.Close(websocket.StatusInternalError, "Closed unexpectedly")
		}()

		_, reqBytes, err := conn.Read(ctx)
		if err != nil {
			fmt.Println("ws read error", err.Error())
			return
		}
		conn.CloseRead(ctx)

		type reqT struct {
			Series []string `json:"series"`
		}

		var req reqT
		if err := json.Unmarshal(reqBytes, &req); err != nil {
			fmt.Println("ws error", errors.Wrap(err, "unmarshal json"))
			return
		}

		wanted := set.FromSlice(req.Series)

		msgCh := e.broker.Subscribe()
		defer e.broker.Unsubscribe(msgCh)

		for msg := range msgCh {
			m, ok := msg.(*schema.Series)
			if !ok || !wanted.Has(m.SeriesName) {
				continue
			}

			err := wsjson.Write(ctx, conn, wsSample{
				Series: m.SeriesName,
				UnixMs: m.Timestamp.UnixMilli(),
				Value:  m.Value,
			})
			if err != nil {
				fmt.Println(errors.Wrap(err, "write sample"))
				return
			}
		}
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return nil
}

func (e *Engine) RunServer(address string) error {
	if err := e.server.Run(address); err != nil {
		return errors.Wrap(err, "run")
	}
	return nil
}
