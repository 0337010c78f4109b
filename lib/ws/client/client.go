package wsclient

import (
	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

func NewClient(userID string, c *websocket.Conn) *WsClient {
	return &WsClient{
		conn:   c,
		userID: userID,
	}
}

type WsClient struct {
	conn   *websocket.Conn
	userID string
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

// Dispatch drains the read side until the peer goes away. The channel is
// push-only, inbound payloads are ignored.
func (c *WsClient) Dispatch() {
	for {
		if c.conn == nil {
			return
		}
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				log.WithError(err).Error("ws read failed")
			}
			break
		}
	}
}
