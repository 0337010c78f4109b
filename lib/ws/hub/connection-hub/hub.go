package connectionhub

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"

	"staff-tools-backend/db"
	notificationdatastore "staff-tools-backend/lib/notification/data-store"
	wsmodels "staff-tools-backend/models/ws"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string)
	SendMessage(msg wsmodels.ServerMessage)
	SendClose(userID string)
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = &impl{
		clients: map[string]clientSession{},
		store:   notificationdatastore.NewInstance(db.DB),
	}
}

type impl struct {
	mu      sync.Mutex
	clients map[string]clientSession //map[userID]
	store   notificationdatastore.Provider
}

func (i *impl) DeleteClient(userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[userID]
	if !ok {
		return
	}
	delete(i.clients, userID)
	sess.stop()
	close(sess.sendCh)
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	if ok {
		oldSess.stop()
	}
	i.clients[userID] = newSession(conn)
	i.mu.Unlock()
	go i.sendUnread(userID)
}

// SendMessage enqueues without blocking and keeps the lock for the whole
// send: DeleteClient closes sendCh under the same lock, so the send can
// never hit a closed channel. A full buffer drops the push, the stored
// notification row is replayed on the next connect anyway.
func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[msg.ToUserID]
	if !ok {
		return
	}
	select {
	case sess.sendCh <- msg:
	default:
		log.WithField("user_id", msg.ToUserID).Warn("ws send buffer full, push dropped")
	}
}

func (i *impl) SendClose(userID string) {
	i.mu.Lock()
	sess, ok := i.clients[userID]
	i.mu.Unlock()
	if ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.Lock()
	sess, ok := i.clients[userID]
	i.mu.Unlock()
	if !ok || sess.conn == nil || sess.conn.Conn == nil {
		return false
	}
	return true
}

// sendUnread replays unread in-app notifications to a freshly connected
// client so nothing raised while offline is missed.
func (i *impl) sendUnread(userID string) {
	logger := log.WithField("user_id", userID)
	list, err := i.store.List(userID, true)
	if err != nil {
		logger.WithError(err).Error("unread notification list failed")
		return
	}
	for _, item := range list {
		if !i.IsConnected(userID) {
			return
		}
		i.SendMessage(wsmodels.ServerMessage{
			ToUserID: userID,
			Time:     item.CreatedAt.Format("02.01.2006 15:04:05"),
			Code:     string(item.Code),
			Title:    item.Title,
			Msg:      item.Msg,
		})
	}
}
