package noticeboard

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/gorilla/websocket"
)

const (
	// Time 写入超时时间
	writeWait = 10 * time.Second

	// Time pong超时时间
	pongWait = 60 * time.Second

	// Send 对应的ping 必须小于pong
	pingPeriod = (pongWait * 9) / 10

	// 只推不收：客户端消息只用于保活
	maxMessageSize = 512
)

// Client ws和hub的连接，代表某个具体 websocket 连接
type Client struct {
	hub *WsServer

	conn *websocket.Conn

	// 消息缓冲区
	send chan []byte

	// UserID 和用户关联
	UserID string
}

// readPump 只负责读 pong / close，客户端发来的内容直接丢弃
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { _ = c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debugf("ws read user=%s: %v", c.UserID, err)
			}
			return
		}
	}
}

// writePump 将消息从hub写到具体的 websocket 连接
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 每条通知一帧，客户端按帧解析 JSON
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debugf("ws ping user=%s failed", c.UserID)
				return
			}
		}
	}
}

// WsServer 连接注册表：用户ID -> 该用户所有活跃连接（多标签页/多设备）
type WsServer struct {
	clients     map[*Client]bool
	userClients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	upgrader websocket.Upgrader
}

// NewWsServer 同源连接总是允许；跨域来源交给 allowOrigin，为空时拒绝
func NewWsServer(allowOrigin func(origin string) bool) *WsServer {
	h := &WsServer{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		clients:     make(map[*Client]bool),
		userClients: make(map[string][]*Client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
				return true
			}
			return allowOrigin != nil && allowOrigin(origin)
		},
	}
	return h
}

// Run hub 主循环，Stop 后退出并关闭所有连接
func (h *WsServer) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.userClients = make(map[string][]*Client)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		}
	}
}

// removeLocked 调用方持有写锁
func (h *WsServer) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	conns := h.userClients[client.UserID]
	for i, conn := range conns {
		if conn == client {
			conns = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(conns) == 0 {
		delete(h.userClients, client.UserID)
	} else {
		h.userClients[client.UserID] = conns
	}
}

// Stop 幂等
func (h *WsServer) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// ServeWS 升级为 websocket 并注册到 hub；userID 由调用方鉴权得到
func (h *WsServer) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debugf("ws upgrade user=%s: %v", userID, err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		UserID: userID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}
	logger.Debugf("ws connected user=%s", userID)

	// 连接生命周期由 readPump/writePump 控制，handler 直接返回
	go client.writePump()
	go client.readPump()
}

// SendToUser 推送给用户的所有在线连接；缓冲区满时丢弃，离线用户通过 HTTP 拉取
func (h *WsServer) SendToUser(userID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.userClients[userID] {
		select {
		case client.send <- msg:
		default:
		}
	}
}

// Online 用户当前连接数
func (h *WsServer) Online(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID])
}
