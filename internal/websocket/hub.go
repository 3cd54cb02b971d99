package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wfunc/slot-engine/internal/logger"
)

// Hub WebSocket连接管理中心
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 玩家ID到客户端的映射
	playerClients map[string][]*Client
	playerMu      sync.RWMutex

	// 消息广播通道
	broadcast chan *Message

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	options Options
	gauge   prometheus.Gauge

	// 日志
	logger *zap.Logger
}

// Options 连接参数
type Options struct {
	PingInterval   time.Duration // 协议层ping周期，必须小于PongTimeout
	PongTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	Heartbeat      time.Duration // 应用层心跳消息周期，0表示关闭
}

// DefaultOptions 默认连接参数
func DefaultOptions() Options {
	return Options{
		PingInterval:   54 * time.Second,
		PongTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 4 * 1024,
		SendBuffer:     64,
		Heartbeat:      30 * time.Second,
	}
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`           // 消息类型
	Data      json.RawMessage `json:"data,omitempty"` // 消息数据
	Timestamp int64           `json:"timestamp"`      // 时间戳
}

// MessageType 消息类型
const (
	// 系统消息
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"

	// 游戏消息
	MessageTypeSpinResult  = "spin_result"
	MessageTypeSeedRotated = "seed_rotated"
)

// NewHub 创建Hub
func NewHub(opts Options) *Hub {
	defaults := DefaultOptions()
	if opts.PongTimeout <= 0 {
		opts.PongTimeout = defaults.PongTimeout
	}
	if opts.PingInterval <= 0 || opts.PingInterval >= opts.PongTimeout {
		opts.PingInterval = opts.PongTimeout * 9 / 10
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaults.WriteTimeout
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaults.MaxMessageSize
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaults.SendBuffer
	}

	return &Hub{
		clients:       make(map[string]*Client),
		playerClients: make(map[string][]*Client),
		broadcast:     make(chan *Message, 256),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		done:          make(chan struct{}),
		options:       opts,
		logger:        logger.GetModuleLogger("websocket"),
	}
}

// SetConnectionGauge 设置在线连接数指标
func (h *Hub) SetConnectionGauge(g prometheus.Gauge) {
	h.gauge = g
}

// Run 运行Hub，ctx结束时关闭所有连接
func (h *Hub) Run(ctx context.Context) {
	var heartbeat <-chan time.Time
	if h.options.Heartbeat > 0 {
		ticker := time.NewTicker(h.options.Heartbeat)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-heartbeat:
			h.broadcastMessage(&Message{
				Type:      MessageTypePing,
				Timestamp: time.Now().Unix(),
			})

		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	count := len(h.clients)
	h.clientsMu.Unlock()

	// 添加到玩家客户端映射
	h.playerMu.Lock()
	h.playerClients[client.PlayerID] = append(h.playerClients[client.PlayerID], client)
	h.playerMu.Unlock()

	h.setGauge(count)
	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.String("player_id", client.PlayerID))

	// 发送连接成功消息
	h.SendToClient(client.ID, &Message{
		Type:      MessageTypeConnected,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"message":"连接成功"}`),
	})
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[client.ID]
	if ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	count := len(h.clients)
	h.clientsMu.Unlock()
	if !ok {
		return
	}

	// 从玩家客户端映射中移除
	h.playerMu.Lock()
	clients := h.playerClients[client.PlayerID]
	for i, c := range clients {
		if c.ID == client.ID {
			h.playerClients[client.PlayerID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.playerClients[client.PlayerID]) == 0 {
		delete(h.playerClients, client.PlayerID)
	}
	h.playerMu.Unlock()

	h.setGauge(count)
	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.String("player_id", client.PlayerID))
}

// shutdown 关闭全部客户端
func (h *Hub) shutdown() {
	close(h.done)

	h.clientsMu.Lock()
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	h.playerMu.Lock()
	h.playerClients = make(map[string][]*Client)
	h.playerMu.Unlock()

	h.setGauge(0)
	h.logger.Info("WebSocket Hub已停止")
}

func (h *Hub) setGauge(count int) {
	if h.gauge != nil {
		h.gauge.Set(float64(count))
	}
}

// broadcastMessage 广播消息
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("客户端发送缓冲区满",
				zap.String("client_id", client.ID))
		}
	}
	h.clientsMu.RUnlock()
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	client, ok := h.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// SendToPlayer 发送消息给指定玩家的所有客户端
func (h *Hub) SendToPlayer(playerID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	// 持有clientsMu读锁，避免向注销中已关闭的通道写入
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	h.playerMu.RLock()
	clients := append([]*Client(nil), h.playerClients[playerID]...)
	h.playerMu.RUnlock()

	if len(clients) == 0 {
		return ErrPlayerNotConnected
	}

	for _, client := range clients {
		if _, ok := h.clients[client.ID]; !ok {
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("玩家客户端发送缓冲区满",
				zap.String("client_id", client.ID),
				zap.String("player_id", playerID))
		}
	}

	logger.LogWebSocketMessage("send", message.Type, playerID)
	return nil
}

// PublishToPlayer 序列化数据并推送给玩家
func (h *Hub) PublishToPlayer(playerID, msgType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return h.SendToPlayer(playerID, &Message{
		Type:      msgType,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	})
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// IsPlayerOnline 玩家是否在线
func (h *Hub) IsPlayerOnline(playerID string) bool {
	h.playerMu.RLock()
	defer h.playerMu.RUnlock()
	return len(h.playerClients[playerID]) > 0
}

// Broadcast 广播消息（公开方法）
func (h *Hub) Broadcast(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Register 注册客户端（公开方法）
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister 注销客户端（公开方法）
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
