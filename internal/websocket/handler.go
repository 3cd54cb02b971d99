package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wfunc/slot-engine/internal/config"
	"github.com/wfunc/slot-engine/internal/errors"
	"github.com/wfunc/slot-engine/internal/middleware"
)

// Handler 结果推送连接入口
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler 创建推送处理器
func NewHandler(hub *Hub, cfg config.WebSocketConfig) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    cfg.ReadBufferSize,
			WriteBufferSize:   cfg.WriteBufferSize,
			EnableCompression: cfg.EnableCompression,
			// 认证走JWT，不限制来源
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// OptionsFromConfig 由配置生成连接参数
func OptionsFromConfig(cfg config.WebSocketConfig) Options {
	opts := DefaultOptions()
	if cfg.PingInterval > 0 {
		opts.PingInterval = cfg.PingInterval
	}
	if cfg.PongTimeout > 0 {
		opts.PongTimeout = cfg.PongTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.MaxMessageSize > 0 {
		opts.MaxMessageSize = cfg.MaxMessageSize
	}
	return opts
}

// ServeWS 升级连接并注册到Hub，需要先经过认证中间件
// @Summary 旋转结果推送
// @Description 建立WebSocket连接，服务端推送当前玩家的spin_result消息
// @Tags slot
// @Security BearerAuth
// @Router /ws/outcomes [get]
func (h *Handler) ServeWS(c *gin.Context) {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		err := errors.New(errors.ErrAuthentication)
		c.JSON(err.HTTPStatus(), errors.NewErrorResponse(err, c.GetString(middleware.ContextRequestID)))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade已写入错误响应
		h.hub.logger.Warn("WebSocket升级失败", zap.String("player_id", playerID), zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, playerID)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
