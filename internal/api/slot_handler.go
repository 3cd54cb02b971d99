package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wfunc/slot-engine/internal/middleware"
	"github.com/wfunc/slot-engine/internal/service"
)

// SlotHandler 老虎机处理器
type SlotHandler struct {
	spinService service.SpinService
}

// NewSlotHandler 创建老虎机处理器
func NewSlotHandler(spinService service.SpinService) *SlotHandler {
	return &SlotHandler{
		spinService: spinService,
	}
}

// SpinRequest 旋转请求，未指定下注时使用默认下注
type SpinRequest struct {
	Bet *decimal.Decimal `json:"bet" swaggertype:"string" example:"1.00"`
}

// RotateSeedRequest 轮换种子请求
type RotateSeedRequest struct {
	ClientSeed string `json:"client_seed" binding:"omitempty,max=64"`
}

// PageQuery 分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Tables 获取当前游戏表
// @Summary 游戏表
// @Description 返回符号、支付线、赔率、特色规则和下注范围
// @Tags Slot
// @Produce json
// @Success 200 {object} service.TablesInfo
// @Router /api/v1/slot/tables [get]
func (h *SlotHandler) Tables(c *gin.Context) {
	c.JSON(http.StatusOK, h.spinService.Tables())
}

// Spin 旋转
// @Summary 旋转
// @Description 使用当前种子对生成盘面并结算，返回结果和可验证信息
// @Tags Slot
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body SpinRequest false "旋转请求"
// @Success 200 {object} service.SpinReceipt
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/slot/spin [post]
func (h *SlotHandler) Spin(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	var req SpinRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "参数错误: "+err.Error())
			return
		}
	}
	bet := h.spinService.Tables().DefaultBet
	if req.Bet != nil {
		bet = *req.Bet
	}

	receipt, err := h.spinService.Spin(c.Request.Context(), playerID, bet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// CurrentSeed 当前种子对
// @Summary 当前种子
// @Description 返回当前服务端种子哈希、客户端种子和下一个nonce
// @Tags Fairness
// @Security Bearer
// @Produce json
// @Success 200 {object} service.SeedInfo
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/slot/seeds [get]
func (h *SlotHandler) CurrentSeed(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	info, err := h.spinService.CurrentSeed(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// RotateSeed 轮换种子对
// @Summary 轮换种子
// @Description 公开当前服务端种子并启用新的种子对，可指定新的客户端种子
// @Tags Fairness
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body RotateSeedRequest false "轮换请求"
// @Success 200 {object} service.SeedRotation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/slot/seeds/rotate [post]
func (h *SlotHandler) RotateSeed(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	var req RotateSeedRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "参数错误: "+err.Error())
			return
		}
	}

	rotation, err := h.spinService.RotateSeed(c.Request.Context(), playerID, req.ClientSeed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rotation)
}

// RevealedSeeds 已公开的种子
// @Summary 种子历史
// @Description 分页返回已公开的服务端种子
// @Tags Fairness
// @Security Bearer
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量（<=100）"
// @Success 200 {object} service.SeedPage
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/slot/seeds/history [get]
func (h *SlotHandler) RevealedSeeds(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "分页参数错误: "+err.Error())
		return
	}

	page, err := h.spinService.RevealedSeeds(c.Request.Context(), playerID, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Verify 验证旋转结果
// @Summary 验证结果
// @Description 使用公开的种子重新计算某次旋转，提供哈希时同时校验承诺
// @Tags Fairness
// @Accept json
// @Produce json
// @Param request body service.VerifyRequest true "验证请求"
// @Success 200 {object} service.VerifyResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/slot/verify [post]
func (h *SlotHandler) Verify(c *gin.Context) {
	var req service.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.spinService.Verify(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// History 旋转记录
// @Summary 旋转记录
// @Description 分页返回当前玩家的旋转记录，最新的在前
// @Tags Slot
// @Security Bearer
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量（<=100）"
// @Success 200 {object} service.HistoryPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/slot/history [get]
func (h *SlotHandler) History(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "分页参数错误: "+err.Error())
		return
	}

	page, err := h.spinService.History(c.Request.Context(), playerID, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetSpin 单条旋转记录
// @Summary 旋转详情
// @Tags Slot
// @Security Bearer
// @Produce json
// @Param id path string true "旋转ID"
// @Success 200 {object} models.SpinRecord
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/slot/spins/{id} [get]
func (h *SlotHandler) GetSpin(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	record, err := h.spinService.GetSpin(c.Request.Context(), playerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Stats 玩家统计
// @Summary 玩家统计
// @Description 旋转次数、中奖次数、总下注、总赢分和特色触发次数
// @Tags Slot
// @Security Bearer
// @Produce json
// @Success 200 {object} repository.SpinStatistics
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/slot/stats [get]
func (h *SlotHandler) Stats(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	stats, err := h.spinService.Stats(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
