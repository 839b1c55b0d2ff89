package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taoyao-code/sphero-wire/internal/storage"
	"github.com/taoyao-code/sphero-wire/internal/storage/models"
)

// FramesHandler 帧日志查询，用于按序列号关联设备应答
type FramesHandler struct {
	journal storage.FrameJournal
	logger  *zap.Logger
}

// NewFramesHandler 创建帧日志查询处理器
func NewFramesHandler(journal storage.FrameJournal, logger *zap.Logger) *FramesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FramesHandler{journal: journal, logger: logger}
}

// FrameView 帧记录视图
type FrameView struct {
	FrameID    string    `json:"frame_id"`
	RequestID  string    `json:"request_id"`
	Command    string    `json:"command"`
	Variant    string    `json:"variant,omitempty"`
	DeviceID   int16     `json:"did"`
	CommandID  int16     `json:"cid"`
	Sequence   int16     `json:"seq"`
	Marker     int16     `json:"marker"`
	PayloadLen int16     `json:"payload_len"`
	FrameHex   string    `json:"frame_hex"`
	Advisory   string    `json:"advisory,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toView(r *models.FrameRecord) FrameView {
	return FrameView{
		FrameID:    r.FrameID,
		RequestID:  r.RequestID,
		Command:    r.Command,
		Variant:    r.Variant,
		DeviceID:   r.DeviceID,
		CommandID:  r.CommandID,
		Sequence:   r.Sequence,
		Marker:     r.Marker,
		PayloadLen: r.PayloadLen,
		FrameHex:   r.FrameHex,
		Advisory:   r.Advisory,
		CreatedAt:  r.CreatedAt,
	}
}

// BySequence 序列号对应的最近一帧
// GET /api/v1/frames/seq/:seq
func (h *FramesHandler) BySequence(c *gin.Context) {
	seq, err := strconv.ParseUint(c.Param("seq"), 0, 8)
	if err != nil {
		renderError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("seq must be 0..255: %w", err))
		return
	}
	rec, err := h.journal.LatestBySequence(c.Request.Context(), uint8(seq))
	h.one(c, rec, err)
}

// ByFrameID 按帧ID查询
// GET /api/v1/frames/id/:frame_id
func (h *FramesHandler) ByFrameID(c *gin.Context) {
	id := c.Param("frame_id")
	if _, err := uuid.Parse(id); err != nil {
		renderError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("frame_id must be a uuid: %w", err))
		return
	}
	rec, err := h.journal.GetByFrameID(c.Request.Context(), id)
	h.one(c, rec, err)
}

// ByRequestID 按请求ID查询，请求ID被复用时返回最近一帧
// GET /api/v1/frames/:request_id
func (h *FramesHandler) ByRequestID(c *gin.Context) {
	id := c.Param("request_id")
	if _, err := uuid.Parse(id); err != nil {
		renderError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("request_id must be a uuid: %w", err))
		return
	}
	rec, err := h.journal.GetByRequestID(c.Request.Context(), id)
	h.one(c, rec, err)
}

// Recent 最近的帧
// GET /api/v1/frames?limit=50
func (h *FramesHandler) Recent(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	list, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("frame journal query failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "journal", err)
		return
	}
	views := make([]FrameView, 0, len(list))
	for i := range list {
		views = append(views, toView(&list[i]))
	}
	render(c, http.StatusOK, gin.H{"frames": views})
}

func (h *FramesHandler) one(c *gin.Context, rec *models.FrameRecord, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		renderError(c, http.StatusNotFound, "not_found", err)
	case err != nil:
		h.logger.Error("frame journal query failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "journal", err)
	default:
		render(c, http.StatusOK, toView(rec))
	}
}
