package api

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taoyao-code/sphero-wire/internal/api/middleware"
	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
	"github.com/taoyao-code/sphero-wire/internal/storage"
	"github.com/taoyao-code/sphero-wire/internal/storage/models"
)

// EncodeHandler 命令编码控制台
type EncodeHandler struct {
	enc      *sphero.Encoder
	journal  storage.FrameJournal // 为空时不记录
	defaults sphero.Options
	logger   *zap.Logger
}

// NewEncodeHandler 创建编码处理器
func NewEncodeHandler(enc *sphero.Encoder, journal storage.FrameJournal, defaults sphero.Options, logger *zap.Logger) *EncodeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EncodeHandler{enc: enc, journal: journal, defaults: defaults, logger: logger}
}

// EncodeRequest 编码请求
type EncodeRequest struct {
	Variant      string         `json:"variant,omitempty"`
	Args         map[string]any `json:"args,omitempty"`
	Ack          *bool          `json:"ack,omitempty"`
	ResetTimeout *bool          `json:"reset_timeout,omitempty"`
}

// EncodeResponse 编码结果
type EncodeResponse struct {
	RequestID string `json:"request_id"`
	FrameID   string `json:"frame_id"`
	Command   string `json:"command"`
	Variant   string `json:"variant,omitempty"`
	DeviceID  uint8  `json:"did"`
	CommandID uint8  `json:"cid"`
	Sequence  uint8  `json:"seq"`
	Marker    uint8  `json:"marker"`
	FrameHex  string `json:"frame_hex"`
	Length    int    `json:"length"`
	Advisory  string `json:"advisory,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FieldInfo 字段说明
type FieldInfo struct {
	Name string   `json:"name"`
	Kind string   `json:"kind"`
	Size int      `json:"size,omitempty"`
	Bits []string `json:"bits,omitempty"`
}

// VariantInfo 变体说明
type VariantInfo struct {
	Name   string      `json:"name,omitempty"`
	Shape  string      `json:"shape"`
	MaxLen int         `json:"max_len"`
	Fields []FieldInfo `json:"fields"`
}

// CommandInfo 命令说明
type CommandInfo struct {
	Name      string        `json:"name"`
	DeviceID  uint8         `json:"did"`
	CommandID uint8         `json:"cid"`
	Advisory  string        `json:"advisory,omitempty"`
	Variants  []VariantInfo `json:"variants"`
}

func describe(d *sphero.Descriptor) CommandInfo {
	info := CommandInfo{Name: d.Name, DeviceID: d.DeviceID, CommandID: d.CommandID, Advisory: d.Advisory}
	layouts := d.Variants
	if len(layouts) == 0 {
		layouts = []sphero.Layout{{}}
	}
	for _, l := range layouts {
		v := VariantInfo{Name: l.Variant, Shape: l.Shape().String(), MaxLen: l.MaxLen(), Fields: []FieldInfo{}}
		for _, f := range l.Fields {
			v.Fields = append(v.Fields, FieldInfo{Name: f.Name, Kind: f.Kind.String(), Size: f.Size, Bits: f.Bits})
		}
		info.Variants = append(info.Variants, v)
	}
	return info
}

// ListCommands 列出字典中的全部命令
// GET /api/v1/commands
func (h *EncodeHandler) ListCommands(c *gin.Context) {
	all := h.enc.Dictionary().All()
	out := make([]CommandInfo, 0, len(all))
	for _, d := range all {
		out = append(out, describe(d))
	}
	render(c, http.StatusOK, gin.H{
		"frame_layout": h.enc.FrameLayout().String(),
		"commands":     out,
	})
}

// GetCommand 查询单个命令的布局
// GET /api/v1/commands/:name
func (h *EncodeHandler) GetCommand(c *gin.Context) {
	d, err := h.enc.Dictionary().Lookup(c.Param("name"))
	if err != nil {
		renderError(c, http.StatusNotFound, "unknown_command", err)
		return
	}
	render(c, http.StatusOK, describe(d))
}

// Encode 编码一条命令并返回完整帧
// POST /api/v1/commands/:name/encode
func (h *EncodeHandler) Encode(c *gin.Context) {
	name := c.Param("name")
	requestID := middleware.GetRequestID(c)

	var req EncodeRequest
	if err := bind(c, &req); err != nil {
		renderError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	desc, err := h.enc.Dictionary().Lookup(name)
	if err != nil {
		renderError(c, http.StatusNotFound, "unknown_command", err)
		return
	}

	args := h.withDefaults(desc, req.Args)
	variant, values, err := desc.ArgsFromMap(req.Variant, args)
	if err != nil {
		h.fail(c, err)
		return
	}

	opts := h.defaults
	if req.Ack != nil {
		opts.Ack = *req.Ack
	}
	if req.ResetTimeout != nil {
		opts.ResetTimeout = *req.ResetTimeout
	}

	res, err := h.enc.Encode(c.Request.Context(), name, variant, values, opts)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := EncodeResponse{
		RequestID: requestID,
		FrameID:   uuid.NewString(),
		Command:   res.Command,
		Variant:   variant,
		DeviceID:  res.Envelope.DeviceID,
		CommandID: res.Envelope.CommandID,
		Sequence:  res.Envelope.Sequence,
		Marker:    res.Envelope.Options.Marker(),
		FrameHex:  hex.EncodeToString(res.Frame),
		Length:    len(res.Frame),
		Advisory:  res.Advisory,
	}
	h.record(c.Request.Context(), resp, len(res.Frame)-h.enc.FrameLayout().Overhead())

	render(c, http.StatusOK, resp)
}

// withDefaults selfLevel 未给出 options 时使用配置的预设
func (h *EncodeHandler) withDefaults(desc *sphero.Descriptor, args map[string]any) map[string]any {
	if args == nil {
		args = map[string]any{}
	}
	if desc.Name == "selfLevel" {
		if _, ok := args["options"]; !ok {
			args["options"] = uint64(h.enc.LevelDefaults().Bits())
		}
	}
	return args
}

// record 帧日志写入失败不影响本次编码结果
func (h *EncodeHandler) record(ctx context.Context, resp EncodeResponse, payloadLen int) {
	if h.journal == nil {
		return
	}
	rec := &models.FrameRecord{
		FrameID:    resp.FrameID,
		RequestID:  resp.RequestID,
		Command:    resp.Command,
		Variant:    resp.Variant,
		DeviceID:   int16(resp.DeviceID),
		CommandID:  int16(resp.CommandID),
		Sequence:   int16(resp.Sequence),
		Marker:     int16(resp.Marker),
		PayloadLen: int16(payloadLen),
		FrameHex:   resp.FrameHex,
		Advisory:   resp.Advisory,
	}
	if err := h.journal.Record(ctx, rec); err != nil {
		h.logger.Warn("frame journal record failed",
			zap.String("frame_id", resp.FrameID),
			zap.String("request_id", resp.RequestID),
			zap.String("command", resp.Command),
			zap.Error(err),
		)
	}
}

func (h *EncodeHandler) fail(c *gin.Context, err error) {
	code, kind := statusFor(err)
	renderError(c, code, kind, err)
}

// statusFor 编码错误到 HTTP 状态码
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, sphero.ErrUnknownCommand):
		return http.StatusNotFound, "unknown_command"
	case errors.Is(err, sphero.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, sphero.ErrValueOutOfRange):
		return http.StatusBadRequest, "value_out_of_range"
	case errors.Is(err, sphero.ErrUnknownVariant):
		return http.StatusBadRequest, "unknown_variant"
	case errors.Is(err, sphero.ErrArgumentCount), errors.Is(err, sphero.ErrArgumentType):
		return http.StatusBadRequest, "bad_argument"
	default:
		// 序列号分配失败（如 Redis 不可用）
		return http.StatusServiceUnavailable, "sequence_unavailable"
	}
}
