package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taoyao-code/sphero-wire/internal/api/middleware"
	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
	"github.com/taoyao-code/sphero-wire/internal/storage"
	"github.com/taoyao-code/sphero-wire/internal/storage/models"
)

// fixedSeq 每次返回同一序列号
type fixedSeq uint8

func (s fixedSeq) Next(context.Context) (uint8, error) { return uint8(s), nil }

type downSeq struct{}

func (downSeq) Next(context.Context) (uint8, error) { return 0, errors.New("redis: connection refused") }

// memJournal 内存帧日志，与表结构一致只对 frame_id 唯一
type memJournal struct {
	mu   sync.Mutex
	recs []models.FrameRecord
	fail bool
}

func (m *memJournal) Record(_ context.Context, rec *models.FrameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("journal down")
	}
	for i := range m.recs {
		if m.recs[i].FrameID == rec.FrameID {
			return errors.New("duplicate key value violates unique constraint \"idx_sphero_frames_frame\"")
		}
	}
	rec.ID = int64(len(m.recs) + 1)
	rec.CreatedAt = time.Now()
	m.recs = append(m.recs, *rec)
	return nil
}

func (m *memJournal) LatestBySequence(_ context.Context, seq uint8) (*models.FrameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.recs) - 1; i >= 0; i-- {
		if m.recs[i].Sequence == int16(seq) {
			r := m.recs[i]
			return &r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memJournal) GetByFrameID(_ context.Context, id string) (*models.FrameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recs {
		if m.recs[i].FrameID == id {
			r := m.recs[i]
			return &r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memJournal) GetByRequestID(_ context.Context, id string) (*models.FrameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.recs) - 1; i >= 0; i-- {
		if m.recs[i].RequestID == id {
			r := m.recs[i]
			return &r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memJournal) Recent(_ context.Context, limit int) ([]models.FrameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FrameRecord
	for i := len(m.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.recs[i])
	}
	return out, nil
}

func newRouter(t *testing.T, seq sphero.Sequencer, journal storage.FrameJournal, encOpts ...sphero.EncoderOption) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	enc := sphero.NewEncoder(sphero.SequenceEnveloper{Seq: seq}, encOpts...)
	RegisterRoutes(r, RouteDeps{
		Encoder:  enc,
		Journal:  journal,
		Defaults: sphero.DefaultOptions(),
		Logger:   zap.NewNop(),
	})
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestEncode_Roll(t *testing.T) {
	journal := &memJournal{}
	r := newRouter(t, fixedSeq(0x03), journal)

	w := postJSON(r, "/api/v1/commands/roll/encode", `{"args":{"speed":32,"heading":360,"state":1}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[EncodeResponse](t, w)
	assert.Equal(t, "fffe02300305200168013b", resp.FrameHex)
	assert.Equal(t, 11, resp.Length)
	assert.Equal(t, uint8(0x03), resp.Sequence)
	assert.Equal(t, uint8(0xFE), resp.Marker)
	assert.Equal(t, resp.RequestID, w.Header().Get(middleware.RequestIDHeader))

	require.Len(t, journal.recs, 1)
	assert.Equal(t, resp.RequestID, journal.recs[0].RequestID)
	assert.Equal(t, resp.FrameID, journal.recs[0].FrameID)
	assert.Equal(t, int16(4), journal.recs[0].PayloadLen)
}

// countingSeq 依次返回 1,2,3...
type countingSeq struct{ n uint8 }

func (s *countingSeq) Next(context.Context) (uint8, error) {
	s.n++
	return s.n, nil
}

func TestEncode_ReusedRequestID(t *testing.T) {
	journal := &memJournal{}
	r := newRouter(t, &countingSeq{}, journal)
	const requestID = "6f1c2a8e-3a3b-4c5d-9e7f-0a1b2c3d4e5f"

	send := func(body string) EncodeResponse {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/commands/setHeading/encode", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.RequestIDHeader, requestID)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[EncodeResponse](t, w)
	}
	first := send(`{"args":{"heading":90}}`)
	second := send(`{"args":{"heading":180}}`)

	assert.Equal(t, requestID, first.RequestID)
	assert.Equal(t, requestID, second.RequestID)
	assert.NotEqual(t, first.FrameID, second.FrameID)
	assert.Equal(t, uint8(2), second.Sequence)

	// 两帧都写入帧日志，按序列号均可查到
	require.Len(t, journal.recs, 2)
	for _, resp := range []EncodeResponse{first, second} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/frames/seq/%d", resp.Sequence), nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		view := decode[FrameView](t, w)
		assert.Equal(t, resp.FrameID, view.FrameID)
		assert.Equal(t, resp.FrameHex, view.FrameHex)
	}

	// 复用的请求ID返回最近一帧
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/frames/"+requestID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, second.FrameID, decode[FrameView](t, w).FrameID)
}

func TestRegisterRoutes_CORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, RouteDeps{
		Encoder:  sphero.NewEncoder(sphero.SequenceEnveloper{Seq: fixedSeq(1)}),
		Defaults: sphero.DefaultOptions(),
		Auth:     middleware.AuthConfig{Enabled: true, APIKeys: []string{"sk_test_123456"}},
	})

	for _, path := range []string{"/api/v1/commands/roll/encode", "/api/v1/commands", "/api/v1/frames/seq/1"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://console.example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-API-Key")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// 预检不带 API Key 也要放行
			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
		})
	}

	// 实际请求同样带 CORS 头
	req := httptest.NewRequest(http.MethodPost, "/api/v1/commands/ping/encode", strings.NewReader(`{}`))
	req.Header.Set("Origin", "https://console.example.com")
	req.Header.Set("X-API-Key", "sk_test_123456")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEncode_PingWithAck(t *testing.T) {
	r := newRouter(t, fixedSeq(0x52), nil)
	w := postJSON(r, "/api/v1/commands/ping/encode", `{"ack":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ffff00015201ab", decode[EncodeResponse](t, w).FrameHex)
}

func TestEncode_EmptyBody(t *testing.T) {
	r := newRouter(t, fixedSeq(0x52), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/commands/ping/encode", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "fffe00015201ab", decode[EncodeResponse](t, w).FrameHex)
}

func TestEncode_SelfLevelDefaults(t *testing.T) {
	r := newRouter(t, fixedSeq(1), nil, sphero.WithLevelOptions(sphero.LevelOptions{Start: true, Sleep: true}))

	w := postJSON(r, "/api/v1/commands/selfLevel/encode", `{"args":{"angleLimit":0,"timeout":0,"trueTime":0}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	frame := decode[EncodeResponse](t, w).FrameHex
	// 载荷首字节为选项位 0x05
	assert.Equal(t, "05000000", frame[12:20])

	w = postJSON(r, "/api/v1/commands/selfLevel/encode",
		`{"args":{"options":{"start":true,"rotate":true},"angleLimit":0,"timeout":0,"trueTime":0}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "03000000", decode[EncodeResponse](t, w).FrameHex[12:20])
}

func TestEncode_MacroParameterVariant(t *testing.T) {
	r := newRouter(t, fixedSeq(1), nil)
	w := postJSON(r, "/api/v1/commands/setMacroParameter/encode", `{"args":{"parameter":2,"value":9}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[EncodeResponse](t, w)
	assert.Equal(t, sphero.VariantMacroParamNarrow, resp.Variant)
	assert.Equal(t, "020900", resp.FrameHex[12:18])
}

func TestEncode_Advisory(t *testing.T) {
	r := newRouter(t, fixedSeq(1), nil)
	w := postJSON(r, "/api/v1/commands/setBoostWithTime/encode", `{"args":{"time":1,"heading":90}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[EncodeResponse](t, w).Advisory)
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		code int
		kind string
	}{
		{"未知命令", "/api/v1/commands/fly/encode", `{}`, http.StatusNotFound, "unknown_command"},
		{"缺少参数", "/api/v1/commands/roll/encode", `{"args":{"speed":1}}`, http.StatusBadRequest, "bad_argument"},
		{"多余参数", "/api/v1/commands/ping/encode", `{"args":{"x":1}}`, http.StatusBadRequest, "bad_argument"},
		{"越界", "/api/v1/commands/roll/encode", `{"args":{"speed":256,"heading":0,"state":1}}`, http.StatusBadRequest, "value_out_of_range"},
		{"未知变体", "/api/v1/commands/setDataStreaming/encode", `{"variant":"triple","args":{}}`, http.StatusBadRequest, "unknown_variant"},
		{"无参数命令带变体", "/api/v1/commands/ping/encode", `{"variant":"triple"}`, http.StatusBadRequest, "unknown_variant"},
		{"载荷过大", "/api/v1/commands/appendMacroChunk/encode", `{"args":{"macro":"` + strings.Repeat("00", 255) + `"}}`, http.StatusRequestEntityTooLarge, "payload_too_large"},
		{"非法JSON", "/api/v1/commands/ping/encode", `{`, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := &memJournal{}
			r := newRouter(t, fixedSeq(1), journal)
			w := postJSON(r, tt.path, tt.body)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			assert.Equal(t, tt.kind, decode[ErrorResponse](t, w).Error)
			assert.Empty(t, journal.recs)
		})
	}
}

func TestEncode_SequenceUnavailable(t *testing.T) {
	r := newRouter(t, downSeq{}, nil)
	w := postJSON(r, "/api/v1/commands/ping/encode", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "sequence_unavailable", decode[ErrorResponse](t, w).Error)
}

func TestEncode_JournalFailureStillEncodes(t *testing.T) {
	r := newRouter(t, fixedSeq(1), &memJournal{fail: true})
	w := postJSON(r, "/api/v1/commands/ping/encode", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEncode_CBOR(t *testing.T) {
	r := newRouter(t, fixedSeq(0x03), nil)

	body, err := cbor.Marshal(map[string]any{
		"args": map[string]any{"speed": 32, "heading": 360, "state": 1},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/commands/roll/encode", bytes.NewReader(body))
	req.Header.Set("Content-Type", MIMECBOR)
	req.Header.Set("Accept", MIMECBOR)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MIMECBOR, w.Header().Get("Content-Type"))

	var resp EncodeResponse
	require.NoError(t, cbor.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fffe02300305200168013b", resp.FrameHex)
}

func TestListCommands(t *testing.T) {
	r := newRouter(t, fixedSeq(1), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/commands", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		FrameLayout string        `json:"frame_layout"`
		Commands    []CommandInfo `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, sphero.FrameSequenced.String(), body.FrameLayout)
	assert.Len(t, body.Commands, sphero.Commands().Len())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/commands/setDataStreaming", nil))
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[CommandInfo](t, w)
	assert.Equal(t, uint8(0x02), info.DeviceID)
	assert.Equal(t, uint8(0x11), info.CommandID)
	require.Len(t, info.Variants, 2)
	assert.Equal(t, 9, info.Variants[0].MaxLen)
	assert.Equal(t, 13, info.Variants[1].MaxLen)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/commands/fly", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterRoutes_RateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limited := 0
	RegisterRoutes(r, RouteDeps{
		Encoder:  sphero.NewEncoder(sphero.SequenceEnveloper{Seq: fixedSeq(1)}),
		Defaults: sphero.DefaultOptions(),
		Limiter:  middleware.NewRateLimiter(1, 1),
		OnLimit:  func() { limited++ },
	})

	assert.Equal(t, http.StatusOK, postJSON(r, "/api/v1/commands/ping/encode", `{}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, postJSON(r, "/api/v1/commands/ping/encode", `{}`).Code)
	assert.Equal(t, 1, limited)

	// 查询接口不限流
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/commands", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterRoutes_Auth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, RouteDeps{
		Encoder:  sphero.NewEncoder(sphero.SequenceEnveloper{Seq: fixedSeq(1)}),
		Defaults: sphero.DefaultOptions(),
		Auth:     middleware.AuthConfig{Enabled: true, APIKeys: []string{"sk_test_123456"}},
	})

	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/api/v1/commands/ping/encode", `{}`).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/commands/ping/encode", strings.NewReader(`{}`))
	req.Header.Set("X-API-Key", "sk_test_123456")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
