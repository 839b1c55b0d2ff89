package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/gin-gonic/gin"
)

// MIMECBOR CBOR 媒体类型
const MIMECBOR = "application/cbor"

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error

	cborEnc, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encoder mode: %v", err))
	}

	// 嵌套 map 也解成 map[string]any，与 JSON 解码结果一致
	cborDec, err = cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor decoder mode: %v", err))
	}
}

func wantsCBOR(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), MIMECBOR)
}

// render 按 Accept 协商输出 JSON 或 CBOR
func render(c *gin.Context, code int, body any) {
	if !wantsCBOR(c) {
		c.JSON(code, body)
		return
	}
	data, err := cborEnc.Marshal(body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode_response", "message": err.Error()})
		return
	}
	c.Data(code, MIMECBOR, data)
}

func renderError(c *gin.Context, code int, kind string, err error) {
	render(c, code, ErrorResponse{Error: kind, Message: err.Error()})
}

// bind 按 Content-Type 解码 JSON 或 CBOR 请求体；JSON 数字保留为 json.Number
func bind(c *gin.Context, v any) error {
	r := io.LimitReader(c.Request.Body, 1<<20)
	if strings.HasPrefix(c.ContentType(), MIMECBOR) {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		if err := cborDec.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode cbor: %w", err)
		}
		return nil
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
