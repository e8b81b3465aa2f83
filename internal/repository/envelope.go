package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEnvelope 响应既不是数组也不是 {"data": [...]}
var ErrEnvelope = errors.New("unexpected list envelope")

// DecodeList 解析列表响应：裸数组或带 data 数组的对象均可；空响应或 null 视为空列表
func DecodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		return decodeArray[T](trimmed)
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEnvelope, err)
		}
		data := bytes.TrimSpace(envelope.Data)
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: object without data field", ErrEnvelope)
		}
		if bytes.Equal(data, []byte("null")) {
			return []T{}, nil
		}
		if data[0] != '[' {
			return nil, fmt.Errorf("%w: data is not an array", ErrEnvelope)
		}
		return decodeArray[T](data)
	default:
		return nil, fmt.Errorf("%w: body starts with %q", ErrEnvelope, trimmed[0])
	}
}

func decodeArray[T any](data []byte) ([]T, error) {
	out := []T{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return out, nil
}
