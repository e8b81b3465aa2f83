package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// 上游数据（REST / 数据库）里的数字、ID、布尔值格式不统一：
// 可能是 number、数字字符串、null 或者干脆是垃圾值。
// 这里统一做一次显式转换，业务代码只和转换后的类型打交道，
// 不做任何隐式的宽松比较。

// NumberOrZero 将任意值转换为十进制数，无法识别的值一律为 0
func NumberOrZero(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case Amount:
		return x.d
	case *Amount:
		if x == nil {
			return decimal.Zero
		}
		return x.d
	case json.Number:
		return parseDecimal(string(x))
	case string:
		return parseDecimal(x)
	case []byte:
		return parseDecimal(string(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		return NumberOrZero(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint32:
		return decimal.NewFromInt(int64(x))
	case bool:
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Amount 金额，JSON 解码时容忍数字、数字字符串和 null，其他值视为 0
type Amount struct {
	d decimal.Decimal
}

// NewAmount 由任意值构造金额（numeric-or-zero）
func NewAmount(v any) Amount {
	return Amount{d: NumberOrZero(v)}
}

// AmountFromDecimal wraps d.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// String 保留两位小数
func (a Amount) String() string { return a.d.StringFixed(2) }

// Float64 仅用于展示（例如导出 Excel）
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

// MarshalJSON 输出不带引号的数字
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON 永远不返回错误：无法解析的值记为 0
func (a *Amount) UnmarshalJSON(data []byte) error {
	a.d = NumberOrZero(decodeLoose(data))
	return nil
}

// Scan 实现 sql.Scanner（numeric 列在 lib/pq 中以 []byte 返回）
func (a *Amount) Scan(src any) error {
	a.d = NumberOrZero(src)
	return nil
}

// Value 实现 driver.Valuer
func (a Amount) Value() (driver.Value, error) {
	return a.d.String(), nil
}

// ID 整数主键，可能缺失（null / 空串 / 非法值 / 非正数）
type ID struct {
	v  int64
	ok bool
}

// NoID 未解析的 ID
var NoID = ID{}

// NewID 构造已解析的 ID；非正数视为未解析
func NewID(v int64) ID {
	if v <= 0 {
		return NoID
	}
	return ID{v: v, ok: true}
}

// IDOrNull 将任意值转换为 ID（coerce-to-id-or-null）
func IDOrNull(v any) ID {
	switch x := v.(type) {
	case nil:
		return NoID
	case ID:
		return x
	case int:
		return NewID(int64(x))
	case int32:
		return NewID(int64(x))
	case int64:
		return NewID(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) || x >= math.MaxInt64 {
			return NoID
		}
		return NewID(int64(x))
	case json.Number:
		return parseID(string(x))
	case string:
		return parseID(x)
	case []byte:
		return parseID(string(x))
	default:
		return NoID
	}
}

func parseID(s string) ID {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoID
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NewID(n)
	}
	// "7.0" 这类整数值浮点串
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return IDOrNull(f)
	}
	return NoID
}

// Get 返回 ID 值以及是否已解析
func (id ID) Get() (int64, bool) { return id.v, id.ok }

func (id ID) Valid() bool { return id.ok }

// Int64 未解析时返回 0
func (id ID) Int64() int64 { return id.v }

// Equal 只有两个都已解析且值相同才相等
func (id ID) Equal(other ID) bool {
	return id.ok && other.ok && id.v == other.v
}

func (id ID) String() string {
	if !id.ok {
		return "null"
	}
	return strconv.FormatInt(id.v, 10)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if !id.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(id.v, 10)), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	*id = IDOrNull(decodeLoose(data))
	return nil
}

func (id *ID) Scan(src any) error {
	*id = IDOrNull(src)
	return nil
}

func (id ID) Value() (driver.Value, error) {
	if !id.ok {
		return nil, nil
	}
	return id.v, nil
}

// Flag 宽松布尔值：true / 1 / "1" / "true" / "yes" 为真，其余为假
type Flag bool

// FlagOf 将任意值转换为 Flag
func FlagOf(v any) Flag {
	switch x := v.(type) {
	case bool:
		return Flag(x)
	case Flag:
		return x
	case json.Number:
		return FlagOf(string(x))
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case []byte:
		return FlagOf(string(x))
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "t", "yes", "y":
			return true
		}
		return false
	default:
		return false
	}
}

func (f Flag) Bool() bool { return bool(f) }

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = FlagOf(decodeLoose(data))
	return nil
}

func (f *Flag) Scan(src any) error {
	*f = FlagOf(src)
	return nil
}

func (f Flag) Value() (driver.Value, error) { return bool(f), nil }

// decodeLoose 解码单个 JSON 值，数字保留为 json.Number；解码失败返回 nil
func decodeLoose(data []byte) any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// compile-time checks
var (
	_ json.Unmarshaler = (*Amount)(nil)
	_ json.Unmarshaler = (*ID)(nil)
	_ json.Unmarshaler = (*Flag)(nil)
	_ fmt.Stringer     = Amount{}
)
