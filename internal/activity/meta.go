package activity

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Meta is the optional payload attached to an activity row. Every field may be
// absent; absent and unusable values both decode to nil.
type Meta struct {
	ProductID   *uint    `json:"product_id,omitempty"`
	ProductName *string  `json:"product_name,omitempty"`
	Qty         *float64 `json:"qty,omitempty"`
	Status      *string  `json:"status,omitempty"`

	CategoryID   *uint   `json:"category_id,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
}

var errMetaNotObject = errors.New("activity: metadata is not a JSON object")

// ParseMeta decodes a stored payload. It accepts a JSON object or a JSON
// string holding an encoded object. An empty or null payload returns nil, nil.
func ParseMeta(raw []byte) (*Meta, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, err
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return nil, nil
		}
	}

	if raw[0] != '{' {
		return nil, errMetaNotObject
	}

	var m Meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Meta) UnmarshalJSON(data []byte) error {
	var wire struct {
		ProductID   json.RawMessage `json:"product_id"`
		ProductName json.RawMessage `json:"product_name"`
		Qty         json.RawMessage `json:"qty"`
		Status      json.RawMessage `json:"status"`

		CategoryID   json.RawMessage `json:"category_id"`
		CategoryName json.RawMessage `json:"category_name"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*m = Meta{
		ProductName: nonEmptyString(wire.ProductName),
		Status:      nonEmptyString(wire.Status),

		CategoryName: nonEmptyString(wire.CategoryName),
	}
	if f := number(wire.Qty); f != nil {
		m.Qty = f
	}
	m.ProductID = positiveID(wire.ProductID)
	m.CategoryID = positiveID(wire.CategoryID)
	return nil
}

func positiveID(raw json.RawMessage) *uint {
	f := number(raw)
	if f == nil || *f < 1 || *f != float64(uint(*f)) {
		return nil
	}
	id := uint(*f)
	return &id
}

func nonEmptyString(raw json.RawMessage) *string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || s == "" {
		return nil
	}
	return &s
}

// number accepts a JSON number or a string holding one.
func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return finite(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return finite(f)
}

// finite drops NaN and infinities, which JSON cannot encode.
func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
