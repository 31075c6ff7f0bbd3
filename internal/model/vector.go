package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Vector 向量类型，以 jsonb 存储
type Vector []float64

// Value 实现 driver.Valuer 接口
func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan 实现 sql.Scanner 接口
func (v *Vector) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	var b []byte
	switch data := value.(type) {
	case []byte:
		b = data
	case string:
		b = []byte(data)
	default:
		return fmt.Errorf("unsupported vector column type: %T", value)
	}
	return json.Unmarshal(b, v)
}

// Dim 向量维度
func (v Vector) Dim() int {
	return len(v)
}
