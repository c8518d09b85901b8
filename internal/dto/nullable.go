package dto

import (
	"time"

	"github.com/haierkeys/microdoc-service/pkg/timex"
)

// NullableTime tells an omitted JSON field from an explicit null.
// Present is false when the key was absent; Valid is false for null or "".
// NullableTime 区分缺省与显式 null 的时间字段
type NullableTime struct {
	Present bool
	Valid   bool
	Time    timex.Time
}

// UnmarshalJSON 仅在字段出现时被调用
func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Present = true
	if string(data) == "null" {
		n.Valid = false
		n.Time = timex.Time{}
		return nil
	}
	if err := n.Time.UnmarshalJSON(data); err != nil {
		return err
	}
	n.Valid = !n.Time.IsZero()
	return nil
}

// MarshalJSON 未设置或为空时输出 null
func (n NullableTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Time.MarshalJSON()
}

// Std 返回标准库时间
func (n NullableTime) Std() time.Time {
	return n.Time.Std()
}
