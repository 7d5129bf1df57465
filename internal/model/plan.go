package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

// UnlimitedQuota 表示该资源类型不限量
const UnlimitedQuota = -1

// LimitMap 资源类型 -> 周期内限额。缺失或 -1 均表示不限量。
type LimitMap map[string]int

func (m LimitMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *LimitMap) Scan(value interface{}) error {
	if value == nil {
		*m = LimitMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, m)
}

// Limit 返回某资源类型的限额，第二个返回值为 false 表示不限量
func (m LimitMap) Limit(kind string) (int, bool) {
	if m == nil {
		return 0, false
	}
	limit, ok := m[kind]
	if !ok || limit == UnlimitedQuota {
		return 0, false
	}
	return limit, true
}

// Plan 订阅套餐。Price 为月付价格，YearlyPrice 为年付价格（0 表示按 12 个月计）。
// Price == 0 的套餐为免费套餐，不经过支付流程，直接激活。
type Plan struct {
	ID           int64       `gorm:"primaryKey" json:"id"`
	Role         string      `gorm:"size:20;not null;index" json:"role"`
	Name         string      `gorm:"size:100;not null" json:"name"`
	Price        float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	YearlyPrice  float64     `gorm:"type:decimal(10,2)" json:"yearly_price"`
	DurationDays int         `gorm:"not null" json:"duration_days"`
	Features     StringArray `gorm:"type:json" json:"features"`
	UsageLimits  LimitMap    `gorm:"type:json" json:"usage_limits"`
	IsActive     bool        `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// IsFree 是否免费套餐
func (p *Plan) IsFree() bool {
	return p.Price == 0
}
