package domain

import (
	"time"
)

// ShiftTemplate 的 StartTime 和 EndTime 是模板时区下的本地时刻（HH:MM:SS），
// 创建后时区不再变更，窗口解析时按具体日期查询时区规则
type ShiftTemplate struct {
	ID             int64     `json:"id"`
	OrgID          int64     `json:"orgId"`
	Name           string    `json:"name"`
	Timezone       string    `json:"timezone"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	ApplicableDays []int32   `json:"applicableDays"` // 1 = 周一，...，7 = 周日
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}

// ShiftAssignment 表示某个用户在一段日期内适用某个班次模板，
// EffectiveTo 为 nil 表示长期有效
type ShiftAssignment struct {
	ID            int64      `json:"id"`
	ShiftID       int64      `json:"shiftId"`
	UserID        int64      `json:"userId"`
	EffectiveFrom time.Time  `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo"`
	CreatedAt     time.Time  `json:"createdAt"`
}
