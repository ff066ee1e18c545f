package domain

import (
	"time"
)

type Organization struct {
	ID                    int64     `json:"id"`
	Name                  string    `json:"name"`
	Timezone              string    `json:"timezone"` // 组织的默认时区，用户没有班次时按这个时区划分日界
	RollCallsPerHour      int       `json:"rollCallsPerHour"`
	ResponseWindowMinutes int       `json:"responseWindowMinutes"`
	CreatedAt             time.Time `json:"createdAt"`
	Version               int32     `json:"-"`
}
