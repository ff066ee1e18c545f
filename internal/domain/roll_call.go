package domain

import (
	"time"
)

type RollCallResult string

const (
	RollCallPending RollCallResult = "PENDING"
	RollCallPassed  RollCallResult = "PASSED"
	RollCallLate    RollCallResult = "LATE"
	RollCallMissed  RollCallResult = "MISSED"
)

// RollCall 的状态只会从 PENDING 单向转移到 PASSED / LATE / MISSED，不允许重开
type RollCall struct {
	ID          int64          `json:"id"`
	OrgID       int64          `json:"orgId"`
	UserID      int64          `json:"userId"`
	TriggeredAt time.Time      `json:"triggeredAt"`
	DeadlineAt  time.Time      `json:"deadlineAt"`
	RespondedAt *time.Time     `json:"respondedAt"`
	Result      RollCallResult `json:"result"`
}
