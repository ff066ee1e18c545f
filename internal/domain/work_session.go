package domain

import (
	"time"
)

type SessionType string

const (
	SessionTypeWork       SessionType = "WORK"
	SessionTypeLunch      SessionType = "LUNCH"
	SessionTypeShortBreak SessionType = "SHORT_BREAK"
)

// WorkSession 只追加不删除，结束即写入 EndedAt，修正通过追加新记录完成
type WorkSession struct {
	ID              int64       `json:"id"`
	OrgID           int64       `json:"orgId"`
	UserID          int64       `json:"userId"`
	SessionType     SessionType `json:"sessionType"`
	StartedAt       time.Time   `json:"startedAt"`
	EndedAt         *time.Time  `json:"endedAt"`
	TaskDescription string      `json:"taskDescription"`
	Source          string      `json:"source"`
}

func (s *WorkSession) IsOpen() bool {
	return s.EndedAt == nil
}
