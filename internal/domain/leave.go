package domain

import (
	"time"
)

type LeaveType string

const (
	LeaveTypeLeave  LeaveType = "LEAVE"
	LeaveTypeDayOff LeaveType = "DAY_OFF"
)

// Leave 记录某个用户某天请假或调休，当天不会成为点名对象
type Leave struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"orgId"`
	UserID    int64     `json:"userId"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Type      LeaveType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
