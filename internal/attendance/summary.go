package attendance

import (
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

type DayInput struct {
	UserID         int64
	Date           Date
	Sessions       []*domain.WorkSession
	Windows        []Interval
	RollCalls      []*domain.RollCall
	Now            time.Time
	Allowances     Allowances
	ResponseWindow time.Duration
}

// BuildDaySummary 把一个用户一天的会话、窗口和点名记录算成当日汇总。
// 纯函数，相同输入一定得到相同输出，调用方负责取数
func BuildDaySummary(in DayInput) domain.DaySummary {
	buckets := AccumulateBuckets(in.Sessions, in.Windows, in.Now)
	overbreak := OverbreakMinutes(buckets, in.Allowances)
	rollCallMinutes := RollCallDeductionMinutes(in.RollCalls, in.ResponseWindow)

	return domain.DaySummary{
		UserID:                   in.UserID,
		Date:                     in.Date.String(),
		WorkMinutes:              buckets.WorkMinutes,
		LunchMinutes:             buckets.LunchMinutes,
		ShortBreakMinutes:        buckets.ShortBreakMinutes,
		OverbreakMinutes:         overbreak,
		RollCallDeductionMinutes: rollCallMinutes,
		NetHours:                 NetHours(buckets.WorkMinutes, overbreak, rollCallMinutes, in.Allowances.DailyCapMinutes),
	}
}
