package attendance

import (
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

// DatesBetween 展开闭区间 [start, end] 内的全部日期
func DatesBetween(start, end Date) []Date {
	dates := make([]Date, 0)
	for d := start; !end.Before(d); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// SumRange 把逐日汇总折叠成区间汇总。
// 这一层不产生任何新的扣减，只是纯粹的相加，
// 所以对同样的底层数据重复调用一定得到相同的结果
func SumRange(userID int64, start, end Date, days []domain.DaySummary) domain.RangeSummary {
	summary := domain.RangeSummary{
		UserID:    userID,
		StartDate: start.String(),
		EndDate:   end.String(),
		Days:      days,
	}

	for _, day := range days {
		summary.WorkMinutes += day.WorkMinutes
		summary.LunchMinutes += day.LunchMinutes
		summary.ShortBreakMinutes += day.ShortBreakMinutes
		summary.OverbreakMinutes += day.OverbreakMinutes
		summary.RollCallDeductionMinutes += day.RollCallDeductionMinutes
		summary.NetHours += day.NetHours
	}

	return summary
}
