package attendance

import (
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

type Allowances struct {
	LunchMinutes      int
	ShortBreakMinutes int
	DailyCapMinutes   int // 每日计入净工时的上限
}

// OverbreakMinutes 返回午休和小休超出额度的分钟数之和
func OverbreakMinutes(buckets Buckets, allowances Allowances) int {
	over := 0
	if buckets.LunchMinutes > allowances.LunchMinutes {
		over += buckets.LunchMinutes - allowances.LunchMinutes
	}
	if buckets.ShortBreakMinutes > allowances.ShortBreakMinutes {
		over += buckets.ShortBreakMinutes - allowances.ShortBreakMinutes
	}
	return over
}

// RollCallDeductionMinutes 计算点名扣减：
// LATE 扣超过截止时间的秒数向上取整到分钟；
// MISSED 没有响应时刻可算，按整个响应窗口的分钟数扣，即视为"迟到到极限"。
// 两种结果的扣减口径不对称是产品层确认过的策略，改动只需要动这一个函数
func RollCallDeductionMinutes(rollCalls []*domain.RollCall, responseWindow time.Duration) int {
	total := 0
	for _, rc := range rollCalls {
		switch rc.Result {
		case domain.RollCallLate:
			if rc.RespondedAt == nil {
				continue
			}
			delay := rc.RespondedAt.Sub(rc.DeadlineAt)
			if delay <= 0 {
				continue
			}
			delaySeconds := int(delay / time.Second)
			total += (delaySeconds + 59) / 60
		case domain.RollCallMissed:
			total += int(responseWindow / time.Minute)
		}
	}
	return total
}

// NetHours 计算净工时：工作分钟先压到 [0, 上限]，再减去扣减，最后整体压回 [0, 上限]。
// 巨额扣减不会把结果扣成负数，超额加班也不会把结果顶破上限。
// 内部全程整数分钟运算，只有最终的小时数是浮点
func NetHours(workMinutes, overbreakMinutes, rollCallMinutes, dailyCapMinutes int) float64 {
	capped := workMinutes
	if capped < 0 {
		capped = 0
	}
	if capped > dailyCapMinutes {
		capped = dailyCapMinutes
	}

	net := float64(capped)/60.0 - float64(overbreakMinutes+rollCallMinutes)/60.0

	capHours := float64(dailyCapMinutes) / 60.0
	if net < 0 {
		return 0
	}
	if net > capHours {
		return capHours
	}
	return net
}
