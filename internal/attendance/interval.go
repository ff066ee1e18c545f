package attendance

import (
	"time"
)

// Interval 表示一个左闭右开的 UTC 时间区间 [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Minutes 返回区间长度的整分钟数，不足一分钟的部分舍去
func (iv Interval) Minutes() int {
	if !iv.End.After(iv.Start) {
		return 0
	}
	return int(iv.End.Sub(iv.Start) / time.Minute)
}

func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Intersect 返回两个区间的交集，长度为零的交集视为不相交
func Intersect(a, b Interval) (Interval, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	// 必须是严格小于，擦边的两个区间不算重叠
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// ClampToDay 把区间裁剪到指定时区下某个日历日的范围内，
// 报表请求方所在的时区和班次模板的时区可能不同，日界要按请求方的时区划分
func ClampToDay(iv Interval, d Date, loc *time.Location) (Interval, bool) {
	dayStart := d.In(loc)
	dayEnd := d.AddDays(1).In(loc)
	return Intersect(iv, Interval{Start: dayStart.UTC(), End: dayEnd.UTC()})
}
