package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

// ResolveWindow 把班次模板和目标日期（模板时区下的日历日）转换为一个 UTC 区间。
// 必须针对具体日期查询时区规则，不能使用固定偏移：
// 跨越夏令时切换的班次，其 UTC 时长和名义时长不一致，这是预期行为，不做修正。
func ResolveWindow(tpl *domain.ShiftTemplate, d Date) (Interval, bool, error) {
	scheduled := false
	for _, day := range tpl.ApplicableDays {
		if day == d.Weekday() {
			scheduled = true
			break
		}
	}
	if !scheduled {
		return Interval{}, false, nil
	}

	loc, err := time.LoadLocation(tpl.Timezone)
	if err != nil {
		return Interval{}, false, fmt.Errorf("无法加载班次模板的时区 %q: %w", tpl.Timezone, err)
	}

	startHour, startMin, startSec, err := parseClock(tpl.StartTime)
	if err != nil {
		return Interval{}, false, err
	}
	endHour, endMin, endSec, err := parseClock(tpl.EndTime)
	if err != nil {
		return Interval{}, false, err
	}

	start := time.Date(d.Year, d.Month, d.Day, startHour, startMin, startSec, 0, loc).UTC()
	end := time.Date(d.Year, d.Month, d.Day, endHour, endMin, endSec, 0, loc).UTC()
	if !end.After(start) {
		// 模板保存时已拒绝 start >= end，这里只可能出现在极端的时区规则变更下
		return Interval{}, false, nil
	}

	return Interval{Start: start, End: end}, true, nil
}

func parseClock(s string) (hour, min, sec int, err error) {
	if _, err = fmt.Sscanf(s, "%d:%d:%d", &hour, &min, &sec); err != nil {
		// 兼容 HH:MM 的写法
		sec = 0
		if _, err = fmt.Sscanf(s, "%d:%d", &hour, &min); err != nil {
			return 0, 0, 0, fmt.Errorf("无效的时刻格式 %q", s)
		}
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return 0, 0, 0, fmt.Errorf("无效的时刻 %q", s)
	}
	return hour, min, sec, nil
}

// WindowsForDay 解析某个用户在目标日期的全部班次窗口（可能为零个或多个，比如拆分班），
// 只保留当天生效的 assignment，结果按开始时间排序并去重
func WindowsForDay(templates []*domain.ShiftTemplate, assignments []*domain.ShiftAssignment, d Date) ([]Interval, error) {
	templatesByID := make(map[int64]*domain.ShiftTemplate, len(templates))
	for _, tpl := range templates {
		templatesByID[tpl.ID] = tpl
	}

	windows := make([]Interval, 0)
	seen := make(map[int64]map[time.Time]bool)

	for _, assignment := range assignments {
		tpl, exists := templatesByID[assignment.ShiftID]
		if !exists {
			continue
		}
		if !assignmentCoversDate(assignment, d) {
			continue
		}

		window, ok, err := ResolveWindow(tpl, d)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		// 同一个模板多条 assignment 覆盖同一天时只取一个窗口
		if _, exists := seen[tpl.ID]; !exists {
			seen[tpl.ID] = make(map[time.Time]bool)
		}
		if seen[tpl.ID][window.Start] {
			continue
		}
		seen[tpl.ID][window.Start] = true

		windows = append(windows, window)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})

	return windows, nil
}

func assignmentCoversDate(assignment *domain.ShiftAssignment, d Date) bool {
	from := Date{Year: assignment.EffectiveFrom.Year(), Month: assignment.EffectiveFrom.Month(), Day: assignment.EffectiveFrom.Day()}
	if d.Before(from) {
		return false
	}
	if assignment.EffectiveTo != nil {
		to := Date{Year: assignment.EffectiveTo.Year(), Month: assignment.EffectiveTo.Month(), Day: assignment.EffectiveTo.Day()}
		if to.Before(d) {
			return false
		}
	}
	return true
}

// FullDayWindow 返回某个时区下整个日历日对应的 UTC 区间，
// 用于允许无班次打卡的用户，此时一整天都计入工时
func FullDayWindow(d Date, loc *time.Location) Interval {
	return Interval{
		Start: d.In(loc).UTC(),
		End:   d.AddDays(1).In(loc).UTC(),
	}
}
