package attendance

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func newTemplate(id int64, timezone, start, end string, days ...int32) *domain.ShiftTemplate {
	return &domain.ShiftTemplate{
		ID:             id,
		OrgID:          1,
		Name:           "测试班次",
		Timezone:       timezone,
		StartTime:      start,
		EndTime:        end,
		ApplicableDays: days,
	}
}

func TestResolveWindow(t *testing.T) {
	t.Run("上海时区的普通工作日", func(t *testing.T) {
		tpl := newTemplate(1, "Asia/Shanghai", "09:00:00", "17:00:00", 1, 2, 3, 4, 5)
		d := Date{Year: 2026, Month: 3, Day: 2} // 周一

		window, ok, err := ResolveWindow(tpl, d)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("周一应在适用日期内")
		}
		// 上海 09:00 = UTC 01:00
		if !window.Start.Equal(utc(2026, 3, 2, 1, 0)) {
			t.Errorf("窗口起点错误: %v", window.Start)
		}
		if !window.End.Equal(utc(2026, 3, 2, 9, 0)) {
			t.Errorf("窗口终点错误: %v", window.End)
		}
	})

	t.Run("不在适用日期内", func(t *testing.T) {
		tpl := newTemplate(1, "Asia/Shanghai", "09:00:00", "17:00:00", 1, 2, 3, 4, 5)
		d := Date{Year: 2026, Month: 3, Day: 8} // 周日

		_, ok, err := ResolveWindow(tpl, d)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("周日不应解析出窗口")
		}
	})

	t.Run("夏令时切换日窗口的 UTC 时长缩短", func(t *testing.T) {
		// 2026-03-08 纽约凌晨 2 点拨快到 3 点，01:00-05:00 的班次实际只有 3 小时
		tpl := newTemplate(1, "America/New_York", "01:00:00", "05:00:00", 7)
		d := Date{Year: 2026, Month: 3, Day: 8}

		window, ok, err := ResolveWindow(tpl, d)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("期望解析出窗口")
		}
		if got := window.End.Sub(window.Start); got != 3*time.Hour {
			t.Errorf("切换日的窗口时长 = %v, want 3h", got)
		}
	})

	t.Run("夏令时结束日窗口的 UTC 时长变长", func(t *testing.T) {
		// 2026-11-01 纽约凌晨 2 点拨回到 1 点，00:30-03:30 的班次实际有 4 小时
		tpl := newTemplate(1, "America/New_York", "00:30:00", "03:30:00", 7)
		d := Date{Year: 2026, Month: 11, Day: 1}

		window, ok, err := ResolveWindow(tpl, d)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("期望解析出窗口")
		}
		if got := window.End.Sub(window.Start); got != 4*time.Hour {
			t.Errorf("结束日的窗口时长 = %v, want 4h", got)
		}
	})

	t.Run("非法时区返回错误", func(t *testing.T) {
		tpl := newTemplate(1, "Mars/Olympus", "09:00:00", "17:00:00", 1)
		d := Date{Year: 2026, Month: 3, Day: 2}

		if _, _, err := ResolveWindow(tpl, d); err == nil {
			t.Error("非法时区应返回错误")
		}
	})

	t.Run("兼容不带秒的时刻格式", func(t *testing.T) {
		tpl := newTemplate(1, "UTC", "09:00", "17:00", 1)
		d := Date{Year: 2026, Month: 3, Day: 2}

		window, ok, err := ResolveWindow(tpl, d)
		if err != nil {
			t.Fatal(err)
		}
		if !ok || window.Minutes() != 480 {
			t.Errorf("窗口解析错误: ok=%v minutes=%d", ok, window.Minutes())
		}
	})
}

func TestWindowsForDay(t *testing.T) {
	d := Date{Year: 2026, Month: 3, Day: 2} // 周一
	from := utc(2026, 1, 1, 0, 0)

	t.Run("多个班次按开始时间排序", func(t *testing.T) {
		morning := newTemplate(1, "UTC", "08:00:00", "12:00:00", 1)
		evening := newTemplate(2, "UTC", "14:00:00", "18:00:00", 1)
		assignments := []*domain.ShiftAssignment{
			{ID: 1, ShiftID: 2, UserID: 1, EffectiveFrom: from},
			{ID: 2, ShiftID: 1, UserID: 1, EffectiveFrom: from},
		}

		windows, err := WindowsForDay([]*domain.ShiftTemplate{morning, evening}, assignments, d)
		if err != nil {
			t.Fatal(err)
		}
		if len(windows) != 2 {
			t.Fatalf("期望 2 个窗口, got %d", len(windows))
		}
		if !windows[0].Start.Before(windows[1].Start) {
			t.Error("窗口未按开始时间排序")
		}
	})

	t.Run("同一模板的重复安排只产生一个窗口", func(t *testing.T) {
		tpl := newTemplate(1, "UTC", "08:00:00", "12:00:00", 1)
		assignments := []*domain.ShiftAssignment{
			{ID: 1, ShiftID: 1, UserID: 1, EffectiveFrom: from},
			{ID: 2, ShiftID: 1, UserID: 1, EffectiveFrom: from},
		}

		windows, err := WindowsForDay([]*domain.ShiftTemplate{tpl}, assignments, d)
		if err != nil {
			t.Fatal(err)
		}
		if len(windows) != 1 {
			t.Errorf("期望去重后只剩 1 个窗口, got %d", len(windows))
		}
	})

	t.Run("生效期外的安排被过滤", func(t *testing.T) {
		tpl := newTemplate(1, "UTC", "08:00:00", "12:00:00", 1)
		to := utc(2026, 2, 1, 0, 0)
		assignments := []*domain.ShiftAssignment{
			{ID: 1, ShiftID: 1, UserID: 1, EffectiveFrom: from, EffectiveTo: &to},
		}

		windows, err := WindowsForDay([]*domain.ShiftTemplate{tpl}, assignments, d)
		if err != nil {
			t.Fatal(err)
		}
		if len(windows) != 0 {
			t.Errorf("已过期的安排不应产生窗口, got %d", len(windows))
		}
	})

	t.Run("没有安排返回空窗口列表", func(t *testing.T) {
		windows, err := WindowsForDay(nil, nil, d)
		if err != nil {
			t.Fatal(err)
		}
		if len(windows) != 0 {
			t.Errorf("期望空列表, got %d", len(windows))
		}
	})
}

func TestFullDayWindow(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatal(err)
	}

	d := Date{Year: 2026, Month: 3, Day: 2}
	window := FullDayWindow(d, shanghai)

	if !window.Start.Equal(utc(2026, 3, 1, 16, 0)) {
		t.Errorf("整天窗口起点错误: %v", window.Start)
	}
	if window.Minutes() != 1440 {
		t.Errorf("整天窗口时长 = %d 分钟, want 1440", window.Minutes())
	}
}
