package attendance

import (
	"testing"
	"time"
)

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestIntersect(t *testing.T) {
	t.Run("部分重叠", func(t *testing.T) {
		a := Interval{Start: utc(2026, 3, 2, 8, 30), End: utc(2026, 3, 2, 17, 30)}
		b := Interval{Start: utc(2026, 3, 2, 9, 0), End: utc(2026, 3, 2, 17, 0)}

		got, ok := Intersect(a, b)
		if !ok {
			t.Fatal("期望两个区间重叠")
		}
		if !got.Start.Equal(b.Start) || !got.End.Equal(b.End) {
			t.Errorf("交集错误: got [%v, %v)", got.Start, got.End)
		}
	})

	t.Run("擦边的区间不算重叠", func(t *testing.T) {
		// [8, 9) 和 [9, 10) 共享端点 9 点，但左闭右开意味着没有公共时刻
		a := Interval{Start: utc(2026, 3, 2, 8, 0), End: utc(2026, 3, 2, 9, 0)}
		b := Interval{Start: utc(2026, 3, 2, 9, 0), End: utc(2026, 3, 2, 10, 0)}

		if _, ok := Intersect(a, b); ok {
			t.Error("端点相接的区间不应被视为重叠")
		}
	})

	t.Run("完全分离", func(t *testing.T) {
		a := Interval{Start: utc(2026, 3, 2, 8, 0), End: utc(2026, 3, 2, 9, 0)}
		b := Interval{Start: utc(2026, 3, 2, 12, 0), End: utc(2026, 3, 2, 13, 0)}

		if _, ok := Intersect(a, b); ok {
			t.Error("分离的区间不应重叠")
		}
	})

	t.Run("包含关系", func(t *testing.T) {
		a := Interval{Start: utc(2026, 3, 2, 8, 0), End: utc(2026, 3, 2, 18, 0)}
		b := Interval{Start: utc(2026, 3, 2, 12, 0), End: utc(2026, 3, 2, 13, 0)}

		got, ok := Intersect(a, b)
		if !ok {
			t.Fatal("期望两个区间重叠")
		}
		if got.Minutes() != 60 {
			t.Errorf("交集长度错误: got %d 分钟", got.Minutes())
		}
	})
}

func TestIntervalMinutes(t *testing.T) {
	t.Run("不足一分钟的部分舍去", func(t *testing.T) {
		iv := Interval{
			Start: utc(2026, 3, 2, 9, 0),
			End:   utc(2026, 3, 2, 9, 0).Add(125 * time.Second),
		}
		if got := iv.Minutes(); got != 2 {
			t.Errorf("Minutes() = %d, want 2", got)
		}
	})

	t.Run("空区间长度为零", func(t *testing.T) {
		iv := Interval{Start: utc(2026, 3, 2, 9, 0), End: utc(2026, 3, 2, 9, 0)}
		if got := iv.Minutes(); got != 0 {
			t.Errorf("Minutes() = %d, want 0", got)
		}
	})
}

func TestIntervalContains(t *testing.T) {
	iv := Interval{Start: utc(2026, 3, 2, 9, 0), End: utc(2026, 3, 2, 17, 0)}

	if !iv.Contains(iv.Start) {
		t.Error("左端点应包含在区间内")
	}
	if iv.Contains(iv.End) {
		t.Error("右端点不应包含在区间内")
	}
	if !iv.Contains(utc(2026, 3, 2, 12, 0)) {
		t.Error("区间中部的时刻应包含在区间内")
	}
}

func TestClampToDay(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatal(err)
	}

	// 上海时间 3 月 2 日对应 UTC 的 3 月 1 日 16:00 到 3 月 2 日 16:00
	iv := Interval{Start: utc(2026, 3, 1, 10, 0), End: utc(2026, 3, 2, 10, 0)}
	d := Date{Year: 2026, Month: 3, Day: 2}

	got, ok := ClampToDay(iv, d, shanghai)
	if !ok {
		t.Fatal("期望裁剪后仍有重叠")
	}
	if !got.Start.Equal(utc(2026, 3, 1, 16, 0)) {
		t.Errorf("裁剪后的起点错误: %v", got.Start)
	}
	if !got.End.Equal(utc(2026, 3, 2, 10, 0)) {
		t.Errorf("裁剪后的终点错误: %v", got.End)
	}
}

func TestDateWeekday(t *testing.T) {
	// 2026-03-02 是周一
	d := Date{Year: 2026, Month: 3, Day: 2}
	if got := d.Weekday(); got != 1 {
		t.Errorf("Weekday() = %d, want 1", got)
	}
	// 2026-03-08 是周日
	sunday := Date{Year: 2026, Month: 3, Day: 8}
	if got := sunday.Weekday(); got != 7 {
		t.Errorf("Weekday() = %d, want 7", got)
	}
}
