package attendance

import (
	"math"
	"testing"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func TestDatesBetween(t *testing.T) {
	t.Run("闭区间包含两端", func(t *testing.T) {
		dates := DatesBetween(Date{2026, 3, 2}, Date{2026, 3, 8})
		if len(dates) != 7 {
			t.Fatalf("期望 7 天, got %d", len(dates))
		}
		if dates[0].String() != "2026-03-02" || dates[6].String() != "2026-03-08" {
			t.Errorf("区间端点错误: %s ~ %s", dates[0], dates[6])
		}
	})

	t.Run("单日区间", func(t *testing.T) {
		dates := DatesBetween(Date{2026, 3, 2}, Date{2026, 3, 2})
		if len(dates) != 1 {
			t.Errorf("期望 1 天, got %d", len(dates))
		}
	})

	t.Run("跨月", func(t *testing.T) {
		dates := DatesBetween(Date{2026, 2, 27}, Date{2026, 3, 2})
		if len(dates) != 4 {
			t.Fatalf("期望 4 天, got %d", len(dates))
		}
		if dates[1].String() != "2026-02-28" || dates[2].String() != "2026-03-01" {
			t.Errorf("跨月展开错误: %s, %s", dates[1], dates[2])
		}
	})
}

func TestSumRange(t *testing.T) {
	days := []domain.DaySummary{
		{UserID: 1, Date: "2026-03-02", WorkMinutes: 480, LunchMinutes: 60, OverbreakMinutes: 0, RollCallDeductionMinutes: 0, NetHours: 8},
		{UserID: 1, Date: "2026-03-03", WorkMinutes: 405, LunchMinutes: 75, OverbreakMinutes: 15, RollCallDeductionMinutes: 3, NetHours: 6.45},
		{UserID: 1, Date: "2026-03-04"},
	}

	got := SumRange(1, Date{2026, 3, 2}, Date{2026, 3, 4}, days)

	if got.StartDate != "2026-03-02" || got.EndDate != "2026-03-04" {
		t.Errorf("区间端点错误: %s ~ %s", got.StartDate, got.EndDate)
	}
	if got.WorkMinutes != 885 {
		t.Errorf("WorkMinutes = %d, want 885", got.WorkMinutes)
	}
	if got.LunchMinutes != 135 {
		t.Errorf("LunchMinutes = %d, want 135", got.LunchMinutes)
	}
	if got.OverbreakMinutes != 15 {
		t.Errorf("OverbreakMinutes = %d, want 15", got.OverbreakMinutes)
	}
	if got.RollCallDeductionMinutes != 3 {
		t.Errorf("RollCallDeductionMinutes = %d, want 3", got.RollCallDeductionMinutes)
	}
	if math.Abs(got.NetHours-14.45) > 1e-9 {
		t.Errorf("NetHours = %v, want 14.45", got.NetHours)
	}
	if len(got.Days) != 3 {
		t.Errorf("期望保留逐日明细, got %d", len(got.Days))
	}
}
