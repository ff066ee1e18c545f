package utils

import (
	"testing"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func validTemplate() *domain.ShiftTemplate {
	return &domain.ShiftTemplate{
		Name:           "早班",
		Timezone:       "Asia/Shanghai",
		StartTime:      "09:00:00",
		EndTime:        "17:00:00",
		ApplicableDays: []int32{1, 2, 3, 4, 5},
	}
}

func TestValidateShiftTemplate(t *testing.T) {
	t.Run("合法模板", func(t *testing.T) {
		if err := ValidateShiftTemplate(validTemplate()); err != nil {
			t.Errorf("合法模板不应报错: %v", err)
		}
	})

	t.Run("非法时区", func(t *testing.T) {
		tpl := validTemplate()
		tpl.Timezone = "Mars/Olympus"
		if err := ValidateShiftTemplate(tpl); err == nil {
			t.Error("非法时区应报错")
		}
	})

	t.Run("非法时刻格式", func(t *testing.T) {
		tpl := validTemplate()
		tpl.StartTime = "9 点整"
		if err := ValidateShiftTemplate(tpl); err == nil {
			t.Error("非法时刻格式应报错")
		}
	})

	t.Run("开始时刻必须早于结束时刻", func(t *testing.T) {
		tpl := validTemplate()
		tpl.StartTime = "17:00:00"
		tpl.EndTime = "09:00:00"
		if err := ValidateShiftTemplate(tpl); err == nil {
			t.Error("跨夜班次应被拒绝")
		}
	})

	t.Run("开始结束时刻相同", func(t *testing.T) {
		tpl := validTemplate()
		tpl.EndTime = tpl.StartTime
		if err := ValidateShiftTemplate(tpl); err == nil {
			t.Error("零长度班次应被拒绝")
		}
	})

	t.Run("适用日期不能为空", func(t *testing.T) {
		tpl := validTemplate()
		tpl.ApplicableDays = nil
		if err := ValidateShiftTemplate(tpl); err == nil {
			t.Error("没有适用日期应报错")
		}
	})

	t.Run("适用日期超出范围", func(t *testing.T) {
		tpl := validTemplate()
		tpl.ApplicableDays = []int32{1, 8}
		if err := ValidateShiftTemplate(tpl); err == nil {
			t.Error("超出 1-7 的日期应报错")
		}
	})

	t.Run("适用日期重复", func(t *testing.T) {
		tpl := validTemplate()
		tpl.ApplicableDays = []int32{1, 1}
		if err := ValidateShiftTemplate(tpl); err == nil {
			t.Error("重复的日期应报错")
		}
	})
}

func TestGenerateRandomApplicableDays(t *testing.T) {
	for i := 0; i < 50; i++ {
		days := GenerateRandomApplicableDays()
		if len(days) < 1 || len(days) > 7 {
			t.Fatalf("天数数量超出范围: %d", len(days))
		}

		seen := make(map[int32]bool)
		for _, day := range days {
			if day < 1 || day > 7 {
				t.Fatalf("非法的天数: %d", day)
			}
			if seen[day] {
				t.Fatalf("天数重复: %d", day)
			}
			seen[day] = true
		}
	}
}

func TestGenerateUsernameFromChineseName(t *testing.T) {
	for i := 0; i < 20; i++ {
		name := GenerateRandomChineseName()
		username := GenerateUsernameFromChineseName(name)
		if username == "" {
			t.Fatal("生成的用户名不应为空")
		}
	}
}
