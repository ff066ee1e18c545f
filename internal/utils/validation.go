package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

// ValidateShiftTemplate 在保存前拒绝非法的班次模板，
// 引擎假定模板永远合法，非法模板必须在这里被拦下。
// 不支持跨夜班次，start 必须严格早于 end
func ValidateShiftTemplate(tpl *domain.ShiftTemplate) error {
	if _, err := time.LoadLocation(tpl.Timezone); err != nil {
		return fmt.Errorf("无效的时区 %q", tpl.Timezone)
	}

	start, err := time.Parse("15:04:05", tpl.StartTime)
	if err != nil {
		return fmt.Errorf("无效的开始时刻 %q", tpl.StartTime)
	}
	end, err := time.Parse("15:04:05", tpl.EndTime)
	if err != nil {
		return fmt.Errorf("无效的结束时刻 %q", tpl.EndTime)
	}

	if !start.Before(end) {
		return errors.New("班次的开始时刻必须早于结束时刻")
	}

	if len(tpl.ApplicableDays) == 0 {
		return errors.New("班次至少需要一个适用日期")
	}
	seen := map[int32]bool{}
	for _, day := range tpl.ApplicableDays {
		if day < 1 || day > 7 {
			return fmt.Errorf("无效的适用日期 %d", day)
		}
		if seen[day] {
			return fmt.Errorf("适用日期 %d 重复", day)
		}
		seen[day] = true
	}

	return nil
}
