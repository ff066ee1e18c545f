package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/attendance"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func (h *Handler) orgLocation(org *domain.Organization) *time.Location {
	loc, err := time.LoadLocation(org.Timezone)
	if err != nil {
		loc, err = time.LoadLocation(h.config.Attendance.DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}
	return loc
}

// buildDaySummary 汇总一个用户一天的考勤，汇总是派生数据，每次读取都重新计算
func (h *Handler) buildDaySummary(user *domain.User, org *domain.Organization, date attendance.Date, now time.Time) (domain.DaySummary, error) {
	assignments, templates, err := h.repository.GetUserShiftSchedule(user.ID)
	if err != nil {
		return domain.DaySummary{}, err
	}

	windows, err := attendance.WindowsForDay(templates, assignments, date)
	if err != nil {
		return domain.DaySummary{}, err
	}

	orgLoc := h.orgLocation(org)

	// 没有任何班次安排的用户按组织时区的整天窗口计算
	if len(windows) == 0 && len(assignments) == 0 {
		windows = []attendance.Interval{attendance.FullDayWindow(date, orgLoc)}
	}

	// 会话按窗口覆盖的 UTC 范围取数，窗口为空时就没有可计入的时间
	var sessions []*domain.WorkSession
	if len(windows) > 0 {
		rangeStart := windows[0].Start
		rangeEnd := windows[0].End
		for _, window := range windows[1:] {
			if window.Start.Before(rangeStart) {
				rangeStart = window.Start
			}
			if window.End.After(rangeEnd) {
				rangeEnd = window.End
			}
		}

		sessions, err = h.repository.GetSessionsOverlapping(user.ID, rangeStart, rangeEnd)
		if err != nil {
			return domain.DaySummary{}, err
		}
	}

	// 点名按组织时区的日界归属到日期
	dayStart := date.In(orgLoc).UTC()
	dayEnd := date.AddDays(1).In(orgLoc).UTC()
	rollCalls, err := h.repository.GetRollCallsBetween(user.ID, dayStart, dayEnd)
	if err != nil {
		return domain.DaySummary{}, err
	}

	return attendance.BuildDaySummary(attendance.DayInput{
		UserID:    user.ID,
		Date:      date,
		Sessions:  sessions,
		Windows:   windows,
		RollCalls: rollCalls,
		Now:       now,
		Allowances: attendance.Allowances{
			LunchMinutes:      h.config.Attendance.LunchAllowanceMinutes,
			ShortBreakMinutes: h.config.Attendance.ShortBreakAllowanceMinutes,
			DailyCapMinutes:   h.config.Attendance.DailyCapMinutes,
		},
		ResponseWindow: time.Duration(org.ResponseWindowMinutes) * time.Minute,
	}), nil
}

func (h *Handler) buildRangeSummary(user *domain.User, org *domain.Organization, start, end attendance.Date, now time.Time) (domain.RangeSummary, error) {
	days := make([]domain.DaySummary, 0)
	for _, date := range attendance.DatesBetween(start, end) {
		day, err := h.buildDaySummary(user, org, date, now)
		if err != nil {
			return domain.RangeSummary{}, err
		}
		days = append(days, day)
	}

	return attendance.SumRange(user.ID, start, end, days), nil
}

// parseDateParam 解析 date 查询参数，缺省为组织时区下的今天
func (h *Handler) parseDateParam(r *http.Request, org *domain.Organization, now time.Time) (attendance.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return attendance.DateOf(now, h.orgLocation(org)), nil
	}
	return attendance.ParseDate(raw)
}

func (h *Handler) getDaySummary(w http.ResponseWriter, r *http.Request, user *domain.User) {
	org, err := h.repository.GetOrganizationByID(user.OrgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	now := time.Now().UTC()
	date, err := h.parseDateParam(r, org, now)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效")
		return
	}

	summary, err := h.buildDaySummary(user, org, date, now)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取当日汇总成功", summary)
}

func (h *Handler) getRangeSummary(w http.ResponseWriter, r *http.Request, user *domain.User) {
	org, err := h.repository.GetOrganizationByID(user.OrgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	now := time.Now().UTC()
	today := attendance.DateOf(now, h.orgLocation(org))

	var start, end attendance.Date

	// period=weekly 取最近 7 天，period=monthly 取最近 30 天，
	// 自定义区间用 start 和 end 参数
	switch r.URL.Query().Get("period") {
	case "weekly":
		end = today
		start = today.AddDays(-6)
	case "monthly":
		end = today
		start = today.AddDays(-29)
	default:
		var err error
		start, err = attendance.ParseDate(r.URL.Query().Get("start"))
		if err != nil {
			h.errorResponse(w, r, "开始日期无效")
			return
		}
		end, err = attendance.ParseDate(r.URL.Query().Get("end"))
		if err != nil {
			h.errorResponse(w, r, "结束日期无效")
			return
		}
		if end.Before(start) {
			h.errorResponse(w, r, "结束日期不能早于开始日期")
			return
		}
	}

	summary, err := h.buildRangeSummary(user, org, start, end, now)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取区间汇总成功", summary)
}

func (h *Handler) GetMyDaySummary(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.getDaySummary(w, r, myInfo)
}

func (h *Handler) GetMyRangeSummary(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.getRangeSummary(w, r, myInfo)
}

func (h *Handler) GetUserDaySummary(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)
	h.getDaySummary(w, r, user)
}

func (h *Handler) GetUserRangeSummary(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)
	h.getRangeSummary(w, r, user)
}
