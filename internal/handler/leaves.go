package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/attendance"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		UserID int64  `json:"userId" validate:"required"`
		Date   string `json:"date" validate:"required"`
		Type   string `json:"type" validate:"required,oneof=LEAVE DAY_OFF"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := attendance.ParseDate(req.Date); err != nil {
		h.badRequest(w, r, errors.New("日期格式无效"))
		return
	}

	user, err := h.repository.GetUserByID(req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errorResponse(w, r, "用户不存在")
			return
		}
		h.internalServerError(w, r, err)
		return
	}
	if user.OrgID != myInfo.OrgID {
		h.forbiddenResponse(w, r, "您无权操作该用户")
		return
	}

	leave := &domain.Leave{
		OrgID:  myInfo.OrgID,
		UserID: req.UserID,
		Date:   req.Date,
		Type:   domain.LeaveType(req.Type),
	}

	if err := h.repository.CreateLeave(leave); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建请假记录成功", leave)
}

func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "无效的请假记录 ID")
		return
	}

	if err := h.repository.DeleteLeave(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除请假记录成功", nil)
}

// GetLeavesByDate 按日期查询组织内的请假记录，缺省为组织时区下的今天
func (h *Handler) GetLeavesByDate(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	org, err := h.repository.GetOrganizationByID(myInfo.OrgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	date, err := h.parseDateParam(r, org, time.Now().UTC())
	if err != nil {
		h.errorResponse(w, r, "日期格式无效")
		return
	}

	leaves, err := h.repository.GetLeavesByOrgAndDate(myInfo.OrgID, date.String())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假记录成功", leaves)
}
