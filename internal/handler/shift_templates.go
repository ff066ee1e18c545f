package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/utils"
)

func (h *Handler) GetOrgShiftTemplates(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	templates, err := h.repository.GetShiftTemplatesByOrg(myInfo.OrgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次模板列表成功", templates)
}

func (h *Handler) GetShiftTemplate(w http.ResponseWriter, r *http.Request) {
	tpl := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)
	h.successResponse(w, r, "获取班次模板成功", tpl)
}

func (h *Handler) CreateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Name           string  `json:"name" validate:"required"`
		Timezone       string  `json:"timezone" validate:"required"`
		StartTime      string  `json:"startTime" validate:"required"`
		EndTime        string  `json:"endTime" validate:"required"`
		ApplicableDays []int32 `json:"applicableDays" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tpl := &domain.ShiftTemplate{
		OrgID:          myInfo.OrgID,
		Name:           req.Name,
		Timezone:       req.Timezone,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ApplicableDays: req.ApplicableDays,
	}

	if err := utils.ValidateShiftTemplate(tpl); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftTemplate(tpl); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次模板成功", tpl)
}

func (h *Handler) UpdateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           *string `json:"name"`
		StartTime      *string `json:"startTime"`
		EndTime        *string `json:"endTime"`
		ApplicableDays []int32 `json:"applicableDays"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tpl := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.StartTime != nil {
		tpl.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		tpl.EndTime = *req.EndTime
	}
	if req.ApplicableDays != nil {
		tpl.ApplicableDays = req.ApplicableDays
	}

	if err := utils.ValidateShiftTemplate(tpl); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftTemplate(tpl); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errorResponse(w, r, "更新班次模板失败，请重试")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次模板成功", tpl)
}

func (h *Handler) DeleteShiftTemplate(w http.ResponseWriter, r *http.Request) {
	tpl := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	if err := h.repository.DeleteShiftTemplate(tpl.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次模板成功", nil)
}

func (h *Handler) CreateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		ShiftID       int64      `json:"shiftId" validate:"required"`
		UserID        int64      `json:"userId" validate:"required"`
		EffectiveFrom time.Time  `json:"effectiveFrom" validate:"required"`
		EffectiveTo   *time.Time `json:"effectiveTo"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.EffectiveTo != nil && !req.EffectiveFrom.Before(*req.EffectiveTo) {
		h.badRequest(w, r, errors.New("生效开始时间必须早于结束时间"))
		return
	}

	// 模板和用户都必须属于操作者所在的组织
	tpl, err := h.repository.GetShiftTemplate(req.ShiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errorResponse(w, r, "班次模板不存在")
			return
		}
		h.internalServerError(w, r, err)
		return
	}
	if tpl.OrgID != myInfo.OrgID {
		h.forbiddenResponse(w, r, "您无权操作该班次模板")
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

	assignment := &domain.ShiftAssignment{
		ShiftID:       req.ShiftID,
		UserID:        req.UserID,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	}

	if err := h.repository.CreateShiftAssignment(assignment); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次安排成功", assignment)
}

func (h *Handler) DeleteShiftAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "无效的班次安排 ID")
		return
	}

	if err := h.repository.DeleteShiftAssignment(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次安排成功", nil)
}
