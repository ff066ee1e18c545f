package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/rollcall"
)

func (h *Handler) GetMyOrganization(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	org, err := h.repository.GetOrganizationByID(myInfo.OrgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取组织信息成功", org)
}

func (h *Handler) UpdateMyOrganization(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Name                  *string `json:"name"`
		Timezone              *string `json:"timezone"`
		RollCallsPerHour      *int    `json:"rollCallsPerHour"`
		ResponseWindowMinutes *int    `json:"responseWindowMinutes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	org, err := h.repository.GetOrganizationByID(myInfo.OrgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			h.badRequest(w, r, errors.New("时区无效"))
			return
		}
		org.Timezone = *req.Timezone
	}
	if req.RollCallsPerHour != nil {
		if *req.RollCallsPerHour < rollcall.MinPerHour || *req.RollCallsPerHour > rollcall.MaxPerHour {
			h.badRequest(w, r, fmt.Errorf("每小时点名次数必须在 %d 到 %d 之间", rollcall.MinPerHour, rollcall.MaxPerHour))
			return
		}
		org.RollCallsPerHour = *req.RollCallsPerHour
	}
	if req.ResponseWindowMinutes != nil {
		if *req.ResponseWindowMinutes < 1 || *req.ResponseWindowMinutes > 60 {
			h.badRequest(w, r, errors.New("响应窗口必须在 1 到 60 分钟之间"))
			return
		}
		org.ResponseWindowMinutes = *req.ResponseWindowMinutes
	}

	if err := h.repository.UpdateOrganization(org); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errorResponse(w, r, "更新组织信息失败，请重试")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新组织信息成功", org)
}
