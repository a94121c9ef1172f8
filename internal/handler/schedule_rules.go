package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

func (h *Handler) GetAllScheduleRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repository.GetAllScheduleRules(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "reglas de horario obtenidas", rules)
}

func (h *Handler) CreateScheduleRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name" validate:"required"`
		Area            string `json:"area"`
		ShiftKeyword    string `json:"shiftKeyword"`
		StartTime       string `json:"startTime" validate:"required,datetime=15:04:05"`
		EndTime         string `json:"endTime" validate:"required,datetime=15:04:05"`
		Overnight       bool   `json:"overnight"`
		LunchStart      string `json:"lunchStart" validate:"omitempty,datetime=15:04:05"`
		LunchEnd        string `json:"lunchEnd" validate:"omitempty,datetime=15:04:05"`
		MaxLunchMinutes int    `json:"maxLunchMinutes" validate:"gte=0"`
		GraceMinutes    int    `json:"graceMinutes" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rule := &domain.ScheduleRule{
		Name:            req.Name,
		Area:            req.Area,
		ShiftKeyword:    req.ShiftKeyword,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Overnight:       req.Overnight,
		LunchStart:      req.LunchStart,
		LunchEnd:        req.LunchEnd,
		MaxLunchMinutes: req.MaxLunchMinutes,
		GraceMinutes:    req.GraceMinutes,
	}

	if err := h.repository.CreateScheduleRule(r.Context(), rule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "regla de horario creada", rule)
}

func (h *Handler) GetScheduleRule(w http.ResponseWriter, r *http.Request) {
	rule := r.Context().Value(ScheduleRuleCtx).(*domain.ScheduleRule)
	h.successResponse(w, r, "regla de horario obtenida", rule)
}

func (h *Handler) UpdateScheduleRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            *string `json:"name"`
		Area            *string `json:"area"`
		ShiftKeyword    *string `json:"shiftKeyword"`
		StartTime       *string `json:"startTime" validate:"omitempty,datetime=15:04:05"`
		EndTime         *string `json:"endTime" validate:"omitempty,datetime=15:04:05"`
		Overnight       *bool   `json:"overnight"`
		LunchStart      *string `json:"lunchStart" validate:"omitempty,datetime=15:04:05"`
		LunchEnd        *string `json:"lunchEnd" validate:"omitempty,datetime=15:04:05"`
		MaxLunchMinutes *int    `json:"maxLunchMinutes" validate:"omitempty,gte=0"`
		GraceMinutes    *int    `json:"graceMinutes" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rule := r.Context().Value(ScheduleRuleCtx).(*domain.ScheduleRule)

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Area != nil {
		rule.Area = *req.Area
	}
	if req.ShiftKeyword != nil {
		rule.ShiftKeyword = *req.ShiftKeyword
	}
	if req.StartTime != nil {
		rule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		rule.EndTime = *req.EndTime
	}
	if req.Overnight != nil {
		rule.Overnight = *req.Overnight
	}
	if req.LunchStart != nil {
		rule.LunchStart = *req.LunchStart
	}
	if req.LunchEnd != nil {
		rule.LunchEnd = *req.LunchEnd
	}
	if req.MaxLunchMinutes != nil {
		rule.MaxLunchMinutes = *req.MaxLunchMinutes
	}
	if req.GraceMinutes != nil {
		rule.GraceMinutes = *req.GraceMinutes
	}

	if err := h.repository.UpdateScheduleRule(r.Context(), rule); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no se pudo actualizar la regla, intente nuevamente")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "regla de horario actualizada", rule)
}

func (h *Handler) DeleteScheduleRule(w http.ResponseWriter, r *http.Request) {
	rule := r.Context().Value(ScheduleRuleCtx).(*domain.ScheduleRule)

	if err := h.repository.DeleteScheduleRule(r.Context(), rule.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "regla de horario eliminada", nil)
}
