package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/repository"
	"github.com/planta-aurora/backoffice/backend/internal/rut"
)

// RegisterVisitEntry registra un ingreso en portería. El estado contra la
// dotación se resuelve acá: si el RUT existe como colaborador se hereda su
// estado, si no, queda como EXTERNO. Un BLOQUEADO no entra.
func (h *Handler) RegisterVisitEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RUT          string `json:"rut" validate:"required,rut"`
		Name         string `json:"name"`
		Company      string `json:"company"`
		AuthorizedBy string `json:"authorizedBy"`
		Host         string `json:"host"`
		Location     string `json:"location"`
		CardNumber   string `json:"cardNumber"`
		Plate        string `json:"plate"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	normalized := rut.Normalize(req.RUT)

	status, rosterName, err := h.visitorStatus(r, normalized)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if status == domain.VisitorBlocked {
		h.errorResponse(w, r, "la persona está bloqueada, el ingreso debe autorizarlo un supervisor")
		return
	}

	name := req.Name
	if name == "" {
		name = rosterName
	}
	if name == "" {
		h.badRequest(w, r, errors.New("falta el nombre del visitante"))
		return
	}

	recordedBy, _ := r.Context().Value(SubCtxKey).(string)

	visit := &domain.Visit{
		RUT:          normalized,
		Name:         name,
		Company:      req.Company,
		RosterStatus: status,
		AuthorizedBy: req.AuthorizedBy,
		Host:         req.Host,
		Location:     req.Location,
		CardNumber:   req.CardNumber,
		Plate:        req.Plate,
		RecordedBy:   recordedBy,
	}

	if err := h.repository.CreateVisit(r.Context(), visit); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ingreso registrado", visit)
}

// visitorStatus clasifica un RUT contra la dotación.
func (h *Handler) visitorStatus(r *http.Request, normalizedRUT string) (domain.VisitorStatus, string, error) {
	worker, err := h.repository.GetWorkerByRUT(r.Context(), normalizedRUT)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.VisitorExternal, "", nil
	case err != nil:
		return "", "", err
	}

	switch worker.Status {
	case domain.WorkerStatusBlocked:
		return domain.VisitorBlocked, worker.FullName, nil
	case domain.WorkerStatusTerminated:
		return domain.VisitorTerminated, worker.FullName, nil
	default:
		return domain.VisitorActive, worker.FullName, nil
	}
}

func (h *Handler) GetVisitsInside(w http.ResponseWriter, r *http.Request) {
	visits, err := h.repository.GetVisitsInside(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "visitas en planta obtenidas", visits)
}

func (h *Handler) GetVisitHistory(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.errorResponse(w, r, "parámetro 'date' inválido, se espera AAAA-MM-DD")
			return
		}
		date = parsed
	}

	visits, err := h.repository.GetVisitsByDate(r.Context(), date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "historial de visitas obtenido", visits)
}

// LookupVisitorRUT es la consulta rápida de portería: antes de anotar a
// alguien el guardia verifica el RUT y ve con qué estado viene.
func (h *Handler) LookupVisitorRUT(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "rut")
	normalized := rut.Normalize(raw)
	if !rut.Valid(normalized) {
		h.errorResponse(w, r, "el RUT no es válido")
		return
	}

	status, name, err := h.visitorStatus(r, normalized)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "RUT verificado", map[string]any{
		"rut":    rut.Format(normalized),
		"name":   name,
		"status": status,
	})
}

func (h *Handler) GetVisit(w http.ResponseWriter, r *http.Request) {
	visit := r.Context().Value(VisitCtx).(*domain.Visit)
	h.successResponse(w, r, "visita obtenida", visit)
}

func (h *Handler) RegisterVisitExit(w http.ResponseWriter, r *http.Request) {
	visit := r.Context().Value(VisitCtx).(*domain.Visit)

	updated, err := h.repository.RegisterVisitExit(r.Context(), visit.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVisitClosed):
			h.errorResponse(w, r, "la visita ya tiene salida registrada")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "salida registrada", updated)
}
