package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/importer"
	"github.com/planta-aurora/backoffice/backend/internal/rut"
)

// maxUploadBytes limita el tamaño de las planillas subidas (32 MB).
const maxUploadBytes = 32 << 20

// ImportRoster recibe el informe de dotación como archivo CSV en el campo
// "file" y hace el upsert completo. El resumen vuelve en la respuesta y
// además se envía por correo a quien subió el archivo.
func (h *Handler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	uploader, err := h.currentUser(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.badRequest(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, r, errors.New("falta el archivo en el campo 'file'"))
		return
	}
	defer file.Close()

	source, err := importer.NewCSVSource(file)
	if err != nil {
		h.importError(w, r, err)
		return
	}

	summary, err := h.roster.Import(r.Context(), source, uploader.Username)
	if err != nil {
		h.importError(w, r, err)
		return
	}

	batch := &domain.ImportBatch{
		ID:         uuid.New(),
		Kind:       "fichas",
		SourceName: header.Filename,
		Created:    summary.Created,
		Updated:    summary.Updated,
		Skipped:    summary.Skipped,
		Errored:    summary.Errored,
	}
	if err := h.repository.CreateImportBatch(r.Context(), batch); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.publishMail(domain.MailMessage{
		Type: "import_summary",
		To:   uploader.Email,
		Data: domain.ImportSummaryMailData{
			SourceName: header.Filename,
			Created:    summary.Created,
			Updated:    summary.Updated,
			Skipped:    summary.Skipped,
			Errors:     summary.Errors,
		},
	})

	h.successResponse(w, r, "dotación importada", summary)
}

// importError distingue el error estructural (columnas faltantes, que es
// culpa del archivo) del error interno.
func (h *Handler) importError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *importer.MissingColumnsError
	if errors.As(err, &missing) {
		h.errorResponse(w, r, missing.Error())
		return
	}
	h.internalServerError(w, r, err)
}

func (h *Handler) currentUser(r *http.Request) (*domain.User, error) {
	subString, _ := r.Context().Value(SubCtxKey).(string)
	sub, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		return nil, err
	}
	return h.repository.GetUserByID(r.Context(), sub)
}

func (h *Handler) GetAllWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.repository.GetAllWorkers(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "dotación obtenida", workers)
}

func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerCtx).(*domain.Worker)
	h.successResponse(w, r, "colaborador obtenido", worker)
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RUT        string `json:"rut" validate:"required,rut"`
		FullName   string `json:"fullName" validate:"required"`
		Area       string `json:"area"`
		Section    string `json:"section"`
		Position   string `json:"position"`
		ShiftLabel string `json:"shiftLabel"`
		Email      string `json:"email" validate:"omitempty,email"`
		Phone      string `json:"phone"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	worker := &domain.Worker{
		RUT:        rut.Normalize(req.RUT),
		FullName:   req.FullName,
		Area:       req.Area,
		Section:    req.Section,
		Position:   req.Position,
		ShiftLabel: req.ShiftLabel,
		Status:     domain.WorkerStatusActive,
		Email:      req.Email,
		Phone:      req.Phone,
	}

	if err := h.repository.CreateWorker(r.Context(), worker); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "workers_pkey":
			h.badRequest(w, r, errors.New("el RUT ya está registrado"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyWorkerEvent(r, domain.WorkerCreated, worker, nil)

	h.successResponse(w, r, "colaborador creado", worker)
}

func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName   *string `json:"fullName"`
		Area       *string `json:"area"`
		Section    *string `json:"section"`
		Position   *string `json:"position"`
		ShiftLabel *string `json:"shiftLabel"`
		Status     *string `json:"status" validate:"omitempty,oneof=VIGENTE FINIQUITADO BLOQUEADO"`
		Email      *string `json:"email" validate:"omitempty,email"`
		Phone      *string `json:"phone"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	worker := r.Context().Value(WorkerCtx).(*domain.Worker)

	var changed []string
	apply := func(field string, dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = append(changed, field)
		}
	}

	apply("fullName", &worker.FullName, req.FullName)
	apply("area", &worker.Area, req.Area)
	apply("section", &worker.Section, req.Section)
	apply("position", &worker.Position, req.Position)
	apply("shiftLabel", &worker.ShiftLabel, req.ShiftLabel)
	apply("email", &worker.Email, req.Email)
	apply("phone", &worker.Phone, req.Phone)

	kind := domain.WorkerUpdated
	if req.Status != nil && string(worker.Status) != *req.Status {
		worker.Status = domain.WorkerStatus(*req.Status)
		changed = append(changed, "status")
		if worker.Status == domain.WorkerStatusTerminated {
			kind = domain.WorkerTerminated
		}
	}

	if err := h.repository.UpdateWorker(r.Context(), worker); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no se pudo actualizar el colaborador, intente nuevamente")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if len(changed) > 0 {
		h.notifyWorkerEvent(r, kind, worker, changed)
	}

	h.successResponse(w, r, "colaborador actualizado", worker)
}

func (h *Handler) BlockWorker(w http.ResponseWriter, r *http.Request) {
	h.setWorkerStatus(w, r, domain.WorkerStatusBlocked, domain.WorkerBlocked, "colaborador bloqueado")
}

func (h *Handler) UnblockWorker(w http.ResponseWriter, r *http.Request) {
	h.setWorkerStatus(w, r, domain.WorkerStatusActive, domain.WorkerUnblocked, "colaborador desbloqueado")
}

func (h *Handler) setWorkerStatus(w http.ResponseWriter, r *http.Request, status domain.WorkerStatus, kind domain.WorkerEventKind, msg string) {
	worker := r.Context().Value(WorkerCtx).(*domain.Worker)

	if worker.Status == status {
		h.errorResponse(w, r, "el colaborador ya está en ese estado")
		return
	}

	updated, err := h.repository.UpdateWorkerStatus(r.Context(), worker.RUT, status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyWorkerEvent(r, kind, updated, []string{"status"})

	h.successResponse(w, r, msg, updated)
}

func (h *Handler) notifyWorkerEvent(r *http.Request, kind domain.WorkerEventKind, worker *domain.Worker, changed []string) {
	changedBy, _ := r.Context().Value(SubCtxKey).(string)
	h.notifier.Notify(domain.WorkerEvent{
		Kind:      kind,
		Worker:    worker,
		Changed:   changed,
		ChangedBy: changedBy,
	})
}
