package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/importer"
	"github.com/planta-aurora/backoffice/backend/internal/repository"
	"github.com/planta-aurora/backoffice/backend/internal/rut"
)

// ImportMarkings recibe el Reporte de Estadía como archivo CSV en el
// campo "file".
func (h *Handler) ImportMarkings(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.markings.Import(r.Context(), source, header.Filename)
	if err != nil {
		h.importError(w, r, err)
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

	h.successResponse(w, r, "marcajes importados", summary)
}

func (h *Handler) AnalyzeDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date" validate:"required,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	result, err := h.analyzer.AnalyzeDay(r.Context(), date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "análisis completado", result)
}

// maxAnalyzeRangeDays evita pedir por accidente un reanálisis de años.
const maxAnalyzeRangeDays = 92

func (h *Handler) AnalyzeRange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from" validate:"required,datetime=2006-01-02"`
		To   string `json:"to" validate:"required,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	if to.Before(from) {
		h.errorResponse(w, r, "el rango de fechas está invertido")
		return
	}
	if to.Sub(from) > maxAnalyzeRangeDays*24*time.Hour {
		h.errorResponse(w, r, fmt.Sprintf("el rango no puede superar los %d días", maxAnalyzeRangeDays))
		return
	}

	results := h.analyzer.AnalyzeRange(r.Context(), from, to)

	h.successResponse(w, r, "análisis de rango completado", results)
}

func (h *Handler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	filter := repository.AnomalyFilter{
		RUT:  rut.Normalize(r.URL.Query().Get("rut")),
		Kind: domain.AnomalyKind(r.URL.Query().Get("kind")),
	}

	if v := r.URL.Query().Get("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.errorResponse(w, r, "parámetro 'from' inválido, se espera AAAA-MM-DD")
			return
		}
		filter.From = from
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.errorResponse(w, r, "parámetro 'to' inválido, se espera AAAA-MM-DD")
			return
		}
		filter.To = to
	}

	anomalies, err := h.repository.GetAnomalies(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "anomalías obtenidas", anomalies)
}

// GetAnomalySummary entrega los agregados del dashboard agrupados por
// tipo, área o semana ISO. El resultado se cachea en redis unos minutos
// porque estas consultas son las que dispara cada carga del dashboard.
func (h *Handler) GetAnomalySummary(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if group == "" {
		group = "kind"
	}

	from, to, err := h.summaryRange(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	cacheKey := fmt.Sprintf("anomaly_summary_%s_%s_%s", group, from.Format("2006-01-02"), to.Format("2006-01-02"))

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if cached, err := h.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var rows []*domain.AnomalySummaryRow
		if err := json.Unmarshal([]byte(cached), &rows); err == nil {
			h.successResponse(w, r, "resumen de anomalías obtenido", rows)
			return
		}
	} else if !errors.Is(err, redis.Nil) {
		h.logInternalServerError(r, err)
	}

	var rows []*domain.AnomalySummaryRow
	switch group {
	case "kind":
		rows, err = h.repository.SummarizeAnomaliesByKind(r.Context(), from, to)
	case "area":
		rows, err = h.repository.SummarizeAnomaliesByArea(r.Context(), from, to)
	case "week":
		rows, err = h.repository.SummarizeAnomaliesByWeek(r.Context(), from, to)
	default:
		h.errorResponse(w, r, "parámetro 'group' inválido, se espera kind, area o week")
		return
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if encoded, err := json.Marshal(rows); err == nil {
		ttl := time.Duration(h.config.Analysis.DashboardCacheTTL) * time.Second
		if err := h.redisClient.Set(ctx, cacheKey, encoded, ttl).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	h.successResponse(w, r, "resumen de anomalías obtenido", rows)
}

// summaryRange lee from/to de la query; por omisión los últimos 30 días.
func (h *Handler) summaryRange(r *http.Request) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("parámetro 'from' inválido, se espera AAAA-MM-DD")
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("parámetro 'to' inválido, se espera AAAA-MM-DD")
		}
		to = parsed
	}

	return from, to, nil
}

func (h *Handler) GetAttendanceDays(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		h.errorResponse(w, r, "falta el parámetro 'date'")
		return
	}

	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		h.errorResponse(w, r, "parámetro 'date' inválido, se espera AAAA-MM-DD")
		return
	}

	days, err := h.repository.GetAttendanceDaysByDate(r.Context(), date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "jornadas obtenidas", days)
}

func (h *Handler) GetImportBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.repository.GetAllImportBatches(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "cargas obtenidas", batches)
}
