package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	reportservice "boletimCampo/internal/service/report"
	"boletimCampo/internal/service/session"
)

const maxBodyBytes = 1 << 20

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}

	return nil
}

// owner returns the account of the session placed by RequireSession.
func owner(r *http.Request) (uuid.UUID, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return uuid.Nil, session.ErrSessionNotFound
	}

	return sess.AccountID, nil
}

func reportID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, reportservice.ErrReportNotFound
	}

	return id, nil
}

func ListReportsHandler(
	log *slog.Logger,
	reports ReportService,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.ListReportsHandler"

		log := log.With(slog.String("op", op))

		ownerID, err := owner(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		list, err := reports.List(r.Context(), ownerID, r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func CreateReportHandler(
	log *slog.Logger,
	reports ReportService,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.CreateReportHandler"

		log := log.With(slog.String("op", op))

		ownerID, err := owner(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		var req models.FieldReport
		if err := decode(r, &req); err != nil {
			log.Info("failed to decode request", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
			return
		}

		created, err := reports.Create(r.Context(), ownerID, req)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func GetReportHandler(
	log *slog.Logger,
	reports ReportService,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.GetReportHandler"

		log := log.With(slog.String("op", op))

		ownerID, err := owner(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		id, err := reportID(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		report, err := reports.Get(r.Context(), ownerID, id)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func UpdateReportHandler(
	log *slog.Logger,
	reports ReportService,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.UpdateReportHandler"

		log := log.With(slog.String("op", op))

		ownerID, err := owner(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		id, err := reportID(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		var req models.FieldReport
		if err := decode(r, &req); err != nil {
			log.Info("failed to decode request", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
			return
		}
		req.ID = id

		updated, err := reports.Update(r.Context(), ownerID, req)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteReportHandler(
	log *slog.Logger,
	reports ReportService,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.DeleteReportHandler"

		log := log.With(slog.String("op", op))

		ownerID, err := owner(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		id, err := reportID(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		if err := reports.Delete(r.Context(), ownerID, id); err != nil {
			writeError(w, log, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ExportReportHandler(
	log *slog.Logger,
	reports ReportService,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.ExportReportHandler"

		log := log.With(slog.String("op", op))

		ownerID, err := owner(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		id, err := reportID(r)
		if err != nil {
			writeError(w, log, err)
			return
		}

		name, pdf, err := reports.Export(r.Context(), ownerID, id)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writePDF(w, log, name, pdf)
	}
}

func SampleReportHandler(
	log *slog.Logger,
	reports ReportService,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.SampleReportHandler"

		log := log.With(slog.String("op", op))

		name, pdf, err := reports.Sample(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}

		writePDF(w, log, name, pdf)
	}
}

// writePDF sends a fully rendered document; nothing is written before it.
func writePDF(w http.ResponseWriter, log *slog.Logger, name string, pdf []byte) {
	if len(pdf) == 0 {
		writeError(w, log, errors.New("empty document"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(pdf); err != nil {
		log.Warn("failed to write document", slog.String("error", err.Error()))
	}
}
