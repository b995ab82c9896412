package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizdesk/internal/apperr"
	"github.com/mind-engage/quizdesk/internal/delivery"
	"github.com/mind-engage/quizdesk/internal/report"
	"github.com/mind-engage/quizdesk/internal/storage"
)

// GET /attempts/{attemptID}/report. The first download renders and archives
// the PDF; later ones stream the archived copy.
func ReportHandler(attempts *delivery.Manager, blobs storage.BlobStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := attempts.Get(chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, err)
			return
		}
		snap := a.Snapshot()
		if snap.Phase != delivery.PhaseSubmitted {
			writeError(w, apperr.E(apperr.Validation, "attempt has not been submitted"))
			return
		}
		key := storage.ReportKey(snap.ID)

		var body io.Reader
		if blobs != nil {
			if ok, _ := blobs.Exists(r.Context(), key); ok {
				rc, err := blobs.Get(r.Context(), key)
				if err == nil {
					defer rc.Close()
					body = rc
				}
			}
		}
		if body == nil {
			pdf, err := report.RenderPDF(report.Build(snap.QuizID, snap))
			if err != nil {
				writeError(w, err)
				return
			}
			if blobs != nil {
				if _, err := blobs.Put(r.Context(), key, bytes.NewReader(pdf)); err != nil && logger != nil {
					logger.Warn("archive report", slog.String("key", key), slog.Any("err", err))
				}
			}
			body = bytes.NewReader(pdf)
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-results-%s.pdf"`, snap.QuizID))
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, body)
	}
}
