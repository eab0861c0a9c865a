package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/service"
)

const (
	// maxImportSize bounds the settings document accepted by import
	maxImportSize = 1 << 20
	// maxRestoreSize bounds a full backup accepted by restore
	maxRestoreSize = 16 << 20
)

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.svc.Settings())
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.SaveSettings(r.Context(), req); err != nil {
		s.respondServiceError(w, err, "save settings")
		return
	}
	s.respondJSON(w, http.StatusOK, s.svc.Settings())
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ResetSettings(r.Context()); err != nil {
		s.respondServiceError(w, err, "reset settings")
		return
	}
	s.respondJSON(w, http.StatusOK, s.svc.Settings())
}

func (s *Server) handleExportSettings(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.svc.ExportSettings(&buf); err != nil {
		s.respondServiceError(w, err, "export settings")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="planmyevents-settings.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.WithError(err).Error("failed to write settings export")
	}
}

func (s *Server) handleImportSettings(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil || r.Body == http.NoBody {
		s.respondError(w, http.StatusBadRequest, "request body is empty")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := s.svc.ImportSettings(r.Context(), body); err != nil {
		s.respondServiceError(w, err, "import settings")
		return
	}
	s.respondJSON(w, http.StatusOK, s.svc.Settings())
}

// ---------------------------------------------------------------------------
// Maintenance
// ---------------------------------------------------------------------------

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearAllData(r.Context()); err != nil {
		s.respondServiceError(w, err, "clear data")
		return
	}
	s.logger.WithField("remote", r.RemoteAddr).Warn("Planning data cleared over HTTP")
	s.respondJSON(w, http.StatusNoContent, nil)
}

// handleBackup downloads a snapshot of the whole state in the format the
// backup scheduler writes.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.BackupName(snap.TakenAt)))
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRestoreSize)

	var snap models.Snapshot
	if ok, msg := s.decodeJSON(r, &snap); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.Restore(r.Context(), snap); err != nil {
		s.respondServiceError(w, err, "restore backup")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"remote":   r.RemoteAddr,
		"taken_at": snap.TakenAt,
	}).Warn("State restored over HTTP")
	s.respondJSON(w, http.StatusOK, s.svc.Stats())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.svc.Stats())
}
