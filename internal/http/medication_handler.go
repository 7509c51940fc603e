package httpapi

import (
	"fmt"
	"net/http"

	"silvercare/internal/service"

	"go.uber.org/zap"
)

type MedicationHandler struct {
	svc     *service.MedicationService
	maxBody int64
	logger  *zap.Logger
}

func NewMedicationHandler(svc *service.MedicationService, maxBody int64, logger *zap.Logger) *MedicationHandler {
	return &MedicationHandler{svc: svc, maxBody: maxBody, logger: logger}
}

// Create handles POST /medicines.
func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req service.CreateMedicationRequest
	if err := readBodyJSON(r, h.maxBody, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	rec, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ServeItem dispatches the /medicines/ subtree.
func (h *MedicationHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	segs := pathSegments(r.URL.Path, "/medicines/")
	switch {
	case len(segs) == 1 && r.Method == http.MethodGet:
		h.list(w, r, segs[0])
	case len(segs) == 1 && r.Method == http.MethodPut:
		h.updateStatus(w, r, segs[0])
	case len(segs) == 2 && segs[1] == "export" && r.Method == http.MethodGet:
		h.export(w, r, segs[0])
	case len(segs) == 2 && segs[1] == "summary" && r.Method == http.MethodGet:
		h.summary(w, r, segs[0])
	case len(segs) == 1 || (len(segs) == 2 && (segs[1] == "export" || segs[1] == "summary")):
		methodNotAllowed(w)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *MedicationHandler) list(w http.ResponseWriter, r *http.Request, rawUserID string) {
	userID, err := parseID(rawUserID, "user_id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	records, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *MedicationHandler) updateStatus(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseID(rawID, "id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req updateStatusRequest
	if err := readBodyJSON(r, h.maxBody, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	resp, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MedicationHandler) summary(w http.ResponseWriter, r *http.Request, rawUserID string) {
	userID, err := parseID(rawUserID, "user_id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	sum, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *MedicationHandler) export(w http.ResponseWriter, r *http.Request, rawUserID string) {
	userID, err := parseID(rawUserID, "user_id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	records, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	data, err := GenerateMedicationExport(records)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=medications-%d.xlsx", userID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
