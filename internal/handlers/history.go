package handlers

import (
	"net/http"
	"strconv"
)

func (h *RecordsHandler) ListCompletedWorks(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r, "car_id", "repair_id")
	if !ok {
		return
	}
	listRecords(h, w, r, q.OrderByDesc("completion_date"), h.shop.CompletedWorks, newCompletedWorkView)
}

func (h *RecordsHandler) GetCompletedWork(w http.ResponseWriter, r *http.Request) {
	getRecord(h, w, r, h.shop.CompletedWork, newCompletedWorkView)
}

func (h *RecordsHandler) DeleteCompletedWork(w http.ResponseWriter, r *http.Request) {
	deleteRecord(h, w, r, h.shop.DeleteCompletedWork)
}

type purgeView struct {
	OlderThanDays int   `json:"older_than_days"`
	Purged        int64 `json:"purged"`
}

// PurgeCompletedWorks deletes history older than older_than_days, or the
// configured retention when the parameter is absent.
func (h *RecordsHandler) PurgeCompletedWorks(w http.ResponseWriter, r *http.Request) {
	days := h.retentionDays
	if raw := r.URL.Query().Get("older_than_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "validation", "older_than_days must be a non-negative integer")
			return
		}
		days = n
	}
	purged, err := h.shop.PurgeCompletedWork(r.Context(), days)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, purgeView{OlderThanDays: days, Purged: purged})
}
