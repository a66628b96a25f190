package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/billing"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
	"github.com/ukydev/autoservice/internal/shop"
)

// ListRepairs accepts status=active|completed besides the request_id filter.
func (h *RecordsHandler) ListRepairs(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r, "request_id")
	if !ok {
		return
	}
	switch r.URL.Query().Get("status") {
	case "":
	case "active":
		q.Where = append(q.Where, db.IsNull("completion_date"))
	case "completed":
		q.Where = append(q.Where, db.NotNull("completion_date"))
	default:
		writeError(w, http.StatusBadRequest, "validation", "status must be active or completed")
		return
	}
	listRecords(h, w, r, q.OrderByDesc("_id"), h.shop.Repairs, h.repairViewer(r.Context()))
}

func (h *RecordsHandler) CreateRepair(w http.ResponseWriter, r *http.Request) {
	createRecord[repairRequest](h, w, r, h.shop.CreateRepair, h.repairViewer(r.Context()))
}

func (h *RecordsHandler) GetRepair(w http.ResponseWriter, r *http.Request) {
	getRecord(h, w, r, h.shop.Repair, h.repairViewer(r.Context()))
}

func (h *RecordsHandler) UpdateRepair(w http.ResponseWriter, r *http.Request) {
	updateRecord[repairRequest](h, w, r, h.shop.UpdateRepair, h.shop.Repair, h.repairViewer(r.Context()))
}

func (h *RecordsHandler) DeleteRepair(w http.ResponseWriter, r *http.Request) {
	deleteRecord(h, w, r, h.shop.DeleteRepair)
}

// repairViewer builds repair views with their start dates. Request lookups
// are cached for the life of one response.
func (h *RecordsHandler) repairViewer(ctx context.Context) func(models.Repair) repairView {
	starts := make(map[int64]*time.Time)
	return func(rep models.Repair) repairView {
		start, ok := starts[rep.RequestID]
		if !ok {
			req, err := h.shop.ServiceRequest(ctx, rep.RequestID)
			if err != nil {
				h.log.WithError(err).WithField("request_id", rep.RequestID).Warn("Failed to load repair start date")
			} else {
				start = &req.RequestDate
			}
			starts[rep.RequestID] = start
		}
		return newRepairView(rep, start)
	}
}

// CompleteRepair answers with the CompletedWork the completion created.
func (h *RecordsHandler) CompleteRepair(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	work, err := h.shop.CompleteRepair(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newCompletedWorkView(work))
}

func (h *RecordsHandler) RepairTotal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	total, err := h.shop.RepairTotal(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, totalView{RepairID: id, Total: total, Text: billing.FormatCurrency(&total)})
}

func (h *RecordsHandler) RepairEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	staff, err := h.shop.RepairEmployees(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, views(staff, newEmployeeView))
}

// AssignEmployee is idempotent: a repeated call answers 200 with
// "already assigned".
func (h *RecordsHandler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	h.link(w, r, h.shop.Assign)
}

// UnassignEmployee answers "not assigned" when there was no link.
func (h *RecordsHandler) UnassignEmployee(w http.ResponseWriter, r *http.Request) {
	h.link(w, r, h.shop.Unassign)
}

func (h *RecordsHandler) link(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, repairID, employeeID int64) (shop.AssignResult, error)) {
	repairID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	res, err := op(r.Context(), repairID, employeeID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	h.log.WithFields(logrus.Fields{"repair_id": repairID, "employee_id": employeeID, "result": res.String()}).Info("Assignment handled")
	writeJSON(w, http.StatusOK, assignmentView{RepairID: repairID, EmployeeID: employeeID, Result: res.String()})
}
