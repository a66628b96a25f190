package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
	"github.com/ukydev/autoservice/internal/shop"
)

// RecordsHandler serves the shop records.
type RecordsHandler struct {
	shop          *shop.Shop
	rr            *requestReader
	log           logrus.FieldLogger
	retentionDays int
}

// NewRecordsHandler creates the records handler. retentionDays is the purge
// age used when a request does not name one.
func NewRecordsHandler(s *shop.Shop, log logrus.FieldLogger, retentionDays int) *RecordsHandler {
	return &RecordsHandler{shop: s, rr: newRequestReader(), log: log, retentionDays: retentionDays}
}

type modeler[M any] interface {
	model(rr *requestReader) M
}

func createRecord[Req modeler[M], M models.Record[M], V any](
	h *RecordsHandler, w http.ResponseWriter, r *http.Request,
	create func(context.Context, M) (M, error), view func(M) V,
) {
	var req Req
	if !h.rr.decode(w, r, &req) {
		return
	}
	rec, err := create(r.Context(), req.model(h.rr))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, view(rec))
}

// updateRecord replaces the record and answers with the stored version,
// which may keep fields the request cannot change.
func updateRecord[Req modeler[M], M models.Record[M], V any](
	h *RecordsHandler, w http.ResponseWriter, r *http.Request,
	update func(context.Context, M) error, get func(context.Context, int64) (M, error), view func(M) V,
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req Req
	if !h.rr.decode(w, r, &req) {
		return
	}
	if err := update(r.Context(), req.model(h.rr).WithKey(id)); err != nil {
		fail(w, r, h.log, err)
		return
	}
	getRecord(h, w, r, get, view)
}

func getRecord[M any, V any](
	h *RecordsHandler, w http.ResponseWriter, r *http.Request,
	get func(context.Context, int64) (M, error), view func(M) V,
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, err := get(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view(rec))
}

func deleteRecord(h *RecordsHandler, w http.ResponseWriter, r *http.Request, del func(context.Context, int64) error) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		fail(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func listRecords[M any, V any](
	h *RecordsHandler, w http.ResponseWriter, r *http.Request, q db.Query,
	list func(context.Context, db.Query) ([]M, error), view func(M) V,
) {
	recs, err := list(r.Context(), q)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, views(recs, view))
}

// Owners

func (h *RecordsHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r)
	if !ok {
		return
	}
	listRecords(h, w, r, q.OrderBy("last_name").OrderBy("first_name"), h.shop.Owners, newOwnerView)
}

func (h *RecordsHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	createRecord[ownerRequest](h, w, r, h.shop.CreateOwner, newOwnerView)
}

func (h *RecordsHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	getRecord(h, w, r, h.shop.Owner, newOwnerView)
}

func (h *RecordsHandler) UpdateOwner(w http.ResponseWriter, r *http.Request) {
	updateRecord[ownerRequest](h, w, r, h.shop.UpdateOwner, h.shop.Owner, newOwnerView)
}

func (h *RecordsHandler) DeleteOwner(w http.ResponseWriter, r *http.Request) {
	deleteRecord(h, w, r, h.shop.DeleteOwner)
}

// Cars

func (h *RecordsHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r, "owner_id")
	if !ok {
		return
	}
	listRecords(h, w, r, q.OrderBy("number"), h.shop.Cars, newCarView)
}

func (h *RecordsHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	createRecord[carRequest](h, w, r, h.shop.CreateCar, newCarView)
}

func (h *RecordsHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	getRecord(h, w, r, h.shop.Car, newCarView)
}

func (h *RecordsHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	updateRecord[carRequest](h, w, r, h.shop.UpdateCar, h.shop.Car, newCarView)
}

func (h *RecordsHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	deleteRecord(h, w, r, h.shop.DeleteCar)
}

// Service requests

func (h *RecordsHandler) ListServiceRequests(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r, "car_id")
	if !ok {
		return
	}
	listRecords(h, w, r, q.OrderByDesc("request_date"), h.shop.ServiceRequests, newServiceRequestView)
}

func (h *RecordsHandler) CreateServiceRequest(w http.ResponseWriter, r *http.Request) {
	createRecord[serviceRequestRequest](h, w, r, h.shop.CreateServiceRequest, newServiceRequestView)
}

// GetServiceRequest also reports whether the request still has open work.
func (h *RecordsHandler) GetServiceRequest(w http.ResponseWriter, r *http.Request) {
	getRecord(h, w, r, h.serviceRequestWithState, func(v serviceRequestView) serviceRequestView { return v })
}

func (h *RecordsHandler) serviceRequestWithState(ctx context.Context, id int64) (serviceRequestView, error) {
	req, err := h.shop.ServiceRequest(ctx, id)
	if err != nil {
		return serviceRequestView{}, err
	}
	active, err := h.shop.RequestActive(ctx, id)
	if err != nil {
		return serviceRequestView{}, err
	}
	v := newServiceRequestView(req)
	v.Active = &active
	return v, nil
}

func (h *RecordsHandler) UpdateServiceRequest(w http.ResponseWriter, r *http.Request) {
	updateRecord[serviceRequestRequest](h, w, r, h.shop.UpdateServiceRequest, h.shop.ServiceRequest, newServiceRequestView)
}

func (h *RecordsHandler) DeleteServiceRequest(w http.ResponseWriter, r *http.Request) {
	deleteRecord(h, w, r, h.shop.DeleteServiceRequest)
}

// Spare parts

func (h *RecordsHandler) ListSpareParts(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r, "repair_id")
	if !ok {
		return
	}
	listRecords(h, w, r, q.OrderBy("_id"), h.shop.SpareParts, newSparePartView)
}

func (h *RecordsHandler) CreateSparePart(w http.ResponseWriter, r *http.Request) {
	createRecord[sparePartRequest](h, w, r, h.shop.CreateSparePart, newSparePartView)
}

func (h *RecordsHandler) GetSparePart(w http.ResponseWriter, r *http.Request) {
	getRecord(h, w, r, h.shop.SparePart, newSparePartView)
}

func (h *RecordsHandler) UpdateSparePart(w http.ResponseWriter, r *http.Request) {
	updateRecord[sparePartRequest](h, w, r, h.shop.UpdateSparePart, h.shop.SparePart, newSparePartView)
}

func (h *RecordsHandler) DeleteSparePart(w http.ResponseWriter, r *http.Request) {
	deleteRecord(h, w, r, h.shop.DeleteSparePart)
}

// Employees

func (h *RecordsHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r)
	if !ok {
		return
	}
	listRecords(h, w, r, q.OrderBy("last_name").OrderBy("first_name"), h.shop.Employees, newEmployeeView)
}

func (h *RecordsHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	createRecord[employeeRequest](h, w, r, h.shop.CreateEmployee, newEmployeeView)
}

func (h *RecordsHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	getRecord(h, w, r, h.shop.Employee, newEmployeeView)
}

func (h *RecordsHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	updateRecord[employeeRequest](h, w, r, h.shop.UpdateEmployee, h.shop.Employee, newEmployeeView)
}

func (h *RecordsHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	deleteRecord(h, w, r, h.shop.DeleteEmployee)
}

func (h *RecordsHandler) EmployeeWorkload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	load, err := h.shop.EmployeeWorkload(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, workloadView{EmployeeID: id, Workload: load, Status: load.Status()})
}

func (h *RecordsHandler) EmployeeRepairs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	repairs, err := h.shop.EmployeeRepairs(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, views(repairs, h.repairViewer(r.Context())))
}
