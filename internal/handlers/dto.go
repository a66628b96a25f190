package handlers

import (
	"time"

	"github.com/ukydev/autoservice/internal/billing"
	"github.com/ukydev/autoservice/internal/display"
	"github.com/ukydev/autoservice/internal/models"
	"github.com/ukydev/autoservice/internal/shop"
)

const dateLayout = "2006-01-02"

// parseDate reads a value already checked by the datetime validator. Empty
// input is the zero time.
func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

type ownerRequest struct {
	LastName   string `json:"last_name" validate:"required,max=64"`
	FirstName  string `json:"first_name" validate:"required,max=64"`
	MiddleName string `json:"middle_name" validate:"max=64"`
	Phone      string `json:"phone" validate:"required,max=20"`
}

func (req ownerRequest) model(rr *requestReader) models.Owner {
	return models.Owner{
		LastName:   rr.clean(req.LastName),
		FirstName:  rr.clean(req.FirstName),
		MiddleName: rr.clean(req.MiddleName),
		Phone:      req.Phone,
	}
}

type carRequest struct {
	Number      string `json:"number" validate:"required,max=20"`
	Brand       string `json:"brand" validate:"required,max=64"`
	ReleaseDate string `json:"release_date" validate:"required,datetime=2006-01-02"`
	OwnerID     int64  `json:"owner_id" validate:"required,gt=0"`
}

func (req carRequest) model(rr *requestReader) models.Car {
	return models.Car{
		Number:      req.Number,
		Brand:       rr.clean(req.Brand),
		ReleaseDate: parseDate(req.ReleaseDate),
		OwnerID:     req.OwnerID,
	}
}

type serviceRequestRequest struct {
	CarID       int64  `json:"car_id" validate:"required,gt=0"`
	RequestDate string `json:"request_date" validate:"omitempty,datetime=2006-01-02"`
	Issues      string `json:"issues" validate:"required,max=2000"`
}

func (req serviceRequestRequest) model(rr *requestReader) models.ServiceRequest {
	return models.ServiceRequest{
		CarID:       req.CarID,
		RequestDate: parseDate(req.RequestDate),
		Issues:      rr.clean(req.Issues),
	}
}

type repairRequest struct {
	RequestID   int64   `json:"request_id" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,max=2000"`
	Cost        float64 `json:"cost" validate:"gte=0"`
}

func (req repairRequest) model(rr *requestReader) models.Repair {
	return models.Repair{
		RequestID:   req.RequestID,
		Description: rr.clean(req.Description),
		Cost:        req.Cost,
	}
}

type sparePartRequest struct {
	RepairID      int64   `json:"repair_id" validate:"required,gt=0"`
	Name          string  `json:"name" validate:"required,max=128"`
	Number        string  `json:"number" validate:"required,max=64"`
	Cost          float64 `json:"cost" validate:"gte=0"`
	Quantity      int     `json:"quantity" validate:"gte=1"`
	InstalledDate string  `json:"installed_date" validate:"omitempty,datetime=2006-01-02"`
}

func (req sparePartRequest) model(rr *requestReader) models.SparePart {
	return models.SparePart{
		RepairID:      req.RepairID,
		Name:          rr.clean(req.Name),
		Number:        req.Number,
		Cost:          req.Cost,
		Quantity:      req.Quantity,
		InstalledDate: parseDate(req.InstalledDate),
	}
}

type employeeRequest struct {
	LastName   string   `json:"last_name" validate:"required,max=64"`
	FirstName  string   `json:"first_name" validate:"required,max=64"`
	MiddleName string   `json:"middle_name" validate:"max=64"`
	BirthDate  string   `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Address    string   `json:"address" validate:"max=256"`
	Phone      string   `json:"phone" validate:"required,max=20"`
	Position   string   `json:"position" validate:"required,max=64"`
	Salary     float64  `json:"salary" validate:"gte=0"`
	Experience int      `json:"experience" validate:"gte=0"`
	Schedule   string   `json:"schedule" validate:"max=16"`
	Bonus      *float64 `json:"bonus" validate:"omitempty,gte=0"`
}

func (req employeeRequest) model(rr *requestReader) models.Employee {
	return models.Employee{
		LastName:   rr.clean(req.LastName),
		FirstName:  rr.clean(req.FirstName),
		MiddleName: rr.clean(req.MiddleName),
		BirthDate:  parseDate(req.BirthDate),
		Address:    rr.clean(req.Address),
		Phone:      req.Phone,
		Position:   rr.clean(req.Position),
		Salary:     req.Salary,
		Experience: req.Experience,
		Schedule:   req.Schedule,
		Bonus:      req.Bonus,
	}
}

// Views add the display strings shown by clients next to the raw record.

type ownerView struct {
	models.Owner
	FullName string `json:"full_name"`
}

func newOwnerView(o models.Owner) ownerView {
	return ownerView{Owner: o, FullName: display.OwnerName(o)}
}

type carView struct {
	models.Car
	Label       string `json:"label"`
	ReleaseText string `json:"release_text"`
}

func newCarView(c models.Car) carView {
	return carView{Car: c, Label: display.CarLabel(c), ReleaseText: display.Date(c.ReleaseDate)}
}

type serviceRequestView struct {
	models.ServiceRequest
	DateText string `json:"date_text"`
	Active   *bool  `json:"active,omitempty"`
}

func newServiceRequestView(r models.ServiceRequest) serviceRequestView {
	return serviceRequestView{ServiceRequest: r, DateText: display.Date(r.RequestDate)}
}

type repairView struct {
	models.Repair
	Status         string     `json:"status"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	StartText      string     `json:"start_text"`
	CompletionText string     `json:"completion_text"`
	CostText       string     `json:"cost_text"`
}

// newRepairView takes the repair's start date, which is the date of its
// service request, or nil when that is unknown.
func newRepairView(r models.Repair, start *time.Time) repairView {
	status := "active"
	if r.Completed() {
		status = "completed"
	}
	return repairView{
		Repair:         r,
		Status:         status,
		StartDate:      start,
		StartText:      display.OptionalDate(start),
		CompletionText: display.CompletionDate(r.CompletionDate),
		CostText:       billing.FormatCurrency(&r.Cost),
	}
}

type sparePartView struct {
	models.SparePart
	Total     float64 `json:"total"`
	TotalText string  `json:"total_text"`
}

func newSparePartView(p models.SparePart) sparePartView {
	total := billing.PartTotal(p)
	return sparePartView{SparePart: p, Total: total, TotalText: billing.FormatCurrency(&total)}
}

type employeeView struct {
	models.Employee
	FullName         string  `json:"full_name"`
	Compensation     float64 `json:"total_compensation"`
	CompensationText string  `json:"total_compensation_text"`
}

func newEmployeeView(e models.Employee) employeeView {
	total := billing.EmployeeTotalCompensation(e)
	return employeeView{
		Employee:         e,
		FullName:         display.EmployeeName(e),
		Compensation:     total,
		CompensationText: billing.FormatCurrency(&total),
	}
}

type completedWorkView struct {
	models.CompletedWork
	CompletionText string `json:"completion_text"`
	TotalText      string `json:"total_cost_text"`
}

func newCompletedWorkView(w models.CompletedWork) completedWorkView {
	return completedWorkView{
		CompletedWork:  w,
		CompletionText: display.Date(w.CompletionDate),
		TotalText:      billing.FormatCurrency(&w.TotalCost),
	}
}

type workloadView struct {
	EmployeeID int64 `json:"employee_id"`
	shop.Workload
	Status string `json:"status"`
}

type totalView struct {
	RepairID int64   `json:"repair_id"`
	Total    float64 `json:"total"`
	Text     string  `json:"total_text"`
}

type assignmentView struct {
	RepairID   int64  `json:"repair_id"`
	EmployeeID int64  `json:"employee_id"`
	Result     string `json:"result"`
}

func views[T, V any](recs []T, view func(T) V) []V {
	out := make([]V, 0, len(recs))
	for _, rec := range recs {
		out = append(out, view(rec))
	}
	return out
}
