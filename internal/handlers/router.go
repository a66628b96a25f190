package handlers

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/auth"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/metrics"
	"github.com/ukydev/autoservice/internal/middleware"
	"github.com/ukydev/autoservice/internal/models"
	"github.com/ukydev/autoservice/internal/shop"
)

// RouterConfig lists what the API needs.
type RouterConfig struct {
	Shop              *shop.Shop
	Auth              *auth.Service
	Users             db.UserCollection
	Metrics           *metrics.Metrics
	Log               logrus.FieldLogger
	RetentionDays     int
	RateLimitRequests int
	RateLimitWindow   time.Duration
	TrustedProxies    []netip.Prefix
}

// NewRouter builds the HTTP API. Every /api route except login needs a
// bearer token; record routes also check the role permission.
func NewRouter(cfg RouterConfig) http.Handler {
	authMw := middleware.NewAuthMiddleware(cfg.Auth)
	records := NewRecordsHandler(cfg.Shop, cfg.Log, cfg.RetentionDays)
	users := NewAuthHandler(cfg.Auth, cfg.Users, cfg.Log)

	mux := http.NewServeMux()
	signedIn := func(h http.HandlerFunc) http.Handler {
		return authMw.Authenticate(h)
	}
	can := func(action string, h http.HandlerFunc) http.Handler {
		return authMw.Authenticate(authMw.RequirePermission(action)(h))
	}
	const (
		view     = models.ActionViewRecords
		create   = models.ActionCreateRecords
		update   = models.ActionUpdateRecords
		remove   = models.ActionDeleteRecords
		complete = models.ActionCompleteRepairs
		assign   = models.ActionAssignEmployees
		purge    = models.ActionPurgeHistory
	)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	mux.HandleFunc("POST /api/auth/login", users.Login)
	mux.Handle("POST /api/auth/register", can(models.ActionManageUsers, users.Register))
	mux.Handle("GET /api/auth/profile", signedIn(users.GetProfile))
	mux.Handle("PUT /api/auth/profile", signedIn(users.UpdateProfile))
	mux.Handle("POST /api/auth/change-password", signedIn(users.ChangePassword))

	mux.Handle("GET /api/owners", can(view, records.ListOwners))
	mux.Handle("POST /api/owners", can(create, records.CreateOwner))
	mux.Handle("GET /api/owners/{id}", can(view, records.GetOwner))
	mux.Handle("PUT /api/owners/{id}", can(update, records.UpdateOwner))
	mux.Handle("DELETE /api/owners/{id}", can(remove, records.DeleteOwner))

	mux.Handle("GET /api/cars", can(view, records.ListCars))
	mux.Handle("POST /api/cars", can(create, records.CreateCar))
	mux.Handle("GET /api/cars/{id}", can(view, records.GetCar))
	mux.Handle("PUT /api/cars/{id}", can(update, records.UpdateCar))
	mux.Handle("DELETE /api/cars/{id}", can(remove, records.DeleteCar))

	mux.Handle("GET /api/requests", can(view, records.ListServiceRequests))
	mux.Handle("POST /api/requests", can(create, records.CreateServiceRequest))
	mux.Handle("GET /api/requests/{id}", can(view, records.GetServiceRequest))
	mux.Handle("PUT /api/requests/{id}", can(update, records.UpdateServiceRequest))
	mux.Handle("DELETE /api/requests/{id}", can(remove, records.DeleteServiceRequest))

	mux.Handle("GET /api/repairs", can(view, records.ListRepairs))
	mux.Handle("POST /api/repairs", can(create, records.CreateRepair))
	mux.Handle("GET /api/repairs/{id}", can(view, records.GetRepair))
	mux.Handle("PUT /api/repairs/{id}", can(update, records.UpdateRepair))
	mux.Handle("DELETE /api/repairs/{id}", can(remove, records.DeleteRepair))
	mux.Handle("POST /api/repairs/{id}/complete", can(complete, records.CompleteRepair))
	mux.Handle("GET /api/repairs/{id}/total", can(view, records.RepairTotal))
	mux.Handle("GET /api/repairs/{id}/employees", can(view, records.RepairEmployees))
	mux.Handle("PUT /api/repairs/{id}/employees/{employeeID}", can(assign, records.AssignEmployee))
	mux.Handle("DELETE /api/repairs/{id}/employees/{employeeID}", can(assign, records.UnassignEmployee))

	mux.Handle("GET /api/spares", can(view, records.ListSpareParts))
	mux.Handle("POST /api/spares", can(create, records.CreateSparePart))
	mux.Handle("GET /api/spares/{id}", can(view, records.GetSparePart))
	mux.Handle("PUT /api/spares/{id}", can(update, records.UpdateSparePart))
	mux.Handle("DELETE /api/spares/{id}", can(remove, records.DeleteSparePart))

	mux.Handle("GET /api/employees", can(view, records.ListEmployees))
	mux.Handle("POST /api/employees", can(create, records.CreateEmployee))
	mux.Handle("GET /api/employees/{id}", can(view, records.GetEmployee))
	mux.Handle("PUT /api/employees/{id}", can(update, records.UpdateEmployee))
	mux.Handle("DELETE /api/employees/{id}", can(remove, records.DeleteEmployee))
	mux.Handle("GET /api/employees/{id}/workload", can(view, records.EmployeeWorkload))
	mux.Handle("GET /api/employees/{id}/repairs", can(view, records.EmployeeRepairs))

	mux.Handle("GET /api/completed-works", can(view, records.ListCompletedWorks))
	mux.Handle("DELETE /api/completed-works", can(purge, records.PurgeCompletedWorks))
	mux.Handle("GET /api/completed-works/{id}", can(view, records.GetCompletedWork))
	mux.Handle("DELETE /api/completed-works/{id}", can(remove, records.DeleteCompletedWork))

	limiter := middleware.NewRateLimitMiddleware(cfg.TrustedProxies...)
	return middleware.Observe(cfg.Log, cfg.Metrics)(
		limiter.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)(mux),
	)
}
