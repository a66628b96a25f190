package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/auth"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/handlers"
	"github.com/ukydev/autoservice/internal/models"
	"github.com/ukydev/autoservice/internal/shop"
)

var platePattern = regexp.MustCompile(`^[АВЕКМНОРСТУХ]\d{3}[АВЕКМНОРСТУХ]{2}\d{2,3}$`)

func TestGenerator_UniquePhonesAndPlates(t *testing.T) {
	g := newGenerator(42)
	phones := make(map[string]bool)
	plates := make(map[string]bool)
	for i := 0; i < 500; i++ {
		p := g.phone()
		if phones[p] {
			t.Fatalf("phone %s generated twice", p)
		}
		phones[p] = true
		if !strings.HasPrefix(p, "+79") || len(p) != 12 {
			t.Errorf("unexpected phone format: %s", p)
		}

		plate := g.plate()
		if plates[plate] {
			t.Fatalf("plate %s generated twice", plate)
		}
		plates[plate] = true
		if !platePattern.MatchString(plate) {
			t.Errorf("unexpected plate format: %s", plate)
		}
	}
}

func TestGenerator_Records(t *testing.T) {
	g := newGenerator(7)

	car := g.car(3)
	if car.OwnerID != 3 {
		t.Errorf("expected owner 3, got %d", car.OwnerID)
	}
	if _, err := time.Parse(dateLayout, car.ReleaseDate); err != nil {
		t.Errorf("bad release date %q: %v", car.ReleaseDate, err)
	}

	part := g.part(9)
	if part.RepairID != 9 || part.Quantity < 1 || part.Cost <= 0 {
		t.Errorf("unexpected part: %+v", part)
	}

	e := g.employee()
	if e.Salary < 40000 || e.Salary >= 100000 {
		t.Errorf("salary out of range: %f", e.Salary)
	}
	if e.Bonus != nil && *e.Bonus <= 0 {
		t.Errorf("bonus must be positive, got %f", *e.Bonus)
	}
	if e.LastName == "" || e.FirstName == "" || e.Position == "" {
		t.Errorf("missing required employee fields: %+v", e)
	}
}

func TestAPIClient_SendsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer seed-token" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]int64{"id": 17})
	}))
	defer server.Close()

	c := newAPIClient(server.URL, "seed-token")
	id, err := c.create("/owners", Owner{LastName: "Иванов", FirstName: "Иван", Phone: "+79990000001"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id != 17 {
		t.Errorf("expected id 17, got %d", id)
	}
}

func TestAPIClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"validation","message":"phone: required"}`))
	}))
	defer server.Close()

	c := newAPIClient(server.URL, "")
	_, err := c.create("/owners", Owner{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "status 400") || !strings.Contains(err.Error(), "phone: required") {
		t.Errorf("unexpected error: %v", err)
	}
	if err := c.call(http.MethodPost, "/repairs/1/complete"); err == nil {
		t.Error("expected an error from call")
	}
}

func TestSeed_AgainstAPI(t *testing.T) {
	store := db.NewMemoryStore()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	authService, err := auth.NewService("seed-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	users := &db.StoreUserCollection{Store: store}
	admin, err := users.InsertUser(context.Background(), models.User{Username: "admin", Email: "admin@autoservice.ru", Role: models.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	token, err := authService.GenerateToken(&admin)
	if err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(handlers.NewRouter(handlers.RouterConfig{
		Shop:              shop.New(store, shop.WithLogger(logger)),
		Auth:              authService,
		Users:             users,
		Log:               logger,
		RetentionDays:     shop.DefaultRetentionDays,
		RateLimitRequests: 100000,
		RateLimitWindow:   time.Minute,
	}))
	defer server.Close()

	s := &seeder{api: newAPIClient(server.URL+"/api", token), gen: newGenerator(1)}
	sum, err := s.seed(6)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if sum.Owners != 6 || sum.Cars != 6 || sum.Requests != 6 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if sum.Employees != 4 {
		t.Errorf("expected 4 employees, got %d", sum.Employees)
	}
	if sum.Repairs < 6 || sum.Repairs > 12 || sum.Assignments != sum.Repairs {
		t.Errorf("unexpected repair counts: %+v", sum)
	}

	err = store.View(context.Background(), func(ctx context.Context, tx db.Tx) error {
		checks := []struct {
			name string
			got  func() (int64, error)
			want int
		}{
			{"owners", func() (int64, error) { return tx.Owners().Count(ctx) }, sum.Owners},
			{"repairs", func() (int64, error) { return tx.Repairs().Count(ctx) }, sum.Repairs},
			{"parts", func() (int64, error) { return tx.Parts().Count(ctx) }, sum.Parts},
			{"assignments", func() (int64, error) { return tx.Assignments().Count(ctx) }, sum.Assignments},
			{"completed works", func() (int64, error) { return tx.CompletedWorks().Count(ctx) }, sum.Completed},
			{"completed repairs", func() (int64, error) { return tx.Repairs().Count(ctx, db.NotNull("completion_date")) }, sum.Completed},
		}
		for _, c := range checks {
			n, err := c.got()
			if err != nil {
				return err
			}
			if n != int64(c.want) {
				t.Errorf("%s: expected %d, got %d", c.name, c.want, n)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
