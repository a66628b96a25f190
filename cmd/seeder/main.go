// Command seeder fills a running autoservice API with demo records: owners
// and their cars, service requests, repairs with parts, and mechanics
// assigned to them. About half of the repairs are completed.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Owner is the create payload of /owners.
type Owner struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	Phone      string `json:"phone"`
}

// Car is the create payload of /cars.
type Car struct {
	Number      string `json:"number"`
	Brand       string `json:"brand"`
	ReleaseDate string `json:"release_date"`
	OwnerID     int64  `json:"owner_id"`
}

// ServiceRequest is the create payload of /requests.
type ServiceRequest struct {
	CarID       int64  `json:"car_id"`
	RequestDate string `json:"request_date,omitempty"`
	Issues      string `json:"issues"`
}

// Repair is the create payload of /repairs.
type Repair struct {
	RequestID   int64   `json:"request_id"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// SparePart is the create payload of /spares.
type SparePart struct {
	RepairID int64   `json:"repair_id"`
	Name     string  `json:"name"`
	Number   string  `json:"number"`
	Cost     float64 `json:"cost"`
	Quantity int     `json:"quantity"`
}

// Employee is the create payload of /employees.
type Employee struct {
	LastName   string   `json:"last_name"`
	FirstName  string   `json:"first_name"`
	MiddleName string   `json:"middle_name,omitempty"`
	BirthDate  string   `json:"birth_date"`
	Address    string   `json:"address,omitempty"`
	Phone      string   `json:"phone"`
	Position   string   `json:"position"`
	Salary     float64  `json:"salary"`
	Experience int      `json:"experience"`
	Schedule   string   `json:"schedule,omitempty"`
	Bonus      *float64 `json:"bonus,omitempty"`
}

var (
	lastNames   = []string{"Иванов", "Петров", "Сидоров", "Смирнов", "Кузнецов", "Попов", "Волков", "Соколов", "Лебедев", "Козлов"}
	firstNames  = []string{"Иван", "Пётр", "Алексей", "Сергей", "Дмитрий", "Андрей", "Михаил", "Николай", "Олег", "Павел"}
	middleNames = []string{"Иванович", "Петрович", "Сергеевич", "Андреевич", "Михайлович", ""}
	brands      = []string{"Lada Vesta", "Lada Granta", "Kia Rio", "Hyundai Solaris", "Toyota Camry", "Renault Logan", "Skoda Octavia", "Volkswagen Polo"}
	issues      = []string{"Стук в подвеске", "Не заводится", "Скрип тормозов", "Горит Check Engine", "Течь масла", "Плановое ТО"}
	works       = []struct {
		description string
		cost        float64
	}{
		{"Замена тормозных колодок", 1500},
		{"Замена масла и фильтров", 800},
		{"Диагностика двигателя", 1200},
		{"Замена амортизаторов", 3500},
		{"Замена ремня ГРМ", 4500},
		{"Развал-схождение", 1000},
	}
	parts = []struct {
		name, prefix string
		cost         float64
	}{
		{"Колодки тормозные", "BP", 2200},
		{"Фильтр масляный", "OF", 450},
		{"Масло моторное 4л", "MO", 3100},
		{"Амортизатор", "SA", 5400},
		{"Ремень ГРМ", "TB", 2800},
		{"Свеча зажигания", "SP", 350},
	}
	positions = []string{"Механик", "Автоэлектрик", "Моторист", "Мастер-приёмщик"}
	schedules = []string{"5/2", "2/2"}
)

// plateLetters are the Cyrillic letters allowed on Russian plates.
var plateLetters = []rune("АВЕКМНОРСТУХ")

const dateLayout = "2006-01-02"

// generator produces random records. Phones and plates never repeat.
type generator struct {
	rnd    *rand.Rand
	phones map[string]bool
	plates map[string]bool
}

func newGenerator(seed int64) *generator {
	return &generator{
		rnd:    rand.New(rand.NewSource(seed)),
		phones: make(map[string]bool),
		plates: make(map[string]bool),
	}
}

func (g *generator) pick(list []string) string {
	return list[g.rnd.Intn(len(list))]
}

func (g *generator) phone() string {
	for {
		p := fmt.Sprintf("+79%09d", g.rnd.Intn(1_000_000_000))
		if !g.phones[p] {
			g.phones[p] = true
			return p
		}
	}
}

func (g *generator) plate() string {
	letter := func() string { return string(plateLetters[g.rnd.Intn(len(plateLetters))]) }
	for {
		p := fmt.Sprintf("%s%03d%s%s%d", letter(), 1+g.rnd.Intn(999), letter(), letter(), []int{77, 97, 99, 177, 197, 50, 750}[g.rnd.Intn(7)])
		if !g.plates[p] {
			g.plates[p] = true
			return p
		}
	}
}

func (g *generator) owner() Owner {
	return Owner{
		LastName:   g.pick(lastNames),
		FirstName:  g.pick(firstNames),
		MiddleName: g.pick(middleNames),
		Phone:      g.phone(),
	}
}

func (g *generator) car(ownerID int64) Car {
	year := 2005 + g.rnd.Intn(20)
	released := time.Date(year, time.Month(1+g.rnd.Intn(12)), 1+g.rnd.Intn(28), 0, 0, 0, 0, time.UTC)
	return Car{
		Number:      g.plate(),
		Brand:       g.pick(brands),
		ReleaseDate: released.Format(dateLayout),
		OwnerID:     ownerID,
	}
}

func (g *generator) request(carID int64) ServiceRequest {
	requested := time.Now().AddDate(0, 0, -g.rnd.Intn(30))
	return ServiceRequest{CarID: carID, RequestDate: requested.Format(dateLayout), Issues: g.pick(issues)}
}

func (g *generator) repair(requestID int64) Repair {
	w := works[g.rnd.Intn(len(works))]
	return Repair{RequestID: requestID, Description: w.description, Cost: w.cost}
}

func (g *generator) part(repairID int64) SparePart {
	p := parts[g.rnd.Intn(len(parts))]
	return SparePart{
		RepairID: repairID,
		Name:     p.name,
		Number:   fmt.Sprintf("%s-%05d", p.prefix, g.rnd.Intn(100000)),
		Cost:     p.cost,
		Quantity: 1 + g.rnd.Intn(4),
	}
}

func (g *generator) employee() Employee {
	born := time.Date(1965+g.rnd.Intn(35), time.Month(1+g.rnd.Intn(12)), 1+g.rnd.Intn(28), 0, 0, 0, 0, time.UTC)
	e := Employee{
		LastName:   g.pick(lastNames),
		FirstName:  g.pick(firstNames),
		MiddleName: g.pick(middleNames),
		BirthDate:  born.Format(dateLayout),
		Address:    fmt.Sprintf("г. Москва, ул. Ленина, д. %d", 1+g.rnd.Intn(120)),
		Phone:      g.phone(),
		Position:   g.pick(positions),
		Salary:     float64(40+g.rnd.Intn(60)) * 1000,
		Experience: g.rnd.Intn(25),
		Schedule:   g.pick(schedules),
	}
	if g.rnd.Intn(2) == 0 {
		bonus := float64(1+g.rnd.Intn(20)) * 500
		e.Bonus = &bonus
	}
	return e
}

// apiClient talks to the records API with an optional bearer token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *apiClient) authorizedRequest(method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", path, err)
		}
		body = bytes.NewBuffer(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

// create posts payload and returns the id of the created record.
func (c *apiClient) create(path string, payload any) (int64, error) {
	resp, err := c.authorizedRequest(http.MethodPost, path, payload)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("%s creation failed with status %d: %s", path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	var result struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.ID == 0 {
		return 0, fmt.Errorf("invalid %s id in response", path)
	}
	return result.ID, nil
}

// call sends a bodiless request and expects 200.
func (c *apiClient) call(method, path string) error {
	resp, err := c.authorizedRequest(method, path, nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s failed with status %d", method, path, resp.StatusCode)
	}
	return nil
}

// summary counts what a seeding run created.
type summary struct {
	Owners      int
	Cars        int
	Requests    int
	Repairs     int
	Parts       int
	Employees   int
	Assignments int
	Completed   int
}

type seeder struct {
	api *apiClient
	gen *generator
}

// seed creates count owners, each with one car and one service request.
func (s *seeder) seed(count int) (summary, error) {
	var sum summary

	staff := make([]int64, 0, count/3+2)
	for i := 0; i < count/3+2; i++ {
		id, err := s.api.create("/employees", s.gen.employee())
		if err != nil {
			return sum, err
		}
		staff = append(staff, id)
		sum.Employees++
	}

	for i := 0; i < count; i++ {
		ownerID, err := s.api.create("/owners", s.gen.owner())
		if err != nil {
			return sum, err
		}
		sum.Owners++

		carID, err := s.api.create("/cars", s.gen.car(ownerID))
		if err != nil {
			return sum, err
		}
		sum.Cars++

		requestID, err := s.api.create("/requests", s.gen.request(carID))
		if err != nil {
			return sum, err
		}
		sum.Requests++

		repairs := 1 + s.gen.rnd.Intn(2)
		for r := 0; r < repairs; r++ {
			if err := s.seedRepair(requestID, staff, &sum); err != nil {
				return sum, err
			}
		}

		log.WithFields(log.Fields{"owner_id": ownerID, "car_id": carID, "request_id": requestID}).Debug("Seeded owner")
	}
	return sum, nil
}

func (s *seeder) seedRepair(requestID int64, staff []int64, sum *summary) error {
	repairID, err := s.api.create("/repairs", s.gen.repair(requestID))
	if err != nil {
		return err
	}
	sum.Repairs++

	n := s.gen.rnd.Intn(3)
	for p := 0; p < n; p++ {
		if _, err := s.api.create("/spares", s.gen.part(repairID)); err != nil {
			return err
		}
		sum.Parts++
	}

	employeeID := staff[s.gen.rnd.Intn(len(staff))]
	if err := s.api.call(http.MethodPut, fmt.Sprintf("/repairs/%d/employees/%d", repairID, employeeID)); err != nil {
		return err
	}
	sum.Assignments++

	if s.gen.rnd.Intn(2) == 0 {
		if err := s.api.call(http.MethodPost, fmt.Sprintf("/repairs/%d/complete", repairID)); err != nil {
			return err
		}
		sum.Completed++
	}
	return nil
}

func main() {
	count := 10
	if val := os.Getenv("SEED_COUNT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			count = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	log.WithFields(log.Fields{"count": count, "api_url": apiURL}).Info("Seeding shop records")

	s := &seeder{
		api: newAPIClient(apiURL, os.Getenv("SEED_AUTH_TOKEN")),
		gen: newGenerator(time.Now().UnixNano()),
	}
	sum, err := s.seed(count)
	fields := log.Fields{
		"owners":      sum.Owners,
		"repairs":     sum.Repairs,
		"parts":       sum.Parts,
		"employees":   sum.Employees,
		"assignments": sum.Assignments,
		"completed":   sum.Completed,
	}
	if err != nil {
		log.WithError(err).WithFields(fields).Error("Seeding stopped. Ensure SEED_AUTH_TOKEN is valid and the API is reachable.")
		os.Exit(1)
	}
	log.WithFields(fields).Info("Seeding completed")
}
