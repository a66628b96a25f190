package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/shop"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
	maxBodyBytes    = 1 << 20
)

// errorBody is the only shape errors leave the API in.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorBody{Error: kind, Message: message})
}

// fail maps a shop error to a status and a generic message. The detail is
// only logged.
func fail(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	var (
		status  int
		kind    string
		message string
	)
	switch {
	case errors.Is(err, shop.ErrValidation):
		status, kind, message = http.StatusBadRequest, "validation", "The request violates a business rule"
	case errors.Is(err, shop.ErrNotFound):
		status, kind, message = http.StatusNotFound, "not_found", "Record not found"
	case errors.Is(err, shop.ErrAlreadyCompleted):
		status, kind, message = http.StatusConflict, "already_completed", "Repair is already completed"
	case errors.Is(err, shop.ErrConflict):
		status, kind, message = http.StatusConflict, "conflict", "The record was changed concurrently, retry the request"
	default:
		status, kind, message = http.StatusInternalServerError, "internal", "Internal server error"
	}

	entry := log.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path})
	if status == http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
	writeError(w, status, kind, message)
}

// requestReader decodes, validates and sanitizes request bodies.
type requestReader struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
}

func newRequestReader() *requestReader {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names in validation messages.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestReader{validate: v, policy: bluemonday.StrictPolicy()}
}

// decode reads a JSON body into dst and validates it. On failure it writes a
// 400 response and returns false.
func (rr *requestReader) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "Invalid JSON")
		return false
	}
	if err := rr.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation", describe(err))
		return false
	}
	return true
}

// clean strips markup from free text. The policy escapes what it keeps, so
// the text is unescaped again: records hold plain text and clients escape on
// render.
func (rr *requestReader) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(rr.policy.Sanitize(s)))
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid input"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// pathID parses a positive id path value. On failure it writes a 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "validation", "Invalid "+name)
		return 0, false
	}
	return id, true
}

// listQuery builds a query from limit, offset and the listed id filters.
func listQuery(w http.ResponseWriter, r *http.Request, idFilters ...string) (db.Query, bool) {
	params := r.URL.Query()
	q := db.Query{Limit: defaultPageSize}

	for _, name := range idFilters {
		raw := params.Get(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "validation", "Invalid "+name)
			return q, false
		}
		q.Where = append(q.Where, db.Eq(name, id))
	}

	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > maxPageSize {
			writeError(w, http.StatusBadRequest, "validation", fmt.Sprintf("limit must be between 1 and %d", maxPageSize))
			return q, false
		}
		q.Limit = n
	}
	if raw := params.Get("offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "validation", "offset must not be negative")
			return q, false
		}
		q.Offset = n
	}
	return q, true
}
