package storetest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Server is an in-memory HTTP handler speaking enough of the PostgREST
// protocol for client and end-to-end tests: filtered list, insert, upsert,
// patch, and delete on named tables, with a uniqueness constraint on
// profile usernames.
type Server struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
}

// NewServer creates an empty server with tasks, task_sessions, and
// profiles tables.
func NewServer() *Server {
	return &Server{
		tables: map[string][]map[string]any{
			"tasks":         {},
			"task_sessions": {},
			"profiles":      {},
		},
	}
}

// SeedRow inserts a row directly, bypassing the HTTP surface.
func (s *Server) SeedRow(table string, row map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], row)
}

// Rows returns a copy of a table's rows.
func (s *Server) Rows(table string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]map[string]any, len(s.tables[table]))
	copy(rows, s.tables[table])
	return rows
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table, ok := strings.CutPrefix(r.URL.Path, "/rest/v1/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		writeStoreError(w, http.StatusNotFound, "42P01", "relation does not exist")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeRows(w, filterRows(rows, r.URL.Query()))
	case http.MethodPost:
		s.insert(w, r, table)
	case http.MethodPatch:
		s.patch(w, r, table)
	case http.MethodDelete:
		_, rest := splitRows(rows, r.URL.Query())
		s.tables[table] = rest
		w.WriteHeader(http.StatusNoContent)
	default:
		writeStoreError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

func (s *Server) insert(w http.ResponseWriter, r *http.Request, table string) {
	row, ok := decodeRow(w, r)
	if !ok {
		return
	}
	if v, has := row["id"]; !has || asString(v) == "" {
		row["id"] = uuid.NewString()
	}
	if _, has := row["created_at"]; !has {
		row["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	if table == "profiles" && usernameTaken(s.tables[table], row) {
		writeStoreError(w, http.StatusConflict, "23505", "duplicate key value violates unique constraint")
		return
	}

	merge := strings.Contains(r.Header.Get("Prefer"), "resolution=merge-duplicates")
	for i, existing := range s.tables[table] {
		if asString(existing["id"]) != asString(row["id"]) {
			continue
		}
		if !merge {
			writeStoreError(w, http.StatusConflict, "23505", "duplicate key value violates unique constraint")
			return
		}
		for key, value := range row {
			existing[key] = value
		}
		s.tables[table][i] = existing
		writeRows(w, []map[string]any{existing})
		return
	}

	s.tables[table] = append(s.tables[table], row)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode([]map[string]any{row})
}

func (s *Server) patch(w http.ResponseWriter, r *http.Request, table string) {
	fields, ok := decodeRow(w, r)
	if !ok {
		return
	}
	var updated []map[string]any
	for _, row := range s.tables[table] {
		if !matches(row, r.URL.Query()) {
			continue
		}
		for key, value := range fields {
			row[key] = value
		}
		updated = append(updated, row)
	}
	writeRows(w, updated)
}

func usernameTaken(rows []map[string]any, row map[string]any) bool {
	name := asString(row["username"])
	if name == "" {
		return false
	}
	for _, existing := range rows {
		if asString(existing["username"]) == name && asString(existing["id"]) != asString(row["id"]) {
			return true
		}
	}
	return false
}

func decodeRow(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var row map[string]any
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		writeStoreError(w, http.StatusBadRequest, "", "invalid request body")
		return nil, false
	}
	return row, true
}

func filterRows(rows []map[string]any, params map[string][]string) []map[string]any {
	matched, _ := splitRows(rows, params)

	if orders, ok := params["order"]; ok && len(orders) > 0 {
		terms := strings.Split(orders[0], ",")
		sort.SliceStable(matched, func(i, j int) bool {
			for _, term := range terms {
				if cmp := compareByTerm(matched[i], matched[j], term); cmp != 0 {
					return cmp < 0
				}
			}
			return false
		})
	}

	if limits, ok := params["limit"]; ok && len(limits) > 0 {
		if n, err := strconv.Atoi(limits[0]); err == nil && n >= 0 && n < len(matched) {
			matched = matched[:n]
		}
	}
	return matched
}

func splitRows(rows []map[string]any, params map[string][]string) (matched, rest []map[string]any) {
	for _, row := range rows {
		if matches(row, params) {
			matched = append(matched, row)
		} else {
			rest = append(rest, row)
		}
	}
	return matched, rest
}

func matches(row map[string]any, params map[string][]string) bool {
	for column, values := range params {
		if column == "order" || column == "limit" || column == "select" {
			continue
		}
		for _, value := range values {
			op, operand, ok := strings.Cut(value, ".")
			if !ok {
				return false
			}
			if !matchCond(row[column], op, operand) {
				return false
			}
		}
	}
	return true
}

func matchCond(field any, op, operand string) bool {
	if op == "is" && operand == "null" {
		return field == nil
	}
	if field == nil {
		return false
	}
	switch op {
	case "eq":
		return asString(field) == operand
	case "gt":
		return compareValues(field, operand) > 0
	case "gte":
		return compareValues(field, operand) >= 0
	case "lte":
		return compareValues(field, operand) <= 0
	default:
		return false
	}
}

// compareValues compares numerically when both sides parse as numbers,
// lexically otherwise. Lexical comparison is correct for the ISO dates and
// RFC 3339 timestamps the store holds.
func compareValues(field any, operand string) int {
	left := asString(field)
	lf, lerr := strconv.ParseFloat(left, 64)
	rf, rerr := strconv.ParseFloat(operand, 64)
	if lerr == nil && rerr == nil {
		switch {
		case lf < rf:
			return -1
		case lf > rf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(left, operand)
}

func compareByTerm(a, b map[string]any, term string) int {
	parts := strings.Split(term, ".")
	column := parts[0]
	desc := len(parts) > 1 && parts[1] == "desc"
	nullsFirst := strings.Contains(term, "nullsfirst")

	av, bv := a[column], b[column]
	if av == nil || bv == nil {
		if av == nil && bv == nil {
			return 0
		}
		aNil := av == nil
		if nullsFirst == aNil {
			return -1
		}
		return 1
	}

	cmp := compareValues(av, asString(bv))
	if desc {
		cmp = -cmp
	}
	return cmp
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		data, _ := json.Marshal(v)
		return string(data)
	}
}

func writeRows(w http.ResponseWriter, rows []map[string]any) {
	if rows == nil {
		rows = []map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func writeStoreError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
