// Package web serves the server-rendered pages: the year progress view at /
// and public profiles at /u/{username}.
package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/annumhq/annum/internal/auth"
	"github.com/annumhq/annum/internal/postgrest"
	"github.com/annumhq/annum/internal/ui"
	"github.com/annumhq/annum/profile"
	"github.com/annumhq/annum/progress"
	"github.com/annumhq/annum/task"
)

// Options configures the web handler.
type Options struct {
	// API is the record store client used for reads.
	API *postgrest.Client

	// Session is the local auth session, or nil when signed out. When
	// valid, the year page includes today's task log.
	Session *auth.Session

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Handler serves the web pages.
type Handler struct {
	mux       *http.ServeMux
	templates *templateWrapper
	profiles  *profile.Store
	tasks     *task.Store
	session   *auth.Session
	now       func() time.Time
}

// NewHandler creates a handler over the record store.
func NewHandler(opts Options) *Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	handler := &Handler{
		templates: newTemplateWrapper(),
		profiles:  profile.NewStore(opts.API),
		tasks:     task.NewStore(opts.API),
		session:   opts.Session,
		now:       now,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.handleYear)
	mux.HandleFunc("/u/", handler.handleProfile)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type dayCell struct {
	Date   string
	Level  int
	Passed bool
	Today  bool
}

type logRow struct {
	Title    string
	Status   string
	Duration string
	Done     bool
}

type summaryView struct {
	Label      string
	Total      string
	ActiveDays int
	Cells      []dayCell
}

type pageData struct {
	Page      string
	Stats     progress.Stats
	YearCells []dayCell
	Log       []logRow
	LogError  string
	Username  string
	Summaries []summaryView
	NotFound  bool
	LoadError string
}

func (h *Handler) handleYear(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	now := h.now()
	stats := progress.StatsAt(now)
	data := pageData{
		Page:      "year",
		Stats:     stats,
		YearCells: yearCells(stats),
	}

	if h.session.Valid() {
		rows, err := h.todayLog(r.Context(), now)
		if err != nil {
			data.LogError = err.Error()
		} else {
			data.Log = rows
		}
	}

	h.templates.Render(w, data)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	username := strings.Trim(strings.TrimPrefix(r.URL.Path, "/u/"), "/")
	if username == "" || strings.Contains(username, "/") {
		http.NotFound(w, r)
		return
	}

	data := pageData{Page: "profile", Username: username}

	found, err := h.profiles.ByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			data.NotFound = true
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
		} else {
			data.LoadError = err.Error()
		}
		h.templates.Render(w, data)
		return
	}
	data.Username = found.Username

	now := h.now()
	month, err := h.summary(r.Context(), found.ID, "Last 30 days", now, 30)
	if err != nil {
		data.LoadError = err.Error()
		h.templates.Render(w, data)
		return
	}
	year, err := h.yearSummary(r.Context(), found.ID, now)
	if err != nil {
		data.LoadError = err.Error()
		h.templates.Render(w, data)
		return
	}
	data.Summaries = []summaryView{month, year}
	h.templates.Render(w, data)
}

func (h *Handler) todayLog(ctx context.Context, now time.Time) ([]logRow, error) {
	tasks, err := h.tasks.DailyLog(ctx, h.session.UserID, now.Format(task.DateLayout))
	if err != nil {
		return nil, err
	}
	rows := make([]logRow, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, logRow{
			Title:    t.Title,
			Status:   string(t.Status),
			Duration: ui.FormatHuman(t.DurationMS),
			Done:     t.Status == task.StatusCompleted,
		})
	}
	return rows, nil
}

func (h *Handler) summary(ctx context.Context, userID, label string, now time.Time, days int) (summaryView, error) {
	from, to := profile.LastNDays(now, days)
	return h.rangeSummary(ctx, userID, label, from, to)
}

func (h *Handler) yearSummary(ctx context.Context, userID string, now time.Time) (summaryView, error) {
	from, to := profile.YearDays(now)
	return h.rangeSummary(ctx, userID, now.Format("2006"), from, to)
}

func (h *Handler) rangeSummary(ctx context.Context, userID, label, from, to string) (summaryView, error) {
	tasks, err := h.profiles.Activity(ctx, userID, from, to)
	if err != nil {
		return summaryView{}, err
	}
	summary := profile.Aggregate(tasks)
	return summaryView{
		Label:      label,
		Total:      ui.FormatHuman(summary.TotalMS),
		ActiveDays: summary.ActiveDays,
		Cells:      activityCells(summary, from, to),
	}, nil
}

// yearCells builds one cell per day of the current year, marking elapsed
// days and today.
func yearCells(stats progress.Stats) []dayCell {
	cells := make([]dayCell, 0, stats.TotalDays)
	for day := 1; day <= stats.TotalDays; day++ {
		cells = append(cells, dayCell{
			Passed: day < stats.DaysPassed,
			Today:  day == stats.DaysPassed,
		})
	}
	return cells
}

// activityCells builds one cell per day of the inclusive date range, leveled
// by logged activity.
func activityCells(summary profile.Summary, from, to string) []dayCell {
	levels := make(map[string]int, len(summary.Days))
	for _, day := range summary.Days {
		levels[day.Date] = day.Level
	}

	start, err := time.Parse(task.DateLayout, from)
	if err != nil {
		return nil
	}
	end, err := time.Parse(task.DateLayout, to)
	if err != nil {
		return nil
	}

	var cells []dayCell
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(task.DateLayout)
		cells = append(cells, dayCell{
			Date:   date,
			Level:  levels[date],
			Passed: true,
			Today:  date == to,
		})
	}
	return cells
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
