package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"wildtrack/internal/config"
	"wildtrack/internal/ical"
	appLog "wildtrack/internal/log"
	"wildtrack/internal/model"
	"wildtrack/internal/schedule"
)

// Server exposes the tracker state over HTTP: the current/upcoming view with
// a countdown, a multi-day projection, the iCalendar export, and read/write
// access to notification preferences.
//
// The refresh loop pushes rotation snapshots in via SetRotation; handlers
// only read the latest good snapshot, so a failed refresh never clears what
// is being served.
type Server struct {
	cfg        *config.Config
	configPath string
	mux        *http.ServeMux

	// onPrefsChange is invoked after a preference update has been
	// persisted, so the owner can replan notifications.
	onPrefsChange func(model.Preferences)

	mu        sync.RWMutex
	raw       []model.RawEvent
	sched     model.Schedule
	updatedAt time.Time
	loc       *time.Location
}

// NewServer constructs a Server. configPath is where preference updates are
// persisted; onPrefsChange may be nil.
func NewServer(cfg *config.Config, configPath string, onPrefsChange func(model.Preferences)) *Server {
	s := &Server{
		cfg:           cfg,
		configPath:    configPath,
		onPrefsChange: onPrefsChange,
		mux:           http.NewServeMux(),
		loc:           resolveLocationOrLocal(cfg.Timezone),
	}
	s.registerRoutes()
	return s
}

// SetRotation replaces the served snapshot. Called by the refresh loop after
// every successful fetch/build cycle.
func (s *Server) SetRotation(raw []model.RawEvent, sched model.Schedule, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
	s.sched = sched
	s.updatedAt = at
}

// Handler returns the underlying http.Handler, wrapped with basic auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Treat empty username or password as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="wildtrack", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/schedule", s.handleSchedule)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/prefs", s.handlePrefs)
	s.mux.HandleFunc("/calendar.ics", s.handleCalendar)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// occurrenceDTO is a JSON-friendly view of an occurrence.
type occurrenceDTO struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	TimeOfDay   string    `json:"time_of_day"`
	Instant     time.Time `json:"instant"`
	Special     bool      `json:"special"`
}

func toDTO(occ model.Occurrence) occurrenceDTO {
	return occurrenceDTO{
		Name:        occ.Name,
		DisplayName: schedule.DisplayName(occ.Name),
		TimeOfDay:   occ.TimeOfDay,
		Instant:     occ.Instant,
		Special:     schedule.IsSpecial(occ.Name),
	}
}

// scheduleResponse is the JSON response shape for /api/schedule.
type scheduleResponse struct {
	Current     *occurrenceDTO  `json:"current"`
	Upcoming    []occurrenceDTO `json:"upcoming"`
	Countdown   string          `json:"countdown"`
	SpecialOnly bool            `json:"special_only"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// handleSchedule returns the current/upcoming partition and a countdown.
//
// GET /api/schedule?special=1
//
// The unfiltered view counts down to the active occurrence; the special-only
// view counts down to the next special occurrence, since specials do not run
// every rotation slot.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	specialOnly := r.URL.Query().Get("special") == "1"

	s.mu.RLock()
	sched := s.sched
	updatedAt := s.updatedAt
	s.mu.RUnlock()

	now := time.Now().In(s.loc)
	sel := schedule.Select(sched, now)

	resp := scheduleResponse{
		Upcoming:    make([]occurrenceDTO, 0, len(sel.Upcoming)),
		Countdown:   "",
		SpecialOnly: specialOnly,
		UpdatedAt:   updatedAt,
	}

	// The special-only view swaps both the current occurrence and the
	// upcoming list to specials; the countdown always refers to Current.
	target := sel.Current
	upcoming := sel.Upcoming
	if specialOnly {
		target = schedule.SelectSpecial(sched, now)
		filtered := make([]model.Occurrence, 0, len(upcoming))
		for _, occ := range upcoming {
			if !schedule.IsSpecial(occ.Name) {
				continue
			}
			if target != nil && occ == *target {
				continue
			}
			filtered = append(filtered, occ)
		}
		upcoming = filtered
	}

	if target != nil {
		dto := toDTO(*target)
		resp.Current = &dto
		resp.Countdown = schedule.Countdown(target.Instant, now)
	}
	for _, occ := range upcoming {
		resp.Upcoming = append(resp.Upcoming, toDTO(occ))
	}

	writeJSON(w, http.StatusOK, resp)
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Occurrences []occurrenceDTO `json:"occurrences"`
	Days        int             `json:"days"`
	Timezone    string          `json:"timezone"`
}

// maxHorizonDays caps the per-request projection horizon; every projected
// day costs one rrule instance per rotation entry.
const maxHorizonDays = 31

// handleEvents returns the rotation projected over a requested horizon.
//
// GET /api/events?days=7
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	days := parseIntDefault(r.URL.Query().Get("days"), s.cfg.HorizonDays)
	if days <= 0 {
		days = s.cfg.HorizonDays
	}
	if days > maxHorizonDays {
		days = maxHorizonDays
	}

	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()

	now := time.Now().In(s.loc)
	projected := schedule.Project(raw, now, days)

	dtos := make([]occurrenceDTO, 0, len(projected))
	for _, occ := range projected {
		dtos = append(dtos, toDTO(occ))
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Occurrences: dtos,
		Days:        days,
		Timezone:    s.loc.String(),
	})
}

// handleCalendar serves the projected rotation as an iCalendar feed.
func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()

	now := time.Now().In(s.loc)
	projected := schedule.Project(raw, now, s.cfg.HorizonDays)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ical.Export(projected)))
}

// handlePrefs reads or updates notification preferences. Updates persist to
// the config file and trigger a replan through onPrefsChange.
//
// GET /api/prefs
// PUT /api/prefs {"notify_minutes_before": 15, "notify_class_filter": "special"}
func (s *Server) handlePrefs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		prefs := s.cfg.Notify
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, prefs)

	case http.MethodPut, http.MethodPost:
		var prefs model.Preferences
		if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid preferences payload")
			return
		}
		if !prefs.NotifyClassFilter.Valid() {
			writeError(w, http.StatusBadRequest, "notify_class_filter must be all, special or none")
			return
		}
		if prefs.NotifyMinutesBefore <= 0 {
			writeError(w, http.StatusBadRequest, "notify_minutes_before must be positive")
			return
		}

		s.mu.Lock()
		s.cfg.Notify = prefs
		s.mu.Unlock()

		if s.configPath != "" {
			if err := s.cfg.Save(s.configPath); err != nil {
				appLog.Error("prefs: persisting config failed", err, "path", s.configPath)
			}
		}
		if s.onPrefsChange != nil {
			s.onPrefsChange(prefs)
		}

		appLog.Info("prefs updated",
			"minutes_before", prefs.NotifyMinutesBefore,
			"class_filter", string(prefs.NotifyClassFilter),
		)
		writeJSON(w, http.StatusOK, prefs)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
