package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"daylog/internal/api"
	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/services"
)

type handlers struct {
	api api.BusinessAPI
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if err := h.api.Ping(r.Context()); err != nil {
		respondError(w, errors.NewRemoteUnavailableError("ping", err))
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// ========== Activities ==========

func (h *handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	list, err := h.api.ListActivities(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, list, http.StatusOK)
}

func (h *handlers) addActivity(w http.ResponseWriter, r *http.Request) {
	var input domain.ActivityInput
	if err := decode(r, &input); err != nil {
		respondError(w, err)
		return
	}
	created, err := h.api.AddActivity(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "date"), input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, created, http.StatusCreated)
}

func (h *handlers) editActivity(w http.ResponseWriter, r *http.Request) {
	var patch domain.ActivityPatch
	if err := decode(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	updated, err := h.api.EditActivity(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, updated, http.StatusOK)
}

func (h *handlers) deleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := h.api.DeleteActivity(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) dayStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.api.DayStats(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, report, http.StatusOK)
}

func (h *handlers) activityRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.api.ActivityRange(r.Context(), chi.URLParam(r, "user"), q.Get("from"), q.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, report, http.StatusOK)
}

// ========== Todos ==========

func (h *handlers) listTodos(w http.ResponseWriter, r *http.Request) {
	filter, ok := domain.ParseTodoFilter(r.URL.Query().Get("filter"))
	if !ok {
		badRequest(w, "filter", "must be all, active or completed")
		return
	}
	todos, err := h.api.ListTodos(r.Context(), chi.URLParam(r, "user"), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, todos, http.StatusOK)
}

func (h *handlers) addTodo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	created, err := h.api.AddTodo(r.Context(), chi.URLParam(r, "user"), req.Title)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, created, http.StatusCreated)
}

// updateTodo renames and toggles in a single write; an invalid title leaves the todo untouched.
func (h *handlers) updateTodo(w http.ResponseWriter, r *http.Request) {
	var patch domain.TodoPatch
	if err := decode(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	if patch.IsEmpty() {
		badRequest(w, "body", "title or toggle is required")
		return
	}

	todo, err := h.api.UpdateTodo(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, todo, http.StatusOK)
}

func (h *handlers) deleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.api.DeleteTodo(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ========== Timers ==========

type timerRequest struct {
	Name     string               `json:"name"`
	Duration int                  `json:"duration"`
	Category domain.TimerCategory `json:"category"`
	Template string               `json:"template,omitempty"`
}

func (h *handlers) listTimers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := services.TimerQuery{Sort: domain.TimerSort(q.Get("sort"))}
	switch query.Sort {
	case "", domain.SortTimersByName, domain.SortTimersByDuration, domain.SortTimersByRemaining:
	default:
		badRequest(w, "sort", "must be name, duration or remaining")
		return
	}
	if c := q.Get("category"); c != "" && c != "all" {
		query.Category = domain.TimerCategory(c)
		if !query.Category.IsValid() {
			badRequest(w, "category", "must be all, work, study, exercise, meditation or other")
			return
		}
	}
	respondJSON(w, h.api.ListTimers(query), http.StatusOK)
}

func (h *handlers) addTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var (
		created *domain.Timer
		err     error
	)
	if req.Template != "" {
		created, err = h.api.AddTimerFromTemplate(r.Context(), req.Template)
	} else {
		created, err = h.api.AddTimer(r.Context(), req.Name, req.Duration, req.Category)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, created, http.StatusCreated)
}

func (h *handlers) editTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	updated, err := h.api.EditTimer(r.Context(), chi.URLParam(r, "id"), req.Name, req.Duration, req.Category)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, updated, http.StatusOK)
}

func (h *handlers) deleteTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.api.DeleteTimer(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) toggleTimer(w http.ResponseWriter, r *http.Request) {
	updated, err := h.api.ToggleTimer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, updated, http.StatusOK)
}

func (h *handlers) resetTimer(w http.ResponseWriter, r *http.Request) {
	updated, err := h.api.ResetTimer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, updated, http.StatusOK)
}

func (h *handlers) timerStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.api.TimerStats(), http.StatusOK)
}

func (h *handlers) timerTemplates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.api.TimerTemplates(), http.StatusOK)
}

// ========== Books ==========

func (h *handlers) listBooks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.api.ListBooks(), http.StatusOK)
}

func (h *handlers) addBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string  `json:"title"`
		Author string  `json:"author"`
		Price  float64 `json:"price"`
		Image  string  `json:"image"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	created, err := h.api.AddBook(r.Context(), req.Title, req.Author, req.Price, req.Image)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, created, http.StatusCreated)
}

func (h *handlers) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.api.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) bookStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.api.BookStats(), http.StatusOK)
}

// ========== Profiles ==========

func (h *handlers) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.api.ListProfiles(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, profiles, http.StatusOK)
}

func (h *handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.api.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, p, http.StatusOK)
}

func (h *handlers) createProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string      `json:"username"`
		Role     domain.Role `json:"role"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	p, err := h.api.CreateProfile(r.Context(), req.Username, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, p, http.StatusCreated)
}

func (h *handlers) changeRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActorID string      `json:"actor_id"`
		Role    domain.Role `json:"role"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}
	p, err := h.api.ChangeRole(r.Context(), req.ActorID, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, p, http.StatusOK)
}
