// Package httpapi exposes the command and query handlers over HTTP using
// chi routing, following the module-per-Handler convention used
// throughout this codebase.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nivenhub/timelinecore/internal/command"
	"github.com/nivenhub/timelinecore/internal/query"
	"github.com/nivenhub/timelinecore/internal/shared/auth"
	"github.com/nivenhub/timelinecore/internal/shared/errors"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// Handler provides HTTP handlers for users, posts, and follows.
type Handler struct {
	commands *command.Handlers
	queries  *query.Handlers
}

// NewHandler builds a Handler wired over the given command and query
// handlers.
func NewHandler(commands *command.Handlers, queries *query.Handlers) *Handler {
	return &Handler{commands: commands, queries: queries}
}

// Routes registers the full HTTP surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/users", h.ListUsers)
	r.Post("/users", h.RegisterUser)
	r.Get("/users/{userId}/posts", h.PostsByAuthor)
	r.Get("/users/{userId}/following/{otherId}", h.IsFollowing)

	r.Post("/posts", h.PublishPost)
	r.Delete("/posts/{postId}", h.RetractPost)

	r.Post("/follows/{followeeId}", h.StartFollow)
	r.Delete("/follows/{followeeId}", h.EndFollow)

	r.Get("/feed", h.GetFeed)

	return r
}

type registerUserRequest struct {
	Username string `json:"username"`
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	id, err := h.commands.RegisterUser(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"userId": id})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": users})
}

type publishPostRequest struct {
	Body string `json:"body"`
}

func (h *Handler) PublishPost(w http.ResponseWriter, r *http.Request) {
	authorId := auth.UserId(r.Context())
	if authorId.IsZero() {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req publishPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	id, err := h.commands.PublishPost(r.Context(), authorId, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"postId": id})
}

func (h *Handler) RetractPost(w http.ResponseWriter, r *http.Request) {
	callerId := auth.UserId(r.Context())
	if callerId.IsZero() {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	postId := types.PostId(chi.URLParam(r, "postId"))
	if err := h.commands.RetractPost(r.Context(), callerId, postId); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PostsByAuthor(w http.ResponseWriter, r *http.Request) {
	authorId := types.UserId(chi.URLParam(r, "userId"))
	posts, err := h.queries.PostsByAuthor(r.Context(), authorId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": posts})
}

func (h *Handler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	followerId := types.UserId(chi.URLParam(r, "userId"))
	followeeId := types.UserId(chi.URLParam(r, "otherId"))
	following, err := h.queries.IsFollowing(r.Context(), followerId, followeeId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"following": following})
}

func (h *Handler) StartFollow(w http.ResponseWriter, r *http.Request) {
	followerId := auth.UserId(r.Context())
	if followerId.IsZero() {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	followeeId := types.UserId(chi.URLParam(r, "followeeId"))
	id, err := h.commands.StartFollow(r.Context(), followerId, followeeId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"relationshipId": id})
}

func (h *Handler) EndFollow(w http.ResponseWriter, r *http.Request) {
	followerId := auth.UserId(r.Context())
	if followerId.IsZero() {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	followeeId := types.UserId(chi.URLParam(r, "followeeId"))
	if err := h.commands.EndFollow(r.Context(), followerId, followeeId); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userId := auth.UserId(r.Context())
	if userId.IsZero() {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	posts, err := h.queries.GetFeed(r.Context(), userId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": posts})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
