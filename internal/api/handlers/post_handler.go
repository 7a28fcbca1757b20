package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/avenside/inkpost-be/internal/auth"
	"github.com/avenside/inkpost-be/internal/services"
)

// PostHandler handles HTTP requests for post management.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// PostPayload defines the structure for create and update requests.
type PostPayload struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content"`
}

// GetAll handles listing posts, optionally filtered by author.
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if authorID := r.URL.Query().Get("author"); authorID != "" {
		posts, err := h.service.GetPostsByAuthor(authorID)
		if err != nil {
			log.Error().Err(err).Str("author_id", authorID).Msg("Failed to list posts by author")
			http.Error(w, "Failed to retrieve posts", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(posts)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}

	posts, err := h.service.GetRecentPosts(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list recent posts")
		http.Error(w, "Failed to retrieve posts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

// Get handles retrieving a post by its ID.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.service.GetPostByID(id)
	if err != nil {
		log.Warn().Err(err).Str("post_id", id).Msg("Failed to get post by ID")
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// Create handles creating a new post for the authenticated user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(auth.UserClaimsKey).(*auth.Claims)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		http.Error(w, "Invalid post payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(payload.Title, payload.Content, claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("author_id", claims.UserID).Msg("Failed to create post")
		http.Error(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// Update handles updating a post's title and content.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		http.Error(w, "Invalid post payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.UpdatePost(id, payload.Title, payload.Content)
	if err != nil {
		log.Error().Err(err).Str("post_id", id).Msg("Failed to update post")
		http.Error(w, "Failed to update post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// Delete handles the permanent deletion of a post. The pre-deletion
// notice and any other subscribers run before the row is removed; a
// subscriber error aborts the deletion and is reported to the client.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeletePost(r.Context(), id); err != nil {
		log.Error().Err(err).Str("post_id", id).Msg("Failed to delete post")
		http.Error(w, "Failed to delete post", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
