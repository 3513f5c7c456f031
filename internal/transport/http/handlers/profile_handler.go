package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/service"
	"github.com/shuttergrid/shuttergrid/internal/transport/http/middleware"
)

type ProfileHandler struct {
	followService *service.FollowService
}

func NewProfileHandler(followService *service.FollowService) *ProfileHandler {
	return &ProfileHandler{followService: followService}
}

// Get handles GET /profiles/{username}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r.Context())
	username := r.PathValue("username")

	profile, err := h.followService.GetProfile(r.Context(), viewerID, username)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
		} else {
			log.Printf("ERROR get profile: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// ToggleFollow handles POST /users/{id}/follow.
func (h *ProfileHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	result, err := h.followService.Toggle(r.Context(), userID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotFollowSelf):
			writeError(w, http.StatusBadRequest, "SELF_FOLLOW", "You cannot follow yourself")
		case errors.Is(err, service.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			log.Printf("ERROR toggle follow: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ProfileHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.listRelations(w, r, h.followService.Followers)
}

func (h *ProfileHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.listRelations(w, r, h.followService.Following)
}

func (h *ProfileHandler) listRelations(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error)) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	profiles, err := list(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list follow relations: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if profiles == nil {
		profiles = []domain.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}
