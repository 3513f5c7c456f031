package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/service"
	"github.com/shuttergrid/shuttergrid/internal/transport/http/middleware"
	"github.com/shuttergrid/shuttergrid/pkg/validator"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	imageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateComment(input.Content); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	comment, err := h.commentService.Add(r.Context(), userID, imageID, input.Content)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Image not found")
		} else {
			log.Printf("ERROR add comment: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r.Context())
	imageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return
	}

	comments, err := h.commentService.ListByImage(r.Context(), viewerID, imageID)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Image not found")
		} else {
			log.Printf("ERROR list comments: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	if comments == nil {
		comments = []domain.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}
