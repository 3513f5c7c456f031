package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/service"
	"github.com/shuttergrid/shuttergrid/internal/transport/http/middleware"
	"github.com/shuttergrid/shuttergrid/pkg/validator"
)

// maxUploadBytes caps multipart memory for image uploads.
const maxUploadBytes = 32 << 20

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Feed handles GET /images?filter=recent|popular.
func (h *ImageHandler) Feed(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r.Context())
	filter := r.URL.Query().Get("filter")

	images, err := h.imageService.Feed(r.Context(), viewerID, filter)
	if err != nil {
		log.Printf("ERROR list feed: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if images == nil {
		images = []domain.Image{}
	}
	writeJSON(w, http.StatusOK, images)
}

func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r.Context())
	imageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return
	}

	img, err := h.imageService.Get(r.Context(), viewerID, imageID)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Image not found")
		} else {
			log.Printf("ERROR get image: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, img)
}

func (h *ImageHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r.Context())
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	images, err := h.imageService.ListByUser(r.Context(), viewerID, userID)
	if err != nil {
		log.Printf("ERROR list user images: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if images == nil {
		images = []domain.Image{}
	}
	writeJSON(w, http.StatusOK, images)
}

// Upload handles the multipart upload form: a "file" part plus title,
// description, tags (comma separated) and privacy fields.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "An image file is required")
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	privacy := domain.ImagePrivacy(r.FormValue("privacy"))
	if privacy == "" {
		privacy = domain.PrivacyPublic
	}

	if errs := validator.ValidateUpload(title, string(privacy)); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	img, err := h.imageService.Upload(r.Context(), userID, service.UploadInput{
		Title:       title,
		Description: r.FormValue("description"),
		Tags:        tags,
		Privacy:     privacy,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		File:        file,
	})
	if err != nil {
		log.Printf("ERROR upload image: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, img)
}

// ToggleLike handles POST /images/{id}/like.
func (h *ImageHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	imageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return
	}

	result, err := h.imageService.ToggleLike(r.Context(), userID, imageID)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Image not found")
		} else {
			log.Printf("ERROR toggle like: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
