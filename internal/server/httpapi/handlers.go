package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/logging"
	"github.com/ddanilov/daybook/internal/server/models"
	"github.com/ddanilov/daybook/internal/tagx"
)

var validate = validator.New()

type handlers struct {
	auth    AuthProvider
	entries EntryProvider
	logger  logging.Logger
}

type entryDTO struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageRef  *string   `json:"image_ref"`
	Tags      []string  `json:"tags"`
}

func toEntryDTO(e *models.Entry) entryDTO {
	return entryDTO{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		Title:     e.Title,
		Content:   e.Content,
		ImageRef:  e.ImageRef,
		Tags:      e.Tags,
	}
}

// --- auth ---

type linkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *handlers) requestLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid email", common.ErrValidation))
		return
	}

	if err := h.auth.RequestLink(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

func (h *handlers) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	accessToken, user, err := h.auth.Verify(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		AccessToken: accessToken,
		UserID:      user.ID,
		Email:       user.Email,
	})
}

// --- entries ---

type entriesResponse struct {
	Entries []entryDTO `json:"entries"`
}

func (h *handlers) listEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ListFilter{
		UserID:     UserID(r.Context()),
		Query:      q.Get("q"),
		ImagesOnly: q.Get("images_only") == "true" || q.Get("images_only") == "1",
		Tags:       tagx.Normalize(q.Get("tags")),
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.entries.List(r.Context(), filter, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]entryDTO, 0, len(result))
	for _, e := range result {
		dtos = append(dtos, toEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, entriesResponse{Entries: dtos})
}

func (h *handlers) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.entries.Get(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(e))
}

type createEntryRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	ImageRef *string  `json:"image_ref"`
	Tags     []string `json:"tags"`
}

func (h *handlers) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	e, err := h.entries.Create(r.Context(), UserID(r.Context()), req.Title, req.Content, req.ImageRef, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(e))
}

type imagePatchDTO struct {
	Op  string `json:"op"`
	Ref string `json:"ref"`
}

// updateEntryRequest carries a partial update. An omitted image field keeps
// the current reference, which must stay distinguishable from {"op":"clear"}.
type updateEntryRequest struct {
	Title   *string        `json:"title"`
	Content *string        `json:"content"`
	Tags    *[]string      `json:"tags"`
	Image   *imagePatchDTO `json:"image"`
}

func (h *handlers) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req updateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := models.EntryPatch{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if req.Image != nil {
		switch models.ImageOp(req.Image.Op) {
		case models.ImageKeep, "":
			patch.Image = models.KeepImage()
		case models.ImageClear:
			patch.Image = models.ClearImage()
		case models.ImageSet:
			patch.Image = models.SetImage(req.Image.Ref)
		default:
			writeError(w, fmt.Errorf("%w: unknown image op %q", common.ErrValidation, req.Image.Op))
			return
		}
	}

	e, err := h.entries.Update(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(e))
}

type deleteEntryRequest struct {
	ID string `json:"id"`
}

type deleteEntryResponse struct {
	OK bool `json:"ok"`
}

func (h *handlers) deleteEntry(w http.ResponseWriter, r *http.Request) {
	var req deleteEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ID == "" {
		writeError(w, fmt.Errorf("%w: missing id", common.ErrValidation))
		return
	}

	if err := h.entries.Delete(r.Context(), UserID(r.Context()), req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteEntryResponse{OK: true})
}

// --- storage ---

type signURLRequest struct {
	Path      string `json:"path"`
	Bucket    string `json:"bucket"`
	ExpiresIn int    `json:"expiresIn"`
}

type signURLResponse struct {
	URL string `json:"url"`
}

func (h *handlers) signURL(w http.ResponseWriter, r *http.Request) {
	var req signURLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expires := time.Duration(req.ExpiresIn) * time.Second

	url, err := h.entries.SignURL(r.Context(), req.Path, req.Bucket, expires)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, signURLResponse{URL: url})
}

type uploadURLRequest struct {
	Ext string `json:"ext"`
}

type uploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
	Ref string `json:"ref"`
}

func (h *handlers) uploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	key, url, ref, err := h.entries.NewUploadURL(r.Context(), UserID(r.Context()), req.Ext)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{Key: key, URL: url, Ref: ref})
}
