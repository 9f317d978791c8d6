package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/api/shared"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/generation"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/service"
)

// DrugHandler handles drug catalog, bookmark, and note HTTP requests.
type DrugHandler struct {
	drugService service.DrugService
	logger      *slog.Logger
}

// NewDrugHandler creates a new DrugHandler.
func NewDrugHandler(drugService service.DrugService, logger *slog.Logger) *DrugHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DrugHandler")
	}

	return &DrugHandler{
		drugService: drugService,
		logger:      logger.With(slog.String("component", "drug_handler")),
	}
}

// ListDrugs handles GET /drugs requests. An optional "system" query
// parameter filters the catalog to one body system.
func (h *DrugHandler) ListDrugs(w http.ResponseWriter, r *http.Request) {
	system := domain.BodySystem(r.URL.Query().Get("system"))

	drugs, err := h.drugService.ListDrugs(r.Context(), system)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Failed to list drugs", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, drugs)
}

// GetDrug handles GET /drugs/{id} requests.
func (h *DrugHandler) GetDrug(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid drug ID")
		return
	}

	drug, err := h.drugService.GetDrug(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, drug)
}

// CreateDrug handles POST /drugs requests.
func (h *DrugHandler) CreateDrug(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req DrugRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	drug := drugFromRequest(&req, 0)
	if err := h.drugService.CreateDrug(r.Context(), drug); err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Failed to create drug", err)
		return
	}

	log.Info("created drug",
		slog.Int("drug_id", drug.ID),
		slog.String("name", drug.Name))
	shared.RespondWithJSON(w, r, http.StatusCreated, drug)
}

// UpdateDrug handles PUT /drugs/{id} requests.
func (h *DrugHandler) UpdateDrug(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid drug ID")
		return
	}

	var req DrugRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	drug := drugFromRequest(&req, id)
	if err := h.drugService.UpdateDrug(r.Context(), drug); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, drug)
}

// DeleteDrug handles DELETE /drugs/{id} requests.
func (h *DrugHandler) DeleteDrug(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid drug ID")
		return
	}

	if err := h.drugService.DeleteDrug(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("deleted drug", slog.Int("drug_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ListSystems handles GET /systems requests. It returns the distinct
// body systems present in the catalog with their display metadata.
func (h *DrugHandler) ListSystems(w http.ResponseWriter, r *http.Request) {
	systems, err := h.drugService.ListSystems(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Failed to list systems", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, systems)
}

// DraftDrugs handles POST /drugs/draft requests. It asks the AI
// generator for unsaved drug entries on a topic; the drafts are returned
// for review and are not added to the catalog.
func (h *DrugHandler) DraftDrugs(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req DraftDrugsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	drafts, err := h.drugService.DraftDrugs(r.Context(), req.Topic, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, generation.ErrInvalidConfig):
			shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Drug drafting is not available")
		case errors.Is(err, generation.ErrContentBlocked):
			shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Topic was rejected by the generator")
		default:
			shared.RespondWithErrorAndLog(
				w, r, http.StatusBadGateway, "Failed to draft drugs", err)
		}
		return
	}

	log.Info("drafted drugs",
		slog.String("topic", req.Topic),
		slog.Int("count", len(drafts)))
	shared.RespondWithJSON(w, r, http.StatusOK, drafts)
}

// BookmarkDrug handles POST /drugs/{id}/bookmark requests.
func (h *DrugHandler) BookmarkDrug(w http.ResponseWriter, r *http.Request) {
	userID, drugID, ok := h.userAndDrugID(w, r)
	if !ok {
		return
	}

	bookmark, err := h.drugService.BookmarkDrug(r.Context(), userID, drugID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, bookmark)
}

// UnbookmarkDrug handles DELETE /drugs/{id}/bookmark requests.
func (h *DrugHandler) UnbookmarkDrug(w http.ResponseWriter, r *http.Request) {
	userID, drugID, ok := h.userAndDrugID(w, r)
	if !ok {
		return
	}

	if err := h.drugService.UnbookmarkDrug(r.Context(), userID, drugID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBookmarks handles GET /bookmarks requests.
func (h *DrugHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	bookmarks, err := h.drugService.ListBookmarks(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Failed to list bookmarks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, bookmarks)
}

// AddNote handles POST /drugs/{id}/notes requests.
func (h *DrugHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	userID, drugID, ok := h.userAndDrugID(w, r)
	if !ok {
		return
	}

	var req NoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	note, err := h.drugService.AddNote(r.Context(), userID, drugID, req.Note, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, note)
}

// ListNotes handles GET /drugs/{id}/notes requests.
func (h *DrugHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, drugID, ok := h.userAndDrugID(w, r)
	if !ok {
		return
	}

	notes, err := h.drugService.ListNotes(r.Context(), userID, drugID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Failed to list notes", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notes)
}

// UpdateNote handles PUT /notes/{noteID} requests.
func (h *DrugHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	noteID, err := strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
	if err != nil || noteID <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req NoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	note, err := h.drugService.UpdateNote(r.Context(), userID, noteID, req.Note, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{noteID} requests.
func (h *DrugHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	noteID, err := strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
	if err != nil || noteID <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.drugService.DeleteNote(r.Context(), userID, noteID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// userAndDrugID extracts the authenticated user ID from the context and
// the drug ID from the URL path, writing an error response on failure.
func (h *DrugHandler) userAndDrugID(
	w http.ResponseWriter,
	r *http.Request,
) (uuid.UUID, int, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	drugID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || drugID <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid drug ID")
		return uuid.Nil, 0, false
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, 0, false
	}

	return userID, drugID, true
}

func drugFromRequest(req *DrugRequest, id int) *domain.Drug {
	return &domain.Drug{
		ID:                id,
		Name:              req.Name,
		Class:             req.Class,
		System:            domain.BodySystem(req.System),
		Mechanism:         req.Mechanism,
		Uses:              req.Uses,
		SideEffects:       req.SideEffects,
		Mnemonic:          req.Mnemonic,
		Contraindications: req.Contraindications,
		Dosage:            req.Dosage,
	}
}
