package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/api/shared"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/service"
)

// defaultQuizCount is the question count used when the client does not
// specify one.
const defaultQuizCount = 10

// QuizHandler handles quiz HTTP requests.
type QuizHandler struct {
	quizService service.QuizService
	logger      *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}

	return &QuizHandler{
		quizService: quizService,
		logger:      logger.With(slog.String("component", "quiz_handler")),
	}
}

// GenerateQuiz handles GET /quizzes requests.
// Query parameters: "system" and "class" scope the question pool,
// "count" caps the number of questions.
func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	count := defaultQuizCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid count parameter")
			return
		}
		count = parsed
	}

	system := domain.BodySystem(r.URL.Query().Get("system"))
	drugClass := r.URL.Query().Get("class")

	questions, err := h.quizService.GenerateQuiz(r.Context(), system, drugClass, count)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuizPool) {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
			return
		}
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Failed to generate quiz", err)
		return
	}

	log.Debug("generated quiz",
		slog.Int("question_count", len(questions)),
		slog.String("system", string(system)),
		slog.String("drug_class", drugClass))
	shared.RespondWithJSON(w, r, http.StatusOK, questions)
}

// SubmitQuiz handles POST /quizzes/scores requests.
func (h *QuizHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SubmitQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	score, err := h.quizService.SubmitQuiz(
		r.Context(),
		userID,
		req.Score,
		req.TotalQuestions,
		domain.BodySystem(req.System),
		req.DrugClass,
	)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuizScore) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid quiz score")
			return
		}
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Failed to record quiz score", err)
		return
	}

	log.Debug("recorded quiz score",
		slog.String("user_id", userID.String()),
		slog.Int("score", score.Score),
		slog.Int("total_questions", score.TotalQuestions))
	shared.RespondWithJSON(w, r, http.StatusCreated, score)
}

// GetQuizHistory handles GET /quizzes/scores requests.
func (h *QuizHandler) GetQuizHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	scores, err := h.quizService.GetQuizHistory(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Failed to get quiz history", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, scores)
}
