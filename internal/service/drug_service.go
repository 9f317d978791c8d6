package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/generation"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// DrugService provides catalog, bookmark, and note operations, plus
// AI-assisted drafting of new catalog entries.
type DrugService interface {
	// CreateDrug adds a drug to the catalog.
	CreateDrug(ctx context.Context, drug *domain.Drug) error

	// GetDrug retrieves a drug by ID.
	GetDrug(ctx context.Context, id int) (*domain.Drug, error)

	// ListDrugs retrieves the catalog, optionally filtered to one body system.
	ListDrugs(ctx context.Context, system domain.BodySystem) ([]*domain.Drug, error)

	// ListSystems returns the distinct body systems present in the catalog
	// with their display metadata.
	ListSystems(ctx context.Context) ([]domain.SystemInfo, error)

	// UpdateDrug modifies an existing catalog entry.
	UpdateDrug(ctx context.Context, drug *domain.Drug) error

	// DeleteDrug removes a drug and its dependent records.
	DeleteDrug(ctx context.Context, id int) error

	// DraftDrugs asks the AI generator for unsaved drug entries on a topic.
	DraftDrugs(ctx context.Context, topic string, count int) ([]*domain.Drug, error)

	// BookmarkDrug bookmarks a drug for the user.
	BookmarkDrug(ctx context.Context, userID uuid.UUID, drugID int) (*domain.Bookmark, error)

	// UnbookmarkDrug removes the user's bookmark for a drug.
	UnbookmarkDrug(ctx context.Context, userID uuid.UUID, drugID int) error

	// ListBookmarks retrieves the user's bookmarks, newest first.
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]*domain.Bookmark, error)

	// AddNote attaches a note to a drug for the user.
	AddNote(ctx context.Context, userID uuid.UUID, drugID int, text string, tags []string) (*domain.DrugNote, error)

	// UpdateNote changes a note's text and tags. Returns ErrNotOwned if
	// the note belongs to another user.
	UpdateNote(ctx context.Context, userID uuid.UUID, noteID int64, text string, tags []string) (*domain.DrugNote, error)

	// DeleteNote removes a note. Returns ErrNotOwned if the note belongs
	// to another user.
	DeleteNote(ctx context.Context, userID uuid.UUID, noteID int64) error

	// ListNotes retrieves the user's notes for a drug, newest first.
	ListNotes(ctx context.Context, userID uuid.UUID, drugID int) ([]*domain.DrugNote, error)
}

// DrugServiceImpl implements the DrugService interface
type DrugServiceImpl struct {
	db            *sql.DB
	drugStore     store.DrugStore
	bookmarkStore store.BookmarkStore
	noteStore     store.NoteStore
	generator     generation.DrugGenerator // nil when AI drafting is not configured
	timeFunc      func() time.Time
	logger        *slog.Logger
}

// NewDrugService creates a new DrugService. The generator may be nil, in
// which case DraftDrugs reports generation as unavailable.
func NewDrugService(
	db *sql.DB,
	drugStore store.DrugStore,
	bookmarkStore store.BookmarkStore,
	noteStore store.NoteStore,
	generator generation.DrugGenerator,
	logger *slog.Logger,
) *DrugServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}

	return &DrugServiceImpl{
		db:            db,
		drugStore:     drugStore,
		bookmarkStore: bookmarkStore,
		noteStore:     noteStore,
		generator:     generator,
		timeFunc:      time.Now,
		logger:        logger.With("component", "drug_service"),
	}
}

var _ DrugService = (*DrugServiceImpl)(nil)

// CreateDrug adds a drug to the catalog.
func (s *DrugServiceImpl) CreateDrug(ctx context.Context, drug *domain.Drug) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.drugStore.WithTx(tx).Create(ctx, drug)
	})
	if err != nil {
		log.Error("failed to create drug",
			"error", err,
			"drug_name", drug.Name)
		return fmt.Errorf("failed to create drug: %w", err)
	}

	log.Info("drug created",
		"drug_id", drug.ID,
		"drug_name", drug.Name,
		"system", drug.System)

	return nil
}

// GetDrug retrieves a drug by ID.
func (s *DrugServiceImpl) GetDrug(ctx context.Context, id int) (*domain.Drug, error) {
	drug, err := s.drugStore.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrDrugNotFound) {
			s.logger.Error("failed to get drug", "error", err, "drug_id", id)
		}
		return nil, err
	}

	return drug, nil
}

// ListDrugs retrieves the catalog, optionally filtered to one body system.
func (s *DrugServiceImpl) ListDrugs(ctx context.Context, system domain.BodySystem) ([]*domain.Drug, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		drugs []*domain.Drug
		err   error
	)
	if system != "" {
		drugs, err = s.drugStore.ListBySystem(ctx, system)
	} else {
		drugs, err = s.drugStore.List(ctx)
	}
	if err != nil {
		log.Error("failed to list drugs", "error", err, "system", system)
		return nil, fmt.Errorf("failed to list drugs: %w", err)
	}

	return drugs, nil
}

// ListSystems returns the distinct body systems present in the catalog.
func (s *DrugServiceImpl) ListSystems(ctx context.Context) ([]domain.SystemInfo, error) {
	drugs, err := s.drugStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drugs: %w", err)
	}

	systems := domain.UniqueSystems(drugs)
	infos := make([]domain.SystemInfo, 0, len(systems))
	for _, sys := range systems {
		infos = append(infos, sys.Info())
	}

	return infos, nil
}

// UpdateDrug modifies an existing catalog entry.
func (s *DrugServiceImpl) UpdateDrug(ctx context.Context, drug *domain.Drug) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.drugStore.WithTx(tx).Update(ctx, drug)
	})
	if err != nil {
		if !errors.Is(err, store.ErrDrugNotFound) {
			log.Error("failed to update drug", "error", err, "drug_id", drug.ID)
		}
		return err
	}

	log.Info("drug updated", "drug_id", drug.ID, "drug_name", drug.Name)
	return nil
}

// DeleteDrug removes a drug and its dependent records.
func (s *DrugServiceImpl) DeleteDrug(ctx context.Context, id int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.drugStore.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, store.ErrDrugNotFound) {
			log.Error("failed to delete drug", "error", err, "drug_id", id)
		}
		return err
	}

	log.Info("drug deleted", "drug_id", id)
	return nil
}

// DraftDrugs asks the AI generator for unsaved drug entries on a topic.
func (s *DrugServiceImpl) DraftDrugs(ctx context.Context, topic string, count int) ([]*domain.Drug, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", generation.ErrInvalidConfig)
	}

	drugs, err := s.generator.GenerateDrugs(ctx, topic, count)
	if err != nil {
		log.Error("failed to draft drugs",
			"error", err,
			"topic", topic,
			"count", count)
		return nil, err
	}

	log.Info("drafted drugs from topic",
		"topic", topic,
		"drafted", len(drugs))

	return drugs, nil
}

// BookmarkDrug bookmarks a drug for the user.
func (s *DrugServiceImpl) BookmarkDrug(ctx context.Context, userID uuid.UUID, drugID int) (*domain.Bookmark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bookmark := &domain.Bookmark{
		UserID:       userID,
		DrugID:       drugID,
		BookmarkedAt: s.timeFunc(),
	}

	if err := s.bookmarkStore.Add(ctx, bookmark); err != nil {
		if !errors.Is(err, store.ErrBookmarkExists) && !errors.Is(err, store.ErrDrugNotFound) {
			log.Error("failed to add bookmark",
				"error", err,
				"user_id", userID,
				"drug_id", drugID)
		}
		return nil, err
	}

	return bookmark, nil
}

// UnbookmarkDrug removes the user's bookmark for a drug.
func (s *DrugServiceImpl) UnbookmarkDrug(ctx context.Context, userID uuid.UUID, drugID int) error {
	return s.bookmarkStore.Remove(ctx, userID, drugID)
}

// ListBookmarks retrieves the user's bookmarks, newest first.
func (s *DrugServiceImpl) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]*domain.Bookmark, error) {
	return s.bookmarkStore.ListByUser(ctx, userID)
}

// AddNote attaches a note to a drug for the user.
func (s *DrugServiceImpl) AddNote(
	ctx context.Context,
	userID uuid.UUID,
	drugID int,
	text string,
	tags []string,
) (*domain.DrugNote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.timeFunc()
	note := &domain.DrugNote{
		UserID:    userID,
		DrugID:    drugID,
		Note:      text,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.noteStore.Create(ctx, note); err != nil {
		if !errors.Is(err, store.ErrDrugNotFound) && !errors.Is(err, store.ErrInvalidEntity) {
			log.Error("failed to create note",
				"error", err,
				"user_id", userID,
				"drug_id", drugID)
		}
		return nil, err
	}

	return note, nil
}

// UpdateNote changes a note's text and tags, enforcing ownership.
func (s *DrugServiceImpl) UpdateNote(
	ctx context.Context,
	userID uuid.UUID,
	noteID int64,
	text string,
	tags []string,
) (*domain.DrugNote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.DrugNote
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.noteStore.WithTx(tx)

		note, err := txStore.GetByID(ctx, noteID)
		if err != nil {
			return err
		}

		if note.UserID != userID {
			log.Warn("user does not own note",
				"user_id", userID,
				"note_id", noteID,
				"owner_id", note.UserID)
			return ErrNotOwned
		}

		note.Note = text
		note.Tags = tags
		note.UpdatedAt = s.timeFunc()

		if err := txStore.Update(ctx, note); err != nil {
			return err
		}

		updated = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteNote removes a note, enforcing ownership.
func (s *DrugServiceImpl) DeleteNote(ctx context.Context, userID uuid.UUID, noteID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.noteStore.WithTx(tx)

		note, err := txStore.GetByID(ctx, noteID)
		if err != nil {
			return err
		}

		if note.UserID != userID {
			log.Warn("user does not own note",
				"user_id", userID,
				"note_id", noteID,
				"owner_id", note.UserID)
			return ErrNotOwned
		}

		return txStore.Delete(ctx, noteID)
	})
}

// ListNotes retrieves the user's notes for a drug, newest first.
func (s *DrugServiceImpl) ListNotes(ctx context.Context, userID uuid.UUID, drugID int) ([]*domain.DrugNote, error) {
	return s.noteStore.ListByDrug(ctx, userID, drugID)
}
