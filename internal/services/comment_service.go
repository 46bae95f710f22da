package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mlazarev/taskman/internal/models"
	"github.com/mlazarev/taskman/internal/storage"
)

type commentServiceImpl struct {
	logger   zerolog.Logger
	comments storage.CommentStore
	tasks    storage.TaskStore
}

func NewCommentService(
	logger zerolog.Logger,
	comments storage.CommentStore,
	tasks storage.TaskStore,
) CommentService {
	return &commentServiceImpl{
		logger:   logger,
		comments: comments,
		tasks:    tasks,
	}
}

func (s *commentServiceImpl) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("comment_id", id).
				Msg("comment not found")
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentServiceImpl) Create(ctx context.Context, params CreateCommentParams) (*models.Comment, error) {
	err := validateCommentText(params.Text)
	if err != nil {
		s.logger.Error().
			Str("task_id", params.TaskID).
			Msg("comment text is empty")
		return nil, err
	}

	commentUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate comment uuid")
		return nil, err
	}

	comment := &models.Comment{
		ID:          commentUUID.String(),
		TaskID:      params.TaskID,
		Text:        params.Text,
		Commentator: *params.Commentator,
		Timestamp:   time.Now(),
	}

	err = s.comments.Insert(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("comment_id", comment.ID).
		Str("task_id", comment.TaskID).
		Msg("created comment")
	return comment, nil
}

func (s *commentServiceImpl) UpdateText(ctx context.Context, id, text string, commentator *models.User) (*models.Comment, error) {
	comment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = validateCommentText(text)
	if err != nil {
		s.logger.Error().
			Str("comment_id", id).
			Msg("comment text is empty")
		return nil, err
	}
	if !comment.Commentator.Is(commentator) {
		s.logger.Error().
			Str("comment_id", id).
			Str("caller_id", callerID(commentator)).
			Msg("caller is not the commentator")
		return nil, ErrNotCommentator
	}

	comment.Text = text
	comment.Timestamp = time.Now()

	err = s.comments.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	s.logger.Info().
		Str("comment_id", comment.ID).
		Msg("updated comment text")
	return comment, nil
}

func (s *commentServiceImpl) DeleteByID(ctx context.Context, id string, caller *models.User) error {
	comment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !comment.Commentator.Is(caller) {
		task, err := s.tasks.GetByID(ctx, comment.TaskID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if !task.IsAuthor(caller) {
			s.logger.Error().
				Str("comment_id", id).
				Str("caller_id", callerID(caller)).
				Msg("caller is neither the commentator nor the task author")
			return ErrNotCommentatorOrTaskAuthor
		}
	}

	err = s.comments.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	s.logger.Info().
		Str("comment_id", id).
		Msg("deleted comment")
	return nil
}

func (s *commentServiceImpl) DeleteAllInTask(ctx context.Context, task *models.Task) error {
	err := s.comments.DeleteAllByTask(ctx, task.ID)
	if err != nil {
		return err
	}
	task.Comments = nil

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("deleted all comments in task")
	return nil
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyCommentText
	}
	return nil
}
