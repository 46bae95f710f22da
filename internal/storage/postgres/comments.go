package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mlazarev/taskman/internal/models"
	"github.com/mlazarev/taskman/internal/storage"
)

type commentStore struct {
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

func NewCommentStore(logger zerolog.Logger, pool *pgxpool.Pool) storage.CommentStore {
	return &commentStore{
		logger: logger,
		pool:   pool,
	}
}

func (s *commentStore) Insert(ctx context.Context, comment *models.Comment) error {
	const insertCommentQuery = `
INSERT INTO comments (id,
                      task_id,
                      commentator_id,
                      text,
                      timestamp)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := s.pool.Exec(
		ctx,
		insertCommentQuery,
		comment.ID,
		comment.TaskID,
		comment.Commentator.ID,
		comment.Text,
		comment.Timestamp,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", comment.TaskID).
			Msg("failed to insert comment")
		return err
	}
	s.logger.Debug().
		Str("comment_id", comment.ID).
		Str("task_id", comment.TaskID).
		Msg("inserted comment")
	return nil
}

func (s *commentStore) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	comment := &models.Comment{ID: id}

	const selectCommentByIDQuery = `
SELECT c.task_id,
       c.text,
       c.timestamp,
       u.id,
       u.name,
       u.email
FROM comments c
JOIN users u ON u.id = c.commentator_id
WHERE c.id = $1
`
	err := s.pool.QueryRow(
		ctx,
		selectCommentByIDQuery,
		comment.ID,
	).Scan(
		&comment.TaskID,
		&comment.Text,
		&comment.Timestamp,
		&comment.Commentator.ID,
		&comment.Commentator.Name,
		&comment.Commentator.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str("comment_id", comment.ID).
				Msg("comment not found")
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("comment_id", comment.ID).
			Msg("failed to select comment by id")
		return nil, err
	}
	return comment, nil
}

func (s *commentStore) ListByTask(ctx context.Context, taskID string) ([]models.Comment, error) {
	const selectCommentsByTaskQuery = `
SELECT c.id,
       c.text,
       c.timestamp,
       u.id,
       u.name,
       u.email
FROM comments c
JOIN users u ON u.id = c.commentator_id
WHERE c.task_id = $1
`
	rows, err := s.pool.Query(ctx, selectCommentsByTaskQuery, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select comments by task")
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		comment := models.Comment{TaskID: taskID}
		err = rows.Scan(
			&comment.ID,
			&comment.Text,
			&comment.Timestamp,
			&comment.Commentator.ID,
			&comment.Commentator.Name,
			&comment.Commentator.Email,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan comment")
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (s *commentStore) Update(ctx context.Context, comment *models.Comment) error {
	const updateCommentQuery = `
UPDATE comments
SET text = $1,
    timestamp = $2
WHERE id = $3
`
	tag, err := s.pool.Exec(
		ctx,
		updateCommentQuery,
		comment.Text,
		comment.Timestamp,
		comment.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("comment_id", comment.ID).
			Msg("failed to update comment")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Str("comment_id", comment.ID).
			Msg("comment not found")
		return storage.ErrNotFound
	}
	s.logger.Debug().
		Str("comment_id", comment.ID).
		Msg("updated comment")
	return nil
}

func (s *commentStore) Delete(ctx context.Context, id string) error {
	const deleteCommentQuery = `
DELETE FROM comments
WHERE id = $1
`
	tag, err := s.pool.Exec(ctx, deleteCommentQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("comment_id", id).
			Msg("failed to delete comment")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Str("comment_id", id).
			Msg("comment not found")
		return storage.ErrNotFound
	}
	s.logger.Debug().
		Str("comment_id", id).
		Msg("deleted comment")
	return nil
}

func (s *commentStore) DeleteAllByTask(ctx context.Context, taskID string) error {
	const deleteCommentsByTaskQuery = `
DELETE FROM comments
WHERE task_id = $1
`
	tag, err := s.pool.Exec(ctx, deleteCommentsByTaskQuery, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete comments by task")
		return err
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted comments by task")
	return nil
}
