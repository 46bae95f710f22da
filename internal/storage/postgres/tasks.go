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

type taskStore struct {
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

func NewTaskStore(logger zerolog.Logger, pool *pgxpool.Pool) storage.TaskStore {
	return &taskStore{
		logger: logger,
		pool:   pool,
	}
}

func (s *taskStore) Insert(ctx context.Context, task *models.Task) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   status,
                   priority,
                   author_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err = tx.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		task.Status.Value(),
		task.Priority.Value(),
		task.Author.ID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}

	const insertAssigneeQuery = `
INSERT INTO task_assignees (task_id, assignee_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	for i := range task.Assignees {
		_, err = tx.Exec(
			ctx,
			insertAssigneeQuery,
			task.ID,
			task.Assignees[i].ID,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("assignee_id", task.Assignees[i].ID).
				Msg("failed to insert task assignee")
			return err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Int("assignees", len(task.Assignees)).
		Msg("inserted task")
	return nil
}

func (s *taskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	task := &models.Task{ID: id}

	const selectTaskByIDQuery = `
SELECT t.title,
       t.description,
       t.status,
       t.priority,
       t.created_at,
       t.updated_at,
       u.id,
       u.name,
       u.email
FROM tasks t
JOIN users u ON u.id = t.author_id
WHERE t.id = $1
`
	var statusValue, priorityValue int
	err := s.pool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		task.ID,
	).Scan(
		&task.Title,
		&task.Description,
		&statusValue,
		&priorityValue,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Author.ID,
		&task.Author.Name,
		&task.Author.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str("task_id", task.ID).
				Msg("task not found")
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select task by id")
		return nil, err
	}
	task.Status = models.TaskStatus(statusValue)
	task.Priority = models.TaskPriority(priorityValue)

	task.Assignees, err = s.selectAssignees(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	task.Comments, err = s.selectComments(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskStore) List(ctx context.Context) ([]models.Task, error) {
	const selectTaskIDsQuery = `
SELECT id
FROM tasks
ORDER BY created_at
`
	return s.listByQuery(ctx, selectTaskIDsQuery)
}

func (s *taskStore) ListByAuthor(ctx context.Context, authorID string) ([]models.Task, error) {
	const selectTaskIDsByAuthorQuery = `
SELECT id
FROM tasks
WHERE author_id = $1
ORDER BY created_at
`
	return s.listByQuery(ctx, selectTaskIDsByAuthorQuery, authorID)
}

func (s *taskStore) ListByAssignee(ctx context.Context, assigneeID string) ([]models.Task, error) {
	const selectTaskIDsByAssigneeQuery = `
SELECT t.id
FROM tasks t
JOIN task_assignees ta ON ta.task_id = t.id
WHERE ta.assignee_id = $1
ORDER BY t.created_at
`
	return s.listByQuery(ctx, selectTaskIDsByAssigneeQuery, assigneeID)
}

// listByQuery hydrates every task matched by an id-returning query.
// Listing is not a hot path here, so one GetByID per task keeps the
// hydration logic in a single place.
func (s *taskStore) listByQuery(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select task ids")
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		err = rows.Scan(&id)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task id")
			return nil, err
		}
		ids = append(ids, id)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	tasks := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		task, err := s.GetByID(ctx, id)
		if err != nil {
			// A task deleted between the two queries is not an error
			// for the listing as a whole.
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (s *taskStore) selectAssignees(ctx context.Context, taskID string) ([]models.User, error) {
	const selectAssigneesQuery = `
SELECT u.id,
       u.name,
       u.email
FROM task_assignees ta
JOIN users u ON u.id = ta.assignee_id
WHERE ta.task_id = $1
`
	rows, err := s.pool.Query(ctx, selectAssigneesQuery, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task assignees")
		return nil, err
	}
	defer rows.Close()

	var assignees []models.User
	for rows.Next() {
		var user models.User
		err = rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan assignee")
			return nil, err
		}
		assignees = append(assignees, user)
	}
	return assignees, rows.Err()
}

func (s *taskStore) selectComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	const selectCommentsQuery = `
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
	rows, err := s.pool.Query(ctx, selectCommentsQuery, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task comments")
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

func (s *taskStore) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    priority = $4,
    updated_at = $5
WHERE id = $6
`
	tag, err := s.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status.Value(),
		task.Priority.Value(),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Str("task_id", task.ID).
			Msg("task not found")
		return storage.ErrNotFound
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (s *taskStore) AddAssignee(ctx context.Context, taskID, userID string) error {
	const insertAssigneeQuery = `
INSERT INTO task_assignees (task_id, assignee_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	_, err := s.pool.Exec(
		ctx,
		insertAssigneeQuery,
		taskID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("assignee_id", userID).
			Msg("failed to insert task assignee")
		return err
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Str("assignee_id", userID).
		Msg("inserted task assignee")
	return nil
}

func (s *taskStore) RemoveAssignee(ctx context.Context, taskID, userID string) error {
	const deleteAssigneeQuery = `
DELETE FROM task_assignees
WHERE task_id = $1 AND assignee_id = $2
`
	tag, err := s.pool.Exec(
		ctx,
		deleteAssigneeQuery,
		taskID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("assignee_id", userID).
			Msg("failed to delete task assignee")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Str("task_id", taskID).
			Str("assignee_id", userID).
			Msg("assignee not found")
		return storage.ErrNotFound
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Str("assignee_id", userID).
		Msg("deleted task assignee")
	return nil
}

func (s *taskStore) Delete(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("task not found")
		return storage.ErrNotFound
	}
	s.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}
