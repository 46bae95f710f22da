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

type taskServiceImpl struct {
	logger   zerolog.Logger
	tasks    storage.TaskStore
	users    storage.UserStore
	comments CommentService
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
	users storage.UserStore,
	comments CommentService,
) TaskService {
	return &taskServiceImpl{
		logger:   logger,
		tasks:    tasks,
		users:    users,
		comments: comments,
	}
}

func (s *taskServiceImpl) ListAll(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) GetByID(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if strings.TrimSpace(params.Title) == "" {
		s.logger.Error().Msg("task title is blank")
		return nil, ErrInvalidTitle
	}

	status := models.StatusPending
	if params.StatusValue != nil {
		var err error
		status, err = models.TaskStatusByValue(*params.StatusValue)
		if err != nil {
			s.logger.Error().
				Int("value", *params.StatusValue).
				Msg("invalid task status value")
			return nil, err
		}
	}

	priority := models.PriorityLow
	if params.PriorityValue != nil {
		var err error
		priority, err = models.TaskPriorityByValue(*params.PriorityValue)
		if err != nil {
			s.logger.Error().
				Int("value", *params.PriorityValue).
				Msg("invalid task priority value")
			return nil, err
		}
	}

	assignees, err := s.resolveAssignees(ctx, params.Assignees)
	if err != nil {
		return nil, err
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:        taskUUID.String(),
		Title:     params.Title,
		Status:    status,
		Priority:  priority,
		Author:    *params.Author,
		Assignees: assignees,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if params.Description != nil {
		task.Description = *params.Description
	}

	err = s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("author_id", task.Author.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) DeleteByID(ctx context.Context, id string, caller *models.User) error {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.validateAuthor(task, caller)
	if err != nil {
		return err
	}

	// Comments go first so the task is never left referencing
	// rows that belong to a deleted parent.
	err = s.comments.DeleteAllInTask(ctx, task)
	if err != nil {
		return err
	}

	err = s.tasks.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) UpdateTitle(ctx context.Context, id, title string, caller *models.User) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.validateAuthor(task, caller)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		s.logger.Error().
			Str("task_id", id).
			Msg("task title is blank")
		return nil, ErrInvalidTitle
	}

	task.Title = title
	return s.saveTask(ctx, task, "updated task title")
}

func (s *taskServiceImpl) UpdateDescription(ctx context.Context, id string, description *string, caller *models.User) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.validateAuthor(task, caller)
	if err != nil {
		return nil, err
	}
	if description == nil {
		s.logger.Error().
			Str("task_id", id).
			Msg("task description is missing")
		return nil, ErrInvalidDescription
	}

	task.Description = *description
	return s.saveTask(ctx, task, "updated task description")
}

func (s *taskServiceImpl) UpdateStatus(ctx context.Context, id string, statusValue int, caller *models.User) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsAuthor(caller) && !task.HasAssignee(caller) {
		s.logger.Error().
			Str("task_id", id).
			Str("caller_id", callerID(caller)).
			Msg("caller is neither the author nor an assignee")
		return nil, ErrNotAuthorOrAssignee
	}

	// Any known status may follow any other: COMPLETED is not terminal.
	status, err := models.TaskStatusByValue(statusValue)
	if err != nil {
		s.logger.Error().
			Int("value", statusValue).
			Msg("invalid task status value")
		return nil, err
	}

	task.Status = status
	return s.saveTask(ctx, task, "updated task status")
}

func (s *taskServiceImpl) UpdatePriority(ctx context.Context, id string, priorityValue int, caller *models.User) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.validateAuthor(task, caller)
	if err != nil {
		return nil, err
	}

	priority, err := models.TaskPriorityByValue(priorityValue)
	if err != nil {
		s.logger.Error().
			Int("value", priorityValue).
			Msg("invalid task priority value")
		return nil, err
	}

	task.Priority = priority
	return s.saveTask(ctx, task, "updated task priority")
}

func (s *taskServiceImpl) AppendAssignee(ctx context.Context, id string, ref AssigneeRef, caller *models.User) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assignee, err := s.resolveAssignee(ctx, ref)
	if err != nil {
		return nil, err
	}
	err = s.validateAuthor(task, caller)
	if err != nil {
		return nil, err
	}

	if task.HasAssignee(assignee) {
		s.logger.Debug().
			Str("task_id", task.ID).
			Str("assignee_id", assignee.ID).
			Msg("user is already an assignee")
		return task, nil
	}

	err = s.tasks.AddAssignee(ctx, task.ID, assignee.ID)
	if err != nil {
		return nil, err
	}
	task.Assignees = append(task.Assignees, *assignee)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("assignee_id", assignee.ID).
		Msg("appended task assignee")
	return task, nil
}

func (s *taskServiceImpl) RemoveAssignee(ctx context.Context, id string, ref AssigneeRef, caller *models.User) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assignee, err := s.resolveAssignee(ctx, ref)
	if err != nil {
		return nil, err
	}
	err = s.validateAuthor(task, caller)
	if err != nil {
		return nil, err
	}

	if !task.HasAssignee(assignee) {
		s.logger.Error().
			Str("task_id", task.ID).
			Str("assignee_id", assignee.ID).
			Msg("user is not an assignee of the task")
		return nil, ErrAssigneeNotInTask
	}

	err = s.tasks.RemoveAssignee(ctx, task.ID, assignee.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	kept := task.Assignees[:0]
	for i := range task.Assignees {
		if !task.Assignees[i].Is(assignee) {
			kept = append(kept, task.Assignees[i])
		}
	}
	task.Assignees = kept

	s.logger.Info().
		Str("task_id", task.ID).
		Str("assignee_id", assignee.ID).
		Msg("removed task assignee")
	return task, nil
}

func (s *taskServiceImpl) AppendComment(ctx context.Context, id, text string, caller *models.User) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, CreateCommentParams{
		TaskID:      task.ID,
		Text:        text,
		Commentator: caller,
	})
	if err != nil {
		return nil, err
	}
	task.Comments = append(task.Comments, *comment)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("comment_id", comment.ID).
		Msg("appended task comment")
	return task, nil
}

func (s *taskServiceImpl) RemoveComment(ctx context.Context, id, commentID string, caller *models.User) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.TaskID != task.ID {
		s.logger.Error().
			Str("task_id", task.ID).
			Str("comment_id", commentID).
			Msg("comment does not belong to the task")
		return nil, ErrCommentNotFound
	}

	err = s.comments.DeleteByID(ctx, commentID, caller)
	if err != nil {
		return nil, err
	}

	kept := task.Comments[:0]
	for i := range task.Comments {
		if task.Comments[i].ID != commentID {
			kept = append(kept, task.Comments[i])
		}
	}
	task.Comments = kept

	s.logger.Info().
		Str("task_id", task.ID).
		Str("comment_id", commentID).
		Msg("removed task comment")
	return task, nil
}

func (s *taskServiceImpl) ListByAuthor(ctx context.Context, author *models.User) ([]models.Task, error) {
	tasks, err := s.tasks.ListByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("author_id", author.ID).
		Msg("listed tasks by author")
	return tasks, nil
}

func (s *taskServiceImpl) ListByAssignee(ctx context.Context, assignee *models.User) ([]models.Task, error) {
	tasks, err := s.tasks.ListByAssignee(ctx, assignee.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("assignee_id", assignee.ID).
		Msg("listed tasks by assignee")
	return tasks, nil
}

func (s *taskServiceImpl) saveTask(ctx context.Context, task *models.Task, msg string) (*models.Task, error) {
	task.UpdatedAt = time.Now()
	err := s.tasks.Update(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg(msg)
	return task, nil
}

func (s *taskServiceImpl) validateAuthor(task *models.Task, caller *models.User) error {
	if !task.IsAuthor(caller) {
		s.logger.Error().
			Str("task_id", task.ID).
			Str("caller_id", callerID(caller)).
			Msg("caller is not the task author")
		return ErrNotTaskAuthor
	}
	return nil
}

// resolveAssignees maps refs onto stored users,
// deduplicated by identity in first-seen order.
func (s *taskServiceImpl) resolveAssignees(ctx context.Context, refs []AssigneeRef) ([]models.User, error) {
	var assignees []models.User
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		user, err := s.resolveAssignee(ctx, ref)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		assignees = append(assignees, *user)
	}
	return assignees, nil
}

func (s *taskServiceImpl) resolveAssignee(ctx context.Context, ref AssigneeRef) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case ref.ID != "":
		user, err = s.users.GetByID(ctx, ref.ID)
	case ref.Email != "":
		user, err = s.users.GetByEmail(ctx, ref.Email)
	default:
		s.logger.Error().Msg("assignee reference has neither id nor email")
		return nil, ErrInvalidAssignee
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("assignee_id", ref.ID).
				Str("assignee_email", ref.Email).
				Msg("assignee not found")
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func callerID(caller *models.User) string {
	if caller == nil {
		return ""
	}
	return caller.ID
}
