package v1

import (
	"sort"
	"time"

	"github.com/mlazarev/taskman/internal/models"
)

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

type commentResponse struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Commentator userResponse `json:"commentator"`
	Timestamp   time.Time    `json:"timestamp"`
}

func newCommentResponse(comment *models.Comment) commentResponse {
	return commentResponse{
		ID:          comment.ID,
		Text:        comment.Text,
		Commentator: newUserResponse(&comment.Commentator),
		Timestamp:   comment.Timestamp,
	}
}

type taskProperty struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type taskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      taskProperty      `json:"status"`
	Priority    taskProperty      `json:"priority"`
	Author      userResponse      `json:"author"`
	Assignees   []userResponse    `json:"assignees"`
	Comments    []commentResponse `json:"comments"`
}

func newTaskResponse(task *models.Task) taskResponse {
	assignees := make([]userResponse, len(task.Assignees))
	for i := range task.Assignees {
		assignees[i] = newUserResponse(&task.Assignees[i])
	}

	comments := make([]commentResponse, len(task.Comments))
	for i := range task.Comments {
		comments[i] = newCommentResponse(&task.Comments[i])
	}
	// Single comment or none needs no sort; the stable sort keeps
	// insertion order for equal timestamps.
	if len(comments) > 1 {
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].Timestamp.Before(comments[j].Timestamp)
		})
	}

	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      taskProperty{Text: task.Status.Text(), Value: task.Status.Value()},
		Priority:    taskProperty{Text: task.Priority.Text(), Value: task.Priority.Value()},
		Author:      newUserResponse(&task.Author),
		Assignees:   assignees,
		Comments:    comments,
	}
}

func newTaskResponses(tasks []models.Task) []taskResponse {
	responses := make([]taskResponse, len(tasks))
	for i := range tasks {
		responses[i] = newTaskResponse(&tasks[i])
	}
	return responses
}
