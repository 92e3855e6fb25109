package api

import (
	"errors"
	"io"
	"net/url"

	domain "github.com/example/todo-backend/domain/task"
	"github.com/example/todo-backend/modules/task"
	"github.com/gofiber/fiber/v2"
)

// maxAttachmentSize caps attachment uploads at 10 MB.
const maxAttachmentSize = 10 * 1024 * 1024

// parseTaskForm reads the multipart create/update payload. Field presence is
// checked against the parsed form because update semantics distinguish an
// absent completionStatus from an empty one.
func parseTaskForm(c *fiber.Ctx) (task.Input, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return task.Input{}, domain.ErrMissingFields
	}

	formValue := func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}

	in := task.Input{
		Title:            formValue("title"),
		Description:      formValue("description"),
		DueDate:          formValue("dueDate"),
		CompletionDate:   formValue("completionDate"),
		CompletionStatus: formValue("completionStatus"),
	}

	if files := form.File["attachment"]; len(files) > 0 {
		header := files[0]
		if header.Size > maxAttachmentSize {
			return task.Input{}, errors.New("attachment too large")
		}

		file, err := header.Open()
		if err != nil {
			return task.Input{}, err
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize))
		if err != nil {
			return task.Input{}, err
		}

		in.Attachment = &task.Upload{
			Filename:    header.Filename,
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	return in, nil
}

// taskError maps a task service error to an HTTP response. Unknown failures
// collapse into a generic 400 so internal detail never leaks.
func taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrTaskLimit):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDuplicateTitle):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrInvalidDate):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "task operation failed"})
	}
}

// createTask handles POST /task-create/.
func (m *Module) createTask(c *fiber.Ctx) error {
	claims := userClaims(c)

	in, err := parseTaskForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: domain.ErrMissingFields.Error()})
	}

	created, err := m.tasks.Create(c.UserContext(), claims.UserID, in)
	if err != nil {
		return taskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// updateTask handles PUT /task-update/:title/.
func (m *Module) updateTask(c *fiber.Ctx) error {
	claims := userClaims(c)
	title, err := titleParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid title"})
	}

	in, err := parseTaskForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: domain.ErrMissingFields.Error()})
	}

	updated, err := m.tasks.Update(c.UserContext(), claims.UserID, title, in)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(updated)
}

// deleteTask handles DELETE /task-delete/:title/.
func (m *Module) deleteTask(c *fiber.Ctx) error {
	claims := userClaims(c)
	title, err := titleParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid title"})
	}

	if err := m.tasks.Delete(c.UserContext(), claims.UserID, title); err != nil {
		return taskError(c, err)
	}

	return c.JSON(fiber.Map{"success": "delete successful"})
}

// listTasks handles GET /task-list/.
func (m *Module) listTasks(c *fiber.Ctx) error {
	claims := userClaims(c)

	tasks, err := m.tasks.List(c.UserContext(), claims.UserID)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(ListTasksResponse{
		Tasks: tasks,
		Total: len(tasks),
	})
}

// taskDetail handles GET /task-detail/:title/.
func (m *Module) taskDetail(c *fiber.Ctx) error {
	claims := userClaims(c)
	title, err := titleParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid title"})
	}

	t, err := m.tasks.Get(c.UserContext(), claims.UserID, title)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(t)
}

// titleParam extracts the URL-decoded title path parameter. Titles may
// contain spaces, which arrive percent-encoded.
func titleParam(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("title"))
}
