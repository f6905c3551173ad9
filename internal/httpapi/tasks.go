package httpapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/service"
)

// dateOnly is the calendar date layout accepted besides RFC 3339.
const dateOnly = "2006-01-02"

// taskPayload is the request body of create and update.
// Absent and null fields are left unset.
type taskPayload struct {
	Title       service.Optional[string]           `json:"title"`
	Description service.Optional[string]           `json:"description"`
	Priority    service.Optional[service.Priority] `json:"priority"`
	Category    service.Optional[string]           `json:"category"`
	Date        service.Optional[string]           `json:"date"`
	Completed   service.Optional[bool]             `json:"completed"`
}

// input converts the payload, parsing the date.
func (p taskPayload) input() (service.TaskInput, error) {
	in := service.TaskInput{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Category:    p.Category,
		Completed:   p.Completed,
	}
	if raw, ok := p.Date.Get(); ok && raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return service.TaskInput{}, err
		}
		in.Date = service.Some(date)
	}
	return in, nil
}

// parseDate accepts RFC 3339 timestamps and YYYY-MM-DD dates (midnight UTC).
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", service.ErrInvalidTask, raw)
}

// parseFilter reads the list filter from the query string.
func parseFilter(c *fiber.Ctx) (service.ListFilter, error) {
	var f service.ListFilter

	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("invalid completed filter %q", raw)
		}
		f.Completed = &completed
	}
	if raw := c.Query("priority"); raw != "" {
		f.Priority = service.Priority(strings.ToLower(raw))
		if !f.Priority.Valid() {
			return f, fmt.Errorf("invalid priority filter %q", raw)
		}
	}
	f.Category = c.Query("category")
	f.Search = strings.TrimSpace(c.Query("q"))

	for _, bound := range []struct {
		key string
		dst *time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := c.Query(bound.key)
		if raw == "" {
			continue
		}
		t, err := parseDate(raw)
		if err != nil {
			return f, fmt.Errorf("invalid %s filter %q", bound.key, raw)
		}
		*bound.dst = t
	}
	return f, nil
}

func (s *Server) handleListTasks(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	tasks, err := s.tasks.ListTasks(ctx, principal(c), filter)
	if err != nil {
		return s.taskError(c, err, "Error fetching tasks")
	}
	return c.JSON(tasks)
}

func (s *Server) handleGetTask(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	task, err := s.tasks.GetTask(ctx, principal(c), c.Params("id"))
	if err != nil {
		return s.taskError(c, err, "Error fetching task")
	}
	return c.JSON(task)
}

func (s *Server) handleCreateTask(c *fiber.Ctx) error {
	var body taskPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	in, err := body.input()
	if err != nil {
		return s.taskError(c, err, "Error creating task")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	task, err := s.tasks.CreateTask(ctx, principal(c), in)
	if err != nil {
		return s.taskError(c, err, "Error creating task")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) handleUpdateTask(c *fiber.Ctx) error {
	var body taskPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	in, err := body.input()
	if err != nil {
		return s.taskError(c, err, "Error updating task")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	task, err := s.tasks.UpdateTask(ctx, principal(c), c.Params("id"), in)
	if err != nil {
		return s.taskError(c, err, "Error updating task")
	}
	return c.JSON(task)
}

func (s *Server) handleDeleteTask(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	task, err := s.tasks.DeleteTask(ctx, principal(c), c.Params("id"))
	if err != nil {
		return s.taskError(c, err, "Error deleting task")
	}
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
		"task":    task,
	})
}

func (s *Server) handleToggleTask(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	task, err := s.tasks.ToggleTask(ctx, principal(c), c.Params("id"))
	if err != nil {
		return s.taskError(c, err, "Error toggling task")
	}
	return c.JSON(task)
}
