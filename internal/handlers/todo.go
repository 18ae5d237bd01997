package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"todolist/internal/auth"
	dom "todolist/internal/domain"
	"todolist/internal/dto"
	"todolist/internal/repo"
	"todolist/internal/service"
	"todolist/internal/utils"

	"github.com/gin-gonic/gin"
)

// TodoService is what TodoHandler needs from service.TodoService.
type TodoService interface {
	Create(ctx context.Context, userID int64, in service.CreateTodoInput) (dom.Todo, error)
	List(ctx context.Context, userID int64, f repo.TodoFilter) ([]dom.Todo, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Todo, error)
	Update(ctx context.Context, userID, id int64, in service.UpdateTodoInput) (dom.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
	Restore(ctx context.Context, userID, id int64) (dom.Todo, error)
}

type TodoHandler struct {
	svc TodoService
}

func NewTodoHandler(svc TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, utils.ErrInvalidDate) {
			respondMessage(c, http.StatusBadRequest, msgInvalidDate)
			return
		}
		respondMessage(c, http.StatusBadRequest, msgTodoRequired)
		return
	}

	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Ptr(),
		Status:      string(req.Status),
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			respondMessage(c, http.StatusBadRequest, msgTodoRequired)
			return
		}
		respondInternal(c, err, "create todo")
		return
	}

	c.JSON(http.StatusCreated, todoToResponse(t))
}

// List godoc
// @Summary      List the caller's todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Exact status (upper-cased)"
// @Param        search  query     string  false  "Substring of title or description, case-insensitive"
// @Param        sortBy  query     string  false  "createdAt, updatedAt, dueDate, title or status"
// @Param        order   query     string  false  "asc or desc (default)"
// @Param        from    query     string  false  "Earliest due date, inclusive"
// @Param        to      query     string  false  "Latest due date, inclusive"
// @Success      200     {array}   dto.TodoResponse
// @Failure      400     {object}  dto.MessageResponse
// @Failure      401     {object}  dto.MessageResponse
// @Failure      500     {object}  dto.MessageResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	var q dto.ListTodosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidQuery)
		return
	}
	filter, err := service.ListQuery{
		Status: q.Status,
		Search: q.Search,
		SortBy: q.SortBy,
		Order:  q.Order,
		From:   q.From,
		To:     q.To,
	}.Filter()
	if err != nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidDate)
		return
	}

	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), filter)
	if err != nil {
		respondInternal(c, err, "list todos")
		return
	}
	c.JSON(http.StatusOK, todosToResponses(list))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, msgNotFound)
			return
		}
		respondInternal(c, err, "get todo")
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Update godoc
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Fields to change"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, utils.ErrInvalidDate) {
			respondMessage(c, http.StatusBadRequest, msgInvalidDate)
			return
		}
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Ptr(),
		Status:      req.Status.Ptr(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondMessage(c, http.StatusNotFound, msgNotFound)
		case errors.Is(err, service.ErrEmptyTitle):
			respondMessage(c, http.StatusBadRequest, msgEmptyTitle)
		default:
			respondInternal(c, err, "update todo")
		}
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Soft-delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, msgNotFound)
			return
		}
		respondInternal(c, err, "delete todo")
		return
	}
	respondMessage(c, http.StatusOK, fmt.Sprintf("Todo list id %d has been deleted.", id))
}

// Restore godoc
// @Summary      Restore a soft-deleted todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /todos/{id}/restore [post]
func (h *TodoHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Restore(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, msgNotDeleted)
			return
		}
		respondInternal(c, err, "restore todo")
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}
