package handlers

import (
	"net/http"
	"strconv"

	dom "todolist/internal/domain"
	"todolist/internal/dto"
	"todolist/internal/logger"

	"github.com/gin-gonic/gin"
)

// Client-facing messages.
const (
	msgServerError   = "Server error."
	msgInvalidID     = "Invalid id."
	msgInvalidDate   = "Invalid date."
	msgInvalidBody   = "Invalid request body."
	msgInvalidQuery  = "Invalid query."
	msgNotFound      = "Not found."
	msgNotDeleted    = "Not found or not deleted."
	msgTodoRequired  = "Title and due date are required."
	msgEmptyTitle    = "Title cannot be empty."
	msgRegisterReq   = "First Name, Last Name, Email, Password, Confirm Password are required."
	msgEmailTaken    = "Email already in use."
	msgPasswordMatch = "Passwords do not match."
	msgLoginRequired = "Email and password are required."
	msgInvalidLogin  = "Invalid email or password."
)

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, dto.MessageResponse{Message: msg})
}

// respondInternal logs err with the request logger and answers a detail-free 500.
func respondInternal(c *gin.Context, err error, op string) {
	logger.FromContext(c).Error().Err(err).Str("op", op).Msg("request failed")
	respondMessage(c, http.StatusInternalServerError, msgServerError)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondMessage(c, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
	}
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	resp := dto.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		UserID:      t.UserID,
		IsDeleted:   t.IsDeleted,
		DeletedAt:   t.DeletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.User != nil {
		resp.User = &dto.OwnerResponse{
			ID:        t.User.ID,
			Email:     t.User.Email,
			Firstname: t.User.Firstname,
			Lastname:  t.User.Lastname,
			CreatedAt: t.User.CreatedAt,
		}
	}
	return resp
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
