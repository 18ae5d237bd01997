package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"todolist/internal/cache"
	dom "todolist/internal/domain"
	"todolist/internal/repo"
	"todolist/internal/utils"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrEmptyTitle  = errors.New("title cannot be empty")
	ErrInvalidDate = utils.ErrInvalidDate
)

// CreateTodoInput is the payload of a todo creation. DueDate is required.
type CreateTodoInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Status      string
}

// UpdateTodoInput carries optional replacements; nil keeps the current value.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *string
}

// ListQuery is the raw list query as received.
type ListQuery struct {
	Status string
	Search string
	SortBy string
	Order  string
	From   string
	To     string
}

// Filter validates q and builds the repository filter.
func (q ListQuery) Filter() (repo.TodoFilter, error) {
	f := repo.TodoFilter{
		Status: strings.ToUpper(q.Status),
		Search: strings.ToLower(q.Search),
		SortBy: repo.ParseSortField(q.SortBy),
		Desc:   q.Order != "asc",
	}
	if q.From != "" {
		from, err := utils.ParseDate(q.From)
		if err != nil {
			return repo.TodoFilter{}, fmt.Errorf("from: %w", err)
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := utils.ParseDate(q.To)
		if err != nil {
			return repo.TodoFilter{}, fmt.Errorf("to: %w", err)
		}
		f.To = &to
	}
	return f, nil
}

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
	log   zerolog.Logger
	now   func() time.Time
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache, log zerolog.Logger) *TodoService {
	return &TodoService{repo: r, cache: c, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *TodoService) Create(ctx context.Context, userID int64, in CreateTodoInput) (dom.Todo, error) {
	if in.Title == "" || in.DueDate == nil {
		return dom.Todo{}, ErrMissingFields
	}
	status, ok := dom.ParseStatus(in.Status)
	if !ok {
		status = dom.StatusTodo
	}
	t := dom.Todo{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate.UTC(),
		Status:      status,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, &t); err != nil {
		return dom.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TodoService) List(ctx context.Context, userID int64, f repo.TodoFilter) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.repo.List(ctx, userID, f)
	}
	// generation is read before the store so a concurrent write makes our result unreachable
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("todo cache read failed")
		return s.repo.List(ctx, userID, f)
	}
	filterKey := f.CacheKey()
	key := "list:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10) + ":" + filterKey
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, userID, gen, filterKey); err == nil && list != nil {
			return list, nil
		} else if err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("todo cache read failed")
		}
		list, err := s.repo.List(ctx, userID, f)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetList(ctx, userID, gen, filterKey, list); err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("todo cache write failed")
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

func (s *TodoService) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.GetActive(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, notFound(err)
	}
	return t, nil
}

// Update applies the provided fields to an active todo of userID.
// Unrecognized statuses are ignored; an explicit empty title is rejected.
func (s *TodoService) Update(ctx context.Context, userID, id int64, in UpdateTodoInput) (dom.Todo, error) {
	if in.Title != nil && *in.Title == "" {
		return dom.Todo{}, ErrEmptyTitle
	}
	t, err := s.repo.GetActive(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, notFound(err)
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate.UTC()
	}
	if in.Status != nil {
		if status, ok := dom.ParseStatus(*in.Status); ok {
			t.Status = status
		}
	}
	if err := s.repo.Update(ctx, &t); err != nil {
		return dom.Todo{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.SoftDelete(ctx, userID, id, s.now()); err != nil {
		return notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TodoService) Restore(ctx context.Context, userID, id int64) (dom.Todo, error) {
	if err := s.repo.Restore(ctx, userID, id); err != nil {
		return dom.Todo{}, notFound(err)
	}
	s.invalidateCache(ctx, userID)
	return s.GetByID(ctx, userID, id)
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("todo cache invalidation failed")
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
