package repo

import (
	"context"
	"time"

	dom "todolist/internal/domain"

	"gorm.io/gorm"
)

// Every method is scoped by owner; a todo of another user behaves as absent.
// Absence is reported as gorm.ErrRecordNotFound.
type TodoRepo interface {
	Create(ctx context.Context, t *dom.Todo) error
	List(ctx context.Context, userID int64, f TodoFilter) ([]dom.Todo, error)
	GetActive(ctx context.Context, userID, id int64) (dom.Todo, error)
	GetDeleted(ctx context.Context, userID, id int64) (dom.Todo, error)
	Update(ctx context.Context, t *dom.Todo) error
	SoftDelete(ctx context.Context, userID, id int64, at time.Time) error
	Restore(ctx context.Context, userID, id int64) error
}

// ownerColumns are the public user fields embedded in todo responses.
var ownerColumns = []string{"id", "email", "firstname", "lastname", "created_at"}

type GormTodoRepo struct {
	db *gorm.DB
}

func NewGormTodoRepo(db *gorm.DB) *GormTodoRepo {
	return &GormTodoRepo{db: db}
}

func (r *GormTodoRepo) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User", func(q *gorm.DB) *gorm.DB {
		return q.Select(ownerColumns)
	})
}

func (r *GormTodoRepo) Create(ctx context.Context, t *dom.Todo) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(t).Error; err != nil {
		return err
	}
	var owner dom.User
	if err := r.db.WithContext(ctx).Select(ownerColumns).First(&owner, t.UserID).Error; err != nil {
		return err
	}
	t.User = &owner
	return nil
}

func (r *GormTodoRepo) List(ctx context.Context, userID int64, f TodoFilter) ([]dom.Todo, error) {
	q := r.withOwner(ctx).Where("user_id = ? AND is_deleted = ?", userID, false)
	list := make([]dom.Todo, 0)
	err := f.apply(q).Find(&list).Error
	return list, err
}

func (r *GormTodoRepo) GetActive(ctx context.Context, userID, id int64) (dom.Todo, error) {
	return r.get(ctx, userID, id, false)
}

func (r *GormTodoRepo) GetDeleted(ctx context.Context, userID, id int64) (dom.Todo, error) {
	return r.get(ctx, userID, id, true)
}

func (r *GormTodoRepo) get(ctx context.Context, userID, id int64, deleted bool) (dom.Todo, error) {
	var t dom.Todo
	err := r.withOwner(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, deleted).
		First(&t).Error
	return t, err
}

// Update writes the mutable fields of t and refreshes t.UpdatedAt.
func (r *GormTodoRepo) Update(ctx context.Context, t *dom.Todo) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&dom.Todo{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", t.ID, t.UserID, false).
		Updates(map[string]interface{}{
			"title":       t.Title,
			"description": t.Description,
			"due_date":    t.DueDate,
			"status":      t.Status,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	t.UpdatedAt = now
	return nil
}

func (r *GormTodoRepo) SoftDelete(ctx context.Context, userID, id int64, at time.Time) error {
	return r.setDeleted(ctx, userID, id, false, map[string]interface{}{
		"is_deleted": true,
		"deleted_at": at,
		"updated_at": at,
	})
}

func (r *GormTodoRepo) Restore(ctx context.Context, userID, id int64) error {
	return r.setDeleted(ctx, userID, id, true, map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"updated_at": time.Now().UTC(),
	})
}

func (r *GormTodoRepo) setDeleted(ctx context.Context, userID, id int64, current bool, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&dom.Todo{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, current).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
