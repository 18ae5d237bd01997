package domain

import "time"

// TodoStatus is the lifecycle state of a todo.
type TodoStatus string

const (
	StatusTodo       TodoStatus = "TODO"
	StatusInProgress TodoStatus = "IN_PROGRESS"
	StatusDone       TodoStatus = "DONE"
)

// Statuses lists every recognized status, in workflow order.
var Statuses = []TodoStatus{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is a recognized status. Matching is exact.
func (s TodoStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus returns the status named by raw if it is recognized.
func ParseStatus(raw string) (TodoStatus, bool) {
	s := TodoStatus(raw)
	return s, s.Valid()
}

// Domain entity: the todo as persisted.
// Ownership (UserID) never changes after creation.
type Todo struct {
	ID          int64      `gorm:"primaryKey"`
	Title       string     `gorm:"not null"`
	Description *string
	DueDate     time.Time  `gorm:"not null"`
	Status      TodoStatus `gorm:"type:varchar(16);not null;default:TODO"`
	UserID      int64      `gorm:"not null;index"`
	User        *User      `gorm:"foreignKey:UserID"`
	IsDeleted   bool       `gorm:"not null;default:false"`
	DeletedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
