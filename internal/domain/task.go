package domain

// Task is a to-do item stored in the tasks table.
type Task struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"type:text;not null" json:"title"`
	Description *string `gorm:"type:text" json:"description"`
	Done        bool    `gorm:"not null;default:false" json:"done"`
}

// TaskPatch is a partial update. Omitted fields keep their stored value.
type TaskPatch struct {
	Title       Field[string]
	Description Field[string]
	Done        Field[bool]
}

// IsEmpty reports whether no field of the patch was supplied.
func (p TaskPatch) IsEmpty() bool {
	return p.Title.IsOmitted() && p.Description.IsOmitted() && p.Done.IsOmitted()
}
