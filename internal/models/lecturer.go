package models

type Lecturer struct {
	ID        string  `db:"id" json:"id"`
	Email     string  `db:"email" json:"email"`
	FullName  *string `db:"full_name" json:"full_name,omitempty"`
	Role      string  `db:"role" json:"role"`
	CreatedAt int64   `db:"created_at" json:"created_at"`
}
