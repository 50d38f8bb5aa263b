package types

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID          string     `db:"id"`
	Email       *string    `db:"email"`
	GivenName   *string    `db:"given_name"`
	FamilyName  *string    `db:"family_name"`
	Role        *string    `db:"role"`
	CompanyName *string    `db:"company_name"`
	Phone       *string    `db:"phone"`
	City        *string    `db:"city"`
	SubmittedAt *time.Time `db:"submitted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
