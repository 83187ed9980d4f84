package models

import "time"

type Professor struct {
	ID        int64     `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (p Professor) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// CREATE TABLE tutoring.professors (
//     id SERIAL PRIMARY KEY,
//     first_name TEXT NOT NULL,
//     last_name TEXT NOT NULL,
//     email TEXT,
//     phone TEXT,
//     created_at TIMESTAMPTZ NOT NULL DEFAULT now()
// );
