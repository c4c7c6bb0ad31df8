// internal/domain/models/department.go
package models

import "time"

// Department is the root scoping unit (an age-based ministry division).
// Every department-scoped record carries its id. Departments are never
// deleted once referenced, so there is no delete path anywhere.
type Department struct {
	ID          int    `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	AgeRange    string `bson:"age_range,omitempty" json:"age_range,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
