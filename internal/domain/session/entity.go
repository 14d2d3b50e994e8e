package session

import "time"

// Session is the single active device session of one employee. Only a hash of the
// device token is stored; employee_id is unique so a new login overwrites the row.
type Session struct {
	EmployeeID string
	TokenHash  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
