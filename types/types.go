package types

import "time"

// API caller roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// An Execution is the audit record of one console command sent on behalf of
// an API caller.
type Execution struct {
	ID        string    `bson:"_id" json:"id"`
	Requester string    `bson:"requester" json:"requester"`
	Role      string    `bson:"role" json:"role"`
	Command   string    `bson:"command" json:"command"`
	Arguments []string  `bson:"arguments" json:"arguments"`
	Success   bool      `bson:"success" json:"success"`
	Error     string    `bson:"error,omitempty" json:"error,omitempty"`
	Duration  string    `bson:"duration" json:"duration"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type RESTError struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
}

type CommonResponse struct {
	Message string `json:"message"`
}
