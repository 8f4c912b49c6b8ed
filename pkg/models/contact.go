package models

// Contact is a counterpart the current user has exchanged at least one
// private message with. The server owns the set; the client never deletes.
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"nom"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session identifies the acting user. It is threaded explicitly into every
// component instead of being read from ambient state.
type Session struct {
	UserID int64
	Name   string
	Role   string
}
