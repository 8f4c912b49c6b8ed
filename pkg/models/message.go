package models

import "time"

// Scope says whether a message belongs to a class feed or to a two-party
// private conversation.
type Scope string

const (
	ScopePublic Scope = "public"
	ScopePrive  Scope = "prive"
)

func (s Scope) Valid() bool {
	return s == ScopePublic || s == ScopePrive
}

// Message mirrors the API wire format. Field names on the wire are French;
// the struct keeps English names for callers.
type Message struct {
	ID          int64  `json:"id"`
	SenderID    int64  `json:"expediteur_id"`
	SenderName  string `json:"expediteur_nom"`
	SenderRole  string `json:"expediteur_role"`
	Body        string `json:"contenu"`
	Scope       Scope  `json:"type_message"`
	ClassID     int64  `json:"classe_id,omitempty"`
	RecipientID int64  `json:"destinataire_id,omitempty"`
	SentAtRaw   string `json:"date_envoi"`
	Read        bool   `json:"lu"`
}

// sentAtLayouts are the timestamp formats observed from the API; RFC3339
// first, then the SQL-style layout older rows use.
var sentAtLayouts = []string{time.RFC3339, "2006-01-02 15:04:05"}

// SentAt parses the server-assigned timestamp. A zero time is returned when
// the raw value does not match any known layout.
func (m Message) SentAt() time.Time {
	for _, layout := range sentAtLayouts {
		if t, err := time.Parse(layout, m.SentAtRaw); err == nil {
			return t
		}
	}
	return time.Time{}
}
