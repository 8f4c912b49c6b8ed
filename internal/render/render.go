// Package render writes feeds and contact lists to a terminal.
package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"classechat/pkg/models"
	"classechat/pkg/poller"
)

// Title names a conversation the way the original screens do: class feed
// vs. conversation with a named person.
func Title(key models.ConversationKey, peerName string) string {
	if key.Scope == models.ScopePublic {
		return fmt.Sprintf("Class %d feed", key.ClassID)
	}
	if peerName != "" {
		return "Conversation with " + peerName
	}
	return "Conversation " + key.String()
}

// Feed prints a snapshot, oldest message first so the newest one sits at
// the bottom of the terminal (the focus point).
func Feed(w io.Writer, snap poller.Snapshot, sess models.Session, title string) {
	fmt.Fprintf(w, "== %s (%d) ==\n", title, len(snap.Messages))
	if snap.State == poller.StateLoading {
		fmt.Fprintln(w, "loading messages...")
		return
	}
	if len(snap.Messages) == 0 {
		fmt.Fprintln(w, "No messages yet. Be the first to write one.")
	}
	for i := len(snap.Messages) - 1; i >= 0; i-- {
		m := snap.Messages[i]
		name := m.SenderName
		if m.SenderID == sess.UserID {
			name = "you"
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", sentAt(m), name, m.Body)
	}
	if snap.Err != nil {
		fmt.Fprintf(w, "! last refresh failed: %v\n", snap.Err)
	}
}

func sentAt(m models.Message) string {
	t := m.SentAt()
	if t.IsZero() {
		return m.SentAtRaw
	}
	return humanize.Time(t)
}

// UnreadBadge renders the unread counter. Zero (or unknown, reported as
// zero) suppresses the badge entirely.
func UnreadBadge(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf(" [%d unread]", n)
}

// Contacts prints the private-messaging contacts screen.
func Contacts(w io.Writer, contacts []models.Contact, unread int) {
	fmt.Fprintf(w, "Contacts%s\n", UnreadBadge(unread))
	fmt.Fprintf(w, "%d contact(s)\n", len(contacts))
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts yet. Start a conversation to see them here.")
		return
	}
	for _, c := range contacts {
		fmt.Fprintf(w, "  %-4d %s <%s> (%s)\n", c.ID, c.Name, c.Email, c.Role)
	}
}
