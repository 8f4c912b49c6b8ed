package render

import (
	"bytes"
	"strings"
	"testing"

	"classechat/pkg/models"
	"classechat/pkg/poller"
)

func TestUnreadBadge(t *testing.T) {
	if got := UnreadBadge(0); got != "" {
		t.Fatalf("zero must suppress the badge, got %q", got)
	}
	if got := UnreadBadge(-1); got != "" {
		t.Fatalf("unknown (negative) must suppress the badge, got %q", got)
	}
	if got := UnreadBadge(3); got != " [3 unread]" {
		t.Fatalf("badge = %q", got)
	}
}

func TestFeedNewestAtBottom(t *testing.T) {
	snap := poller.Snapshot{
		State: poller.StateReady,
		Messages: []models.Message{
			{ID: 2, SenderID: 9, SenderName: "Moi", Body: "Ça va?", SentAtRaw: "2026-03-01T10:31:00Z"},
			{ID: 1, SenderID: 4, SenderName: "Alice Diop", Body: "Bonjour", SentAtRaw: "2026-03-01T10:30:00Z"},
		},
	}
	var buf bytes.Buffer
	Feed(&buf, snap, models.Session{UserID: 9}, "Class 12 feed")
	out := buf.String()

	if !strings.Contains(out, "Class 12 feed (2)") {
		t.Fatalf("header missing count: %q", out)
	}
	// Oldest printed first so the newest sits at the bottom.
	first := strings.Index(out, "Bonjour")
	second := strings.Index(out, "Ça va?")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("ordering wrong: %q", out)
	}
	if !strings.Contains(out, "Alice Diop: Bonjour") {
		t.Fatalf("sender attribution missing: %q", out)
	}
	if !strings.Contains(out, "you: Ça va?") {
		t.Fatalf("own messages should read 'you': %q", out)
	}
}

func TestFeedEmptyAndLoading(t *testing.T) {
	var buf bytes.Buffer
	Feed(&buf, poller.Snapshot{State: poller.StateLoading}, models.Session{}, "t")
	if !strings.Contains(buf.String(), "loading") {
		t.Fatalf("loading state: %q", buf.String())
	}

	buf.Reset()
	Feed(&buf, poller.Snapshot{State: poller.StateReady}, models.Session{}, "t")
	if !strings.Contains(buf.String(), "No messages yet") {
		t.Fatalf("empty state: %q", buf.String())
	}
}

func TestFeedShowsLastError(t *testing.T) {
	snap := poller.Snapshot{
		State:    poller.StateReady,
		Messages: []models.Message{{ID: 1, SenderName: "Alice", Body: "Bonjour"}},
		Err:      errTest,
	}
	var buf bytes.Buffer
	Feed(&buf, snap, models.Session{}, "t")
	out := buf.String()
	if !strings.Contains(out, "Bonjour") || !strings.Contains(out, "last refresh failed") {
		t.Fatalf("stale list or error notice missing: %q", out)
	}
}

var errTest = errTestType{}

type errTestType struct{}

func (errTestType) Error() string { return "réseau coupé" }

func TestTitle(t *testing.T) {
	if got := Title(models.ClassKey(12), ""); got != "Class 12 feed" {
		t.Fatalf("class title = %q", got)
	}
	if got := Title(models.PrivateKey(9, 4), "Alice"); got != "Conversation with Alice" {
		t.Fatalf("private title = %q", got)
	}
	if got := Title(models.PrivateKey(9, 4), ""); !strings.Contains(got, "conversation/4/9") {
		t.Fatalf("fallback title = %q", got)
	}
}

func TestContacts(t *testing.T) {
	contacts := []models.Contact{
		{ID: 4, Name: "Alice Diop", Email: "alice@ecole.sn", Role: "professeur"},
		{ID: 2, Name: "Moussa Ba", Email: "moussa@ecole.sn", Role: "etudiant"},
	}
	var buf bytes.Buffer
	Contacts(&buf, contacts, 5)
	out := buf.String()
	if !strings.Contains(out, "[5 unread]") {
		t.Fatalf("badge missing: %q", out)
	}
	if !strings.Contains(out, "2 contact(s)") {
		t.Fatalf("count missing: %q", out)
	}
	if !strings.Contains(out, "alice@ecole.sn") || !strings.Contains(out, "(etudiant)") {
		t.Fatalf("contact fields missing: %q", out)
	}
	// Server order preserved.
	if strings.Index(out, "Alice Diop") > strings.Index(out, "Moussa Ba") {
		t.Fatalf("contacts re-sorted: %q", out)
	}

	buf.Reset()
	Contacts(&buf, nil, 0)
	out = buf.String()
	if strings.Contains(out, "unread") {
		t.Fatalf("zero badge rendered: %q", out)
	}
	if !strings.Contains(out, "No contacts yet") {
		t.Fatalf("empty state missing: %q", out)
	}
}
