package models

import "fmt"

// ConversationKey addresses one feed. Exactly one of the class id or the
// user pair is populated, matching the scope. The private pair is stored
// normalized (UserA <= UserB) so both participants derive the same key.
type ConversationKey struct {
	Scope   Scope
	ClassID int64
	UserA   int64
	UserB   int64
}

// ClassKey returns the key for a class's public feed.
func ClassKey(classID int64) ConversationKey {
	return ConversationKey{Scope: ScopePublic, ClassID: classID}
}

// PrivateKey returns the key for the two-party conversation between a and b,
// regardless of argument order.
func PrivateKey(a, b int64) ConversationKey {
	if a > b {
		a, b = b, a
	}
	return ConversationKey{Scope: ScopePrive, UserA: a, UserB: b}
}

// Valid reports whether the key's scope and target agree.
func (k ConversationKey) Valid() bool {
	switch k.Scope {
	case ScopePublic:
		return k.ClassID > 0 && k.UserA == 0 && k.UserB == 0
	case ScopePrive:
		return k.ClassID == 0 && k.UserA > 0 && k.UserB > 0
	}
	return false
}

// Peer returns the other participant of a private key from the point of view
// of userID. Zero when the key is not private or userID is not a member.
func (k ConversationKey) Peer(userID int64) int64 {
	if k.Scope != ScopePrive {
		return 0
	}
	switch userID {
	case k.UserA:
		return k.UserB
	case k.UserB:
		return k.UserA
	}
	return 0
}

func (k ConversationKey) String() string {
	if k.Scope == ScopePublic {
		return fmt.Sprintf("classe/%d", k.ClassID)
	}
	return fmt.Sprintf("conversation/%d/%d", k.UserA, k.UserB)
}
