package core

import (
	"errors"
	"testing"
)

func TestErrorKindMatching(t *testing.T) {
	t.Parallel()
	err := Errorf(CapacityExhausted, "no free node ids")
	if !Is(err, CapacityExhausted) {
		t.Errorf("Is(err, CapacityExhausted) = false, want true")
	}
	if Is(err, DuplicateUid) {
		t.Errorf("Is(err, DuplicateUid) = true, want false")
	}

	wrapped := Wrap(InvalidPersistence, errors.New("short read"), "loading %s", "net.ndnarchive")
	if !Is(wrapped, InvalidPersistence) {
		t.Errorf("Is(wrapped, InvalidPersistence) = false, want true")
	}
	if !errors.Is(wrapped, wrapped.Cause) {
		t.Errorf("wrapped cause should unwrap")
	}
}

func TestNodeUidRoundtrip(t *testing.T) {
	t.Parallel()
	id := NodeId(42)
	uid := NodeUid(id)
	if uid != "n42" {
		t.Errorf("NodeUid(42) = %q, want %q", uid, "n42")
	}
	got, ok := ParseNodeUid(uid)
	if !ok || got != id {
		t.Errorf("ParseNodeUid(%q) = (%d, %v), want (%d, true)", uid, got, ok, id)
	}
	if _, ok := ParseNodeUid("s42"); ok {
		t.Errorf("ParseNodeUid should reject nodespace uids")
	}
}

func TestNodespaceUidRoundtrip(t *testing.T) {
	t.Parallel()
	uid := NodespaceUid(Root)
	if uid != "s1" {
		t.Errorf("NodespaceUid(Root) = %q, want %q", uid, "s1")
	}
	got, ok := ParseNodespaceUid(uid)
	if !ok || got != Root {
		t.Errorf("ParseNodespaceUid(%q) = (%d, %v), want (%d, true)", uid, got, ok, Root)
	}
}

func TestLinkUid(t *testing.T) {
	t.Parallel()
	uid := LinkUid(1, "gen", 2, "gen")
	want := "n1:gen:n2:gen"
	if uid != want {
		t.Errorf("LinkUid = %q, want %q", uid, want)
	}
}
