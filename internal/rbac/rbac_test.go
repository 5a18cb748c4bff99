package rbac

import "testing"

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)
	if !c.Has("user", "session:run") {
		t.Fatalf("user should run sessions")
	}
	if c.Has("user", "bank:create") {
		t.Fatalf("user should not create banks")
	}
	if !c.Has("admin", "bank:create") {
		t.Fatalf("admin wildcard should cover bank:create")
	}
	if c.Has("nobody", "bank:view") {
		t.Fatalf("unknown role granted permission")
	}
}

func TestCheckerPrefixWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{"auditor": {"history:*"}})
	if !c.Has("auditor", "history:view-own") {
		t.Fatalf("prefix wildcard should match")
	}
	if c.Has("auditor", "settings:read") {
		t.Fatalf("prefix wildcard matched unrelated permission")
	}
}

func TestCheckerAny(t *testing.T) {
	c := NewChecker(nil)
	if !c.Any("user", "bank:create", "history:view-own") {
		t.Fatalf("any should pass with one match")
	}
	if c.Any("user", "bank:create", "users:list") {
		t.Fatalf("any passed with no match")
	}
}
