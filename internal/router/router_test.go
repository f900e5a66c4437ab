package router

import (
	"errors"
	"testing"

	"energy-cli/internal/session"
)

func TestGuardWithoutToken(t *testing.T) {
	r := New(session.New(nil), nil)

	for _, path := range []string{"/", "/dashboard", "/buildings", "/devices", "/energy", "/alarms", "/stats", "/nowhere"} {
		rt, err := r.Navigate(path)
		if err != nil {
			t.Fatalf("Navigate(%s): %v", path, err)
		}
		if rt.Path != LoginPath {
			t.Errorf("Navigate(%s) = %s, want %s", path, rt.Path, LoginPath)
		}
	}

	rt, err := r.Navigate(LoginPath)
	if err != nil || rt.Path != LoginPath {
		t.Fatalf("Navigate(/login) = %v, %v", rt.Path, err)
	}
}

func TestGuardWithToken(t *testing.T) {
	s := session.New(nil)
	if err := s.Set("tok", session.RoleUser); err != nil {
		t.Fatal(err)
	}
	r := New(s, nil)

	tests := map[string]string{
		"/alarms":   "/alarms",
		"stats":     "/stats",
		"/devices/": "/devices",
		"/":         "/dashboard",
		"/login":    "/login",
	}
	for in, want := range tests {
		rt, err := r.Navigate(in)
		if err != nil {
			t.Fatalf("Navigate(%s): %v", in, err)
		}
		if rt.Path != want {
			t.Errorf("Navigate(%s) = %s, want %s", in, rt.Path, want)
		}
		if r.Current() != want {
			t.Errorf("Current() = %s, want %s", r.Current(), want)
		}
	}

	if _, err := r.Navigate("/nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Navigate(/nowhere) err = %v, want ErrNotFound", err)
	}
}

func TestPushNotifiesListeners(t *testing.T) {
	s := session.New(nil)
	_ = s.Set("tok", session.RoleAdmin)
	r := New(s, nil)
	r.Push("/energy")

	var seen [][2]string
	r.OnNavigate(func(from, to string) { seen = append(seen, [2]string{from, to}) })

	_ = s.Clear()
	r.Push(LoginPath)

	if len(seen) != 1 || seen[0] != [2]string{"/energy", LoginPath} {
		t.Fatalf("navigations = %v", seen)
	}
}

func TestRedirectLoop(t *testing.T) {
	s := session.New(nil)
	_ = s.Set("tok", session.RoleUser)
	r := New(s, []Route{
		{Path: "/a", Redirect: "/b"},
		{Path: "/b", Redirect: "/a"},
	})
	if _, err := r.Resolve("/a"); err == nil {
		t.Fatal("expected redirect loop error")
	}
}

func TestByCommand(t *testing.T) {
	r := New(session.New(nil), nil)
	rt, ok := r.ByCommand("buildings")
	if !ok || rt.Path != "/buildings" || !rt.AdminOnly {
		t.Fatalf("ByCommand(buildings) = %+v, %v", rt, ok)
	}
	if _, ok := r.ByCommand(""); ok {
		t.Fatal("empty command matched the layout route")
	}
	if got := len(r.Routes()); got != len(DefaultRoutes) {
		t.Fatalf("Routes() len = %d", got)
	}
}
