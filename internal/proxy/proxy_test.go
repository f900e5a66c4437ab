package proxy

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestProxyStripsPrefix(t *testing.T) {
	var gotPath, gotQuery, gotHost, gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotHost, gotAuth = r.URL.Path, r.URL.RawQuery, r.Host, r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"code":1}`)
	}))
	defer backend.Close()

	var logs bytes.Buffer
	h, err := NewHandler(backend.URL, DefaultPrefix, &logs)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	front := httptest.NewServer(h)
	defer front.Close()

	req, _ := http.NewRequest(http.MethodGet, front.URL+"/api/user/alarm/list?deviceId=3", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK || string(body) != `{"code":1}` {
		t.Fatalf("response = %d %s", resp.StatusCode, body)
	}
	if gotPath != "/user/alarm/list" || gotQuery != "deviceId=3" {
		t.Fatalf("backend saw %s?%s", gotPath, gotQuery)
	}
	u, _ := url.Parse(backend.URL)
	if gotHost != u.Host {
		t.Fatalf("host = %s, want %s", gotHost, u.Host)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	// Close waits for the in-flight request, so the access log line is written.
	front.Close()
	if !strings.Contains(logs.String(), "/api/user/alarm/list") {
		t.Fatalf("access log missing request: %q", logs.String())
	}
}

func TestProxyIgnoresOtherPaths(t *testing.T) {
	h, err := NewHandler("http://127.0.0.1:1", DefaultPrefix, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewHandlerRejectsRelativeTarget(t *testing.T) {
	if _, err := NewHandler("localhost:8080/x", DefaultPrefix, io.Discard); err == nil {
		t.Fatal("expected error")
	}
}
