package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"energy-cli/internal/session"
	"energy-cli/pkg/models"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingNotifier) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingNavigator) Push(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

type harness struct {
	client *EnergyClient
	sess   *session.Store
	notes  *recordingNotifier
	nav    *recordingNavigator
}

func newHarness(t *testing.T, baseURL string) harness {
	t.Helper()
	h := harness{
		sess:  session.New(nil),
		notes: &recordingNotifier{},
		nav:   &recordingNavigator{},
	}
	h.client = New(ClientConfig{BaseURL: baseURL, Timeout: 2 * time.Second}, h.sess,
		WithNotifier(h.notes),
		WithNavigator(h.nav),
	)
	return h
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		t.Errorf("encode envelope: %v", err)
	}
}

func TestSuccessUnwrapsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/admin/building/list" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"code":    1,
			"message": "ok",
			"data": []map[string]any{
				{"id": 1, "name": "Library", "floorCount": 5},
				{"id": 2, "name": "Lab", "usageType": "teaching"},
			},
		})
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	got, err := h.client.ListBuildings(context.Background())
	if err != nil {
		t.Fatalf("ListBuildings: %v", err)
	}

	want := []models.Building{
		{ID: 1, Name: "Library", FloorCount: 5},
		{ID: 2, Name: "Lab", UsageType: "teaching"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("buildings = %#v, want %#v", got, want)
	}
	if msgs := h.notes.Messages(); len(msgs) != 0 {
		t.Fatalf("unexpected notifications: %v", msgs)
	}
}

func TestApplicationErrorNotifiesOnce(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "server message", message: "device not found", want: "device not found"},
		{name: "fallback", message: "", want: MsgServiceError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, http.StatusOK, map[string]any{"code": 0, "message": tt.message, "data": nil})
			}))
			defer srv.Close()

			h := newHarness(t, srv.URL)
			_, err := h.client.EnergyRealtime(context.Background(), 9)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Code != 0 || apiErr.Message != tt.message {
				t.Fatalf("api error = %+v", apiErr)
			}
			if msgs := h.notes.Messages(); !reflect.DeepEqual(msgs, []string{tt.want}) {
				t.Fatalf("notifications = %v, want [%s]", msgs, tt.want)
			}
		})
	}
}

func TestUnauthorizedClearsSessionAndNavigates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A success envelope must not mask the transport status.
		writeEnvelope(t, w, http.StatusUnauthorized, map[string]any{"code": 1, "data": 3})
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	if err := h.sess.Set("expired-token", session.RoleAdmin); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err := h.client.TodayAlarmCount(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if !IsAuthError(err) {
		t.Fatal("IsAuthError = false")
	}

	if st := h.sess.State(); st != (session.State{}) {
		t.Fatalf("session = %+v, want empty", st)
	}
	if !reflect.DeepEqual(h.nav.paths, []string{LoginPath}) {
		t.Fatalf("navigations = %v, want [%s]", h.nav.paths, LoginPath)
	}
	if msgs := h.notes.Messages(); !reflect.DeepEqual(msgs, []string{MsgLoginRequired}) {
		t.Fatalf("notifications = %v", msgs)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	var present []bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		_, ok := r.Header["Authorization"]
		present = append(present, ok)
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		if r.Header.Get(HeaderRequestID) == "" {
			t.Errorf("missing %s header", HeaderRequestID)
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{"code": 1, "data": 0})
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	ctx := context.Background()

	if _, err := h.client.UnhandledAlarmCount(ctx); err != nil {
		t.Fatalf("anonymous call: %v", err)
	}
	if err := h.sess.Set("abc", session.RoleUser); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := h.client.UnhandledAlarmCount(ctx); err != nil {
		t.Fatalf("authorized call: %v", err)
	}
	if _, err := h.client.TodayAlarmCount(ctx); err != nil {
		t.Fatalf("authorized call: %v", err)
	}
	if err := h.sess.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := h.client.UnhandledAlarmCount(ctx); err != nil {
		t.Fatalf("anonymous call: %v", err)
	}

	wantPresent := []bool{false, true, true, false}
	if !reflect.DeepEqual(present, wantPresent) {
		t.Fatalf("header present = %v, want %v", present, wantPresent)
	}
	if seen[1] != "Bearer abc" || seen[2] != "Bearer abc" {
		t.Fatalf("authorization = %q", seen)
	}
}

func TestTransportFailureNotifiesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	h := newHarness(t, url)
	_, err := h.client.ListDevices(context.Background())

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if transportErr.Status != 0 {
		t.Fatalf("status = %d, want 0", transportErr.Status)
	}
	if msgs := h.notes.Messages(); !reflect.DeepEqual(msgs, []string{MsgServiceError}) {
		t.Fatalf("notifications = %v", msgs)
	}
	if len(h.nav.paths) != 0 {
		t.Fatalf("unexpected navigation %v", h.nav.paths)
	}
}

func TestServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	_, err := h.client.EnergyOverview(context.Background())

	var transportErr *TransportError
	if !errors.As(err, &transportErr) || transportErr.Status != http.StatusInternalServerError {
		t.Fatalf("err = %v, want *TransportError with status 500", err)
	}
	if msgs := h.notes.Messages(); !reflect.DeepEqual(msgs, []string{MsgServiceError}) {
		t.Fatalf("notifications = %v", msgs)
	}
}

func TestTimeoutWhileReadingBodyNotifiesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"code":1,"data":`)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer srv.Close()

	sess := session.New(nil)
	notes := &recordingNotifier{}
	c := New(ClientConfig{BaseURL: srv.URL, Timeout: 300 * time.Millisecond}, sess, WithNotifier(notes))

	_, err := c.EnergyOverview(context.Background())

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if msgs := notes.Messages(); !reflect.DeepEqual(msgs, []string{MsgServiceError}) {
		t.Fatalf("notifications = %v, want one %q", msgs, MsgServiceError)
	}
}

func TestPayloadTypeMismatchNotifiesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{"code": 1, "data": "three"})
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	_, err := h.client.UnhandledAlarmCount(context.Background())

	var transportErr *TransportError
	if !errors.As(err, &transportErr) || transportErr.Status != http.StatusOK {
		t.Fatalf("err = %v, want *TransportError with status 200", err)
	}
	if msgs := h.notes.Messages(); !reflect.DeepEqual(msgs, []string{MsgServiceError}) {
		t.Fatalf("notifications = %v", msgs)
	}
}

func TestLoginStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var form models.LoginForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			t.Errorf("decode login form: %v", err)
		}
		if r.URL.Path != "/user/user/login" || form.Username != "admin" || form.Password != "secret" {
			t.Errorf("unexpected login request %s %+v", r.URL.Path, form)
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"code": 1,
			"data": map[string]any{"token": "tok-1", "role": 1},
		})
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	res, err := h.client.Login(context.Background(), models.LoginForm{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "tok-1" {
		t.Fatalf("token = %q", res.Token)
	}
	if st := h.sess.State(); st.Token != "tok-1" || st.Role != session.RoleAdmin {
		t.Fatalf("session = %+v", st)
	}

	if err := h.client.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if h.sess.LoggedIn() {
		t.Fatal("still logged in after Logout")
	}
}

func TestLoginWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{"code": 1, "data": map[string]any{"role": 2}})
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	if _, err := h.client.Login(context.Background(), models.LoginForm{Username: "u"}); err == nil {
		t.Fatal("expected error for empty token")
	}
	if h.sess.LoggedIn() {
		t.Fatal("session set without token")
	}
}

func TestRequestShapes(t *testing.T) {
	type captured struct {
		method string
		path   string
		query  map[string]string
		body   string
	}

	tests := []struct {
		name string
		call func(*EnergyClient) error
		want captured
	}{
		{
			name: "all alarms",
			call: func(c *EnergyClient) error { _, err := c.ListAlarms(context.Background(), 0); return err },
			want: captured{method: http.MethodGet, path: "/user/alarm/list", query: map[string]string{}},
		},
		{
			name: "device alarms",
			call: func(c *EnergyClient) error { _, err := c.ListAlarms(context.Background(), 7); return err },
			want: captured{method: http.MethodGet, path: "/user/alarm/list", query: map[string]string{"deviceId": "7"}},
		},
		{
			name: "handle alarm",
			call: func(c *EnergyClient) error { return c.HandleAlarm(context.Background(), 3) },
			want: captured{method: http.MethodPost, path: "/user/alarm/handle", query: map[string]string{"alarmId": "3"}},
		},
		{
			name: "delete building",
			call: func(c *EnergyClient) error { return c.DeleteBuilding(context.Background(), 12) },
			want: captured{method: http.MethodPost, path: "/admin/building/delete", query: map[string]string{"id": "12"}},
		},
		{
			name: "delete device",
			call: func(c *EnergyClient) error { return c.DeleteDevice(context.Background(), 4) },
			want: captured{method: http.MethodPost, path: "/admin/device/delete", query: map[string]string{"id": "4"}},
		},
		{
			name: "device status",
			call: func(c *EnergyClient) error {
				return c.ChangeDeviceStatus(context.Background(), 4, models.DeviceDisabled)
			},
			want: captured{method: http.MethodPost, path: "/admin/device/status", query: map[string]string{}, body: `{"id":4,"status":2}`},
		},
		{
			name: "energy list filters",
			call: func(c *EnergyClient) error {
				_, err := c.ListEnergy(context.Background(), models.EnergyQuery{DeviceID: 2, StartTime: "2024-01-01 00:00:00"})
				return err
			},
			want: captured{method: http.MethodGet, path: "/user/energy/list", query: map[string]string{"deviceId": "2", "startTime": "2024-01-01 00:00:00"}},
		},
		{
			name: "statistics",
			call: func(c *EnergyClient) error {
				_, err := c.EnergyStatistics(context.Background(), 0, "month")
				return err
			},
			want: captured{method: http.MethodGet, path: "/user/energy/statistics", query: map[string]string{"type": "month"}},
		},
		{
			name: "realtime",
			call: func(c *EnergyClient) error { _, err := c.EnergyRealtime(context.Background(), 5); return err },
			want: captured{method: http.MethodGet, path: "/user/energy/realtime", query: map[string]string{"deviceId": "5"}},
		},
		{
			name: "report",
			call: func(c *EnergyClient) error {
				return c.ReportEnergy(context.Background(), models.EnergyReport{DeviceID: 1, Voltage: 220, CollectTime: "t"})
			},
			want: captured{
				method: http.MethodPost, path: "/user/energy/report", query: map[string]string{},
				body: `{"deviceId":1,"voltage":220,"current":0,"power":0,"totalEnergy":0,"collectTime":"t"}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got captured
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				got = captured{method: r.Method, path: r.URL.Path, query: map[string]string{}, body: string(body)}
				for k := range r.URL.Query() {
					got.query[k] = r.URL.Query().Get(k)
				}
				writeEnvelope(t, w, http.StatusOK, map[string]any{"code": 1, "data": nil})
			}))
			defer srv.Close()

			h := newHarness(t, srv.URL)
			if err := tt.call(h.client); err != nil {
				t.Fatalf("call: %v", err)
			}
			if got.method != tt.want.method || got.path != tt.want.path || !reflect.DeepEqual(got.query, tt.want.query) {
				t.Fatalf("request = %+v, want %+v", got, tt.want)
			}
			if tt.want.body != "" {
				if !jsonEqual(t, got.body, tt.want.body) {
					t.Fatalf("body = %s, want %s", got.body, tt.want.body)
				}
			} else if tt.want.method == http.MethodPost && got.body != "" {
				t.Fatalf("body = %q, want empty", got.body)
			}
		})
	}
}

func TestAlarmCountByType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{"code": 1, "data": map[string]int{"1": 3, "2": 5}})
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	got, err := h.client.AlarmCountByType(context.Background())
	if err != nil {
		t.Fatalf("AlarmCountByType: %v", err)
	}
	if want := map[int]int{1: 3, 2: 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("counts = %v, want %v", got, want)
	}
}

func TestDeviceBuildingIDAcceptsStringOrNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"code":1,"data":[{"id":1,"buildingId":"3","status":1},{"id":2,"buildingId":4,"status":2}]}`)
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	devices, err := h.client.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 2 || devices[0].BuildingID.String() != "3" || devices[1].BuildingID.String() != "4" {
		t.Fatalf("devices = %+v", devices)
	}
	if devices[1].Status != models.DeviceDisabled {
		t.Fatalf("status = %v", devices[1].Status)
	}
}

func jsonEqual(t *testing.T, a, b string) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal([]byte(a), &va); err != nil {
		t.Fatalf("decode %s: %v", a, err)
	}
	if err := json.Unmarshal([]byte(b), &vb); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return reflect.DeepEqual(va, vb)
}
