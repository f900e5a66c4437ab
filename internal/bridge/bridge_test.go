package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"energy-cli/pkg/models"
)

type fakeReporter struct {
	got []models.EnergyReport
	err error
}

func (f *fakeReporter) ReportEnergy(_ context.Context, r models.EnergyReport) error {
	f.got = append(f.got, r)
	return f.err
}

func TestHandle(t *testing.T) {
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name    string
		topic   string
		payload string
		want    models.EnergyReport
		wantErr bool
	}{
		{
			name:    "complete reading",
			topic:   "energy/1/reading",
			payload: `{"deviceId":9,"voltage":230.1,"current":1.5,"power":345,"totalEnergy":12.3,"collectTime":"2024-01-01T00:00:00"}`,
			want:    models.EnergyReport{DeviceID: 9, Voltage: 230.1, Current: 1.5, Power: 345, TotalEnergy: 12.3, CollectTime: "2024-01-01T00:00:00"},
		},
		{
			name:    "device from topic and default time",
			topic:   "energy/42/reading",
			payload: `{"power":100}`,
			want:    models.EnergyReport{DeviceID: 42, Power: 100, CollectTime: "2024-05-06T07:08:09"},
		},
		{name: "no device", topic: "energy/x/reading", payload: `{"power":1}`, wantErr: true},
		{name: "bad json", topic: "energy/1/reading", payload: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &fakeReporter{}
			b := &Bridge{Reporter: rep, Now: func() time.Time { return fixed }}

			err := b.Handle(context.Background(), tt.topic, []byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if len(rep.got) != 0 {
					t.Fatalf("reported %v", rep.got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if len(rep.got) != 1 || rep.got[0] != tt.want {
				t.Fatalf("reported %+v, want %+v", rep.got, tt.want)
			}
		})
	}
}

func TestHandleReportError(t *testing.T) {
	boom := errors.New("boom")
	b := &Bridge{Reporter: &fakeReporter{err: boom}}
	if err := b.Handle(context.Background(), "energy/3/reading", []byte(`{}`)); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestNoDeviceError(t *testing.T) {
	b := &Bridge{Reporter: &fakeReporter{}}
	if err := b.Handle(context.Background(), "readings", []byte(`{}`)); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("err = %v, want ErrNoDevice", err)
	}
}
