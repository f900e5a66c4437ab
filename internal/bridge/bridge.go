// Package bridge forwards device readings published over MQTT to the
// energy report endpoint.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"energy-cli/pkg/models"
)

// CollectTimeFormat is the local timestamp layout the backend stores.
const CollectTimeFormat = "2006-01-02T15:04:05"

// DefaultTopic matches energy/<deviceId>/reading.
const DefaultTopic = "energy/+/reading"

var ErrNoDevice = errors.New("reading has no device id")

// Reporter sends one reading to the API.
type Reporter interface {
	ReportEnergy(ctx context.Context, r models.EnergyReport) error
}

type Bridge struct {
	Reporter Reporter
	Logger   *slog.Logger
	Now      func() time.Time
}

// Handle decodes one MQTT payload and reports it. A missing deviceId is
// taken from the topic (energy/<id>/reading) and a missing collectTime
// defaults to now.
func (b *Bridge) Handle(ctx context.Context, topic string, payload []byte) error {
	var r models.EnergyReport
	if err := json.Unmarshal(payload, &r); err != nil {
		return fmt.Errorf("decode reading on %s: %w", topic, err)
	}

	if r.DeviceID == 0 {
		r.DeviceID = deviceFromTopic(topic)
	}
	if r.DeviceID == 0 {
		return fmt.Errorf("%w (topic %s)", ErrNoDevice, topic)
	}
	if r.CollectTime == "" {
		r.CollectTime = b.now().Format(CollectTimeFormat)
	}

	if err := b.Reporter.ReportEnergy(ctx, r); err != nil {
		return fmt.Errorf("report device %d: %w", r.DeviceID, err)
	}
	b.logger().Debug("reading forwarded", "device", r.DeviceID, "power", r.Power, "topic", topic)
	return nil
}

// Run subscribes to topic and forwards messages until ctx is done.
// Messages are handled one at a time in arrival order.
func (b *Bridge) Run(ctx context.Context, c mqtt.Client, topic string, qos byte) error {
	msgs := make(chan mqtt.Message, 64)
	token := c.Subscribe(topic, qos, func(_ mqtt.Client, m mqtt.Message) {
		select {
		case msgs <- m:
		case <-ctx.Done():
		}
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	b.logger().Info("bridge subscribed", "topic", topic)

	defer func() {
		t := c.Unsubscribe(topic)
		t.WaitTimeout(2 * time.Second)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-msgs:
			if err := b.Handle(ctx, m.Topic(), m.Payload()); err != nil {
				b.logger().Warn("reading dropped", "error", err)
			}
		}
	}
}

func deviceFromTopic(topic string) int64 {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return 0
	}
	id, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (b *Bridge) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Bridge) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
