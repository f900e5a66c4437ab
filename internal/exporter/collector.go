// Package exporter exposes energy API figures as Prometheus metrics.
package exporter

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"energy-cli/internal/client"
	"energy-cli/pkg/models"
)

var (
	upDesc = prometheus.NewDesc(
		"energy_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"energy_scrape_duration_seconds", "Time taken to scrape the API.", nil, nil,
	)
	todayEnergyDesc = prometheus.NewDesc(
		"energy_today_kwh", "Energy consumed today in kWh.", nil, nil,
	)
	monthEnergyDesc = prometheus.NewDesc(
		"energy_month_kwh", "Energy consumed this month in kWh.", nil, nil,
	)
	deviceCountDesc = prometheus.NewDesc(
		"energy_devices_total", "Number of registered devices.", nil, nil,
	)
	deviceStatusDesc = prometheus.NewDesc(
		"energy_devices_by_status", "Devices grouped by status.", []string{"status"}, nil,
	)
	alarmsTodayDesc = prometheus.NewDesc(
		"energy_alarms_today_total", "Alarms raised today.", nil, nil,
	)
	alarmsUnhandledDesc = prometheus.NewDesc(
		"energy_alarms_unhandled_total", "Alarms not yet handled.", nil, nil,
	)
	alarmsByTypeDesc = prometheus.NewDesc(
		"energy_alarms_by_type", "Alarms grouped by alarm type.", []string{"type"}, nil,
	)
)

// Collector scrapes the API on every Prometheus collection. It owns its
// credentials and logs in again once when a call comes back unauthorized.
type Collector struct {
	Client  *client.EnergyClient
	Login   models.LoginForm
	Logger  *slog.Logger
	Timeout time.Duration

	mu sync.Mutex
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- todayEnergyDesc
	ch <- monthEnergyDesc
	ch <- deviceCountDesc
	ch <- deviceStatusDesc
	ch <- alarmsTodayDesc
	ch <- alarmsUnhandledDesc
	ch <- alarmsByTypeDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	success := 1.0

	// 1. Overview
	if ov, err := withRelogin(ctx, c, c.Client.EnergyOverview); err == nil {
		ch <- prometheus.MustNewConstMetric(todayEnergyDesc, prometheus.GaugeValue, ov.TodayEnergy)
		ch <- prometheus.MustNewConstMetric(monthEnergyDesc, prometheus.GaugeValue, ov.MonthEnergy)
		ch <- prometheus.MustNewConstMetric(deviceCountDesc, prometheus.GaugeValue, float64(ov.DeviceCount))
		ch <- prometheus.MustNewConstMetric(alarmsTodayDesc, prometheus.GaugeValue, float64(ov.TodayAlarmCount))
	} else {
		success = 0.0
		c.logger().Error("scrape overview", "error", err)
	}

	// 2. Alarms
	if n, err := withRelogin(ctx, c, c.Client.UnhandledAlarmCount); err == nil {
		ch <- prometheus.MustNewConstMetric(alarmsUnhandledDesc, prometheus.GaugeValue, float64(n))
	} else {
		success = 0.0
		c.logger().Error("scrape unhandled alarms", "error", err)
	}
	if counts, err := withRelogin(ctx, c, c.Client.AlarmCountByType); err == nil {
		for typ, n := range counts {
			ch <- prometheus.MustNewConstMetric(alarmsByTypeDesc, prometheus.GaugeValue, float64(n), strconv.Itoa(typ))
		}
	} else {
		success = 0.0
		c.logger().Error("scrape alarms by type", "error", err)
	}

	// 3. Devices. Needs an administrator account; other roles just skip it.
	if devices, err := withRelogin(ctx, c, c.Client.ListDevices); err == nil {
		byStatus := map[string]float64{
			models.DeviceUnused.String():   0,
			models.DeviceInUse.String():    0,
			models.DeviceDisabled.String(): 0,
		}
		for _, d := range devices {
			byStatus[d.Status.String()]++
		}
		for st, n := range byStatus {
			ch <- prometheus.MustNewConstMetric(deviceStatusDesc, prometheus.GaugeValue, n, st)
		}
	} else {
		c.logger().Warn("scrape devices", "error", err)
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// EnsureLogin logs in when the collector's session is empty.
func (c *Collector) EnsureLogin(ctx context.Context) error {
	if c.Client.Session().LoggedIn() {
		return nil
	}
	_, err := c.Client.Login(ctx, c.Login)
	return err
}

func withRelogin[T any](ctx context.Context, c *Collector, fetch func(context.Context) (T, error)) (T, error) {
	if err := c.EnsureLogin(ctx); err != nil {
		var zero T
		return zero, err
	}
	res, err := fetch(ctx)
	if err == nil {
		return res, nil
	}
	if client.IsAuthError(err) {
		if _, e := c.Client.Login(ctx, c.Login); e == nil {
			return fetch(ctx)
		}
	}
	return res, err
}

func (c *Collector) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
