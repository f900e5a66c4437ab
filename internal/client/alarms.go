package client

import (
	"context"
	"net/http"
	"strconv"

	"energy-cli/pkg/models"
)

// ListAlarms fetches alarms of one device, or of all devices when deviceID is 0.
func (c *EnergyClient) ListAlarms(ctx context.Context, deviceID int64) ([]models.AlarmRecord, error) {
	var alarms []models.AlarmRecord

	req := c.HTTP.R()
	if deviceID > 0 {
		req.SetQueryParam("deviceId", strconv.FormatInt(deviceID, 10))
	}

	if err := c.call(ctx, req, http.MethodGet, "/user/alarm/list", &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

// TodayAlarmCount returns the number of alarms raised today.
func (c *EnergyClient) TodayAlarmCount(ctx context.Context) (int, error) {
	var n int
	err := c.call(ctx, c.HTTP.R(), http.MethodGet, "/user/alarm/count/today", &n)
	return n, err
}

// UnhandledAlarmCount returns the number of alarms still waiting for an operator.
func (c *EnergyClient) UnhandledAlarmCount(ctx context.Context) (int, error) {
	var n int
	err := c.call(ctx, c.HTTP.R(), http.MethodGet, "/user/alarm/count/unhandled", &n)
	return n, err
}

// AlarmCountByType returns alarm counts keyed by alarm type.
func (c *EnergyClient) AlarmCountByType(ctx context.Context) (map[int]int, error) {
	counts := map[int]int{}
	if err := c.call(ctx, c.HTTP.R(), http.MethodGet, "/user/alarm/count/type", &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// HandleAlarm marks an alarm as handled. The id travels in the query string
// and the body is empty.
func (c *EnergyClient) HandleAlarm(ctx context.Context, alarmID int64) error {
	req := c.HTTP.R().
		SetQueryParam("alarmId", strconv.FormatInt(alarmID, 10))

	return c.call(ctx, req, http.MethodPost, "/user/alarm/handle", nil)
}
