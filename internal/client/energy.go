package client

import (
	"context"
	"net/http"
	"strconv"

	"energy-cli/pkg/models"
)

// ReportEnergy pushes one device reading.
func (c *EnergyClient) ReportEnergy(ctx context.Context, r models.EnergyReport) error {
	return c.call(ctx, c.HTTP.R().SetBody(r), http.MethodPost, "/user/energy/report", nil)
}

// ListEnergy queries stored readings. Empty filters are left out of the query.
func (c *EnergyClient) ListEnergy(ctx context.Context, q models.EnergyQuery) ([]models.EnergyData, error) {
	var data []models.EnergyData

	req := c.HTTP.R()
	if q.DeviceID > 0 {
		req.SetQueryParam("deviceId", strconv.FormatInt(q.DeviceID, 10))
	}
	if q.StartTime != "" {
		req.SetQueryParam("startTime", q.StartTime)
	}
	if q.EndTime != "" {
		req.SetQueryParam("endTime", q.EndTime)
	}

	if err := c.call(ctx, req, http.MethodGet, "/user/energy/list", &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *EnergyClient) EnergyOverview(ctx context.Context) (models.EnergyOverview, error) {
	var out models.EnergyOverview
	err := c.call(ctx, c.HTTP.R(), http.MethodGet, "/user/energy/overview", &out)
	return out, err
}

// EnergyStatistics returns the consumption series for the line chart.
// period is passed through as the "type" parameter (for example "day" or "month").
func (c *EnergyClient) EnergyStatistics(ctx context.Context, deviceID int64, period string) ([]models.EnergyStatistics, error) {
	var points []models.EnergyStatistics

	req := c.HTTP.R()
	if deviceID > 0 {
		req.SetQueryParam("deviceId", strconv.FormatInt(deviceID, 10))
	}
	if period != "" {
		req.SetQueryParam("type", period)
	}

	if err := c.call(ctx, req, http.MethodGet, "/user/energy/statistics", &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *EnergyClient) EnergyRealtime(ctx context.Context, deviceID int64) (models.EnergyRealtime, error) {
	var out models.EnergyRealtime
	req := c.HTTP.R().SetQueryParam("deviceId", strconv.FormatInt(deviceID, 10))
	err := c.call(ctx, req, http.MethodGet, "/user/energy/realtime", &out)
	return out, err
}
