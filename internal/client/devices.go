package client

import (
	"context"
	"net/http"
	"strconv"

	"energy-cli/pkg/models"
)

func (c *EnergyClient) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := c.call(ctx, c.HTTP.R(), http.MethodGet, "/admin/device/list", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *EnergyClient) AddDevice(ctx context.Context, d models.Device) error {
	return c.call(ctx, c.HTTP.R().SetBody(d), http.MethodPost, "/admin/device/add", nil)
}

func (c *EnergyClient) UpdateDevice(ctx context.Context, d models.Device) error {
	return c.call(ctx, c.HTTP.R().SetBody(d), http.MethodPost, "/admin/device/update", nil)
}

func (c *EnergyClient) DeleteDevice(ctx context.Context, id int64) error {
	req := c.HTTP.R().SetQueryParam("id", strconv.FormatInt(id, 10))
	return c.call(ctx, req, http.MethodPost, "/admin/device/delete", nil)
}

// ChangeDeviceStatus switches a device between unused, in use and disabled.
func (c *EnergyClient) ChangeDeviceStatus(ctx context.Context, id int64, status models.DeviceStatus) error {
	payload := models.DeviceStatusPayload{ID: id, Status: status}
	return c.call(ctx, c.HTTP.R().SetBody(payload), http.MethodPost, "/admin/device/status", nil)
}
