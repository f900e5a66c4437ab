package client

import (
	"context"
	"net/http"
	"strconv"

	"energy-cli/pkg/models"
)

func (c *EnergyClient) ListBuildings(ctx context.Context) ([]models.Building, error) {
	var buildings []models.Building
	if err := c.call(ctx, c.HTTP.R(), http.MethodGet, "/admin/building/list", &buildings); err != nil {
		return nil, err
	}
	return buildings, nil
}

func (c *EnergyClient) AddBuilding(ctx context.Context, b models.Building) error {
	return c.call(ctx, c.HTTP.R().SetBody(b), http.MethodPost, "/admin/building/add", nil)
}

func (c *EnergyClient) UpdateBuilding(ctx context.Context, b models.Building) error {
	return c.call(ctx, c.HTTP.R().SetBody(b), http.MethodPost, "/admin/building/update", nil)
}

// DeleteBuilding removes a building. The API takes the id as a query
// parameter on a POST.
func (c *EnergyClient) DeleteBuilding(ctx context.Context, id int64) error {
	req := c.HTTP.R().SetQueryParam("id", strconv.FormatInt(id, 10))
	return c.call(ctx, req, http.MethodPost, "/admin/building/delete", nil)
}
