package models

// Building is a monitored building as returned by /admin/building/list.
type Building struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	LocationCode string `json:"locationCode"`
	FloorCount   int    `json:"floorCount"`
	UsageType    string `json:"usageType"`
	CreateTime   string `json:"createTime,omitempty"`
}
