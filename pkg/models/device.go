package models

import "encoding/json"

// DeviceStatus is the lifecycle state of a metering device.
type DeviceStatus int

const (
	DeviceUnused   DeviceStatus = 0
	DeviceInUse    DeviceStatus = 1
	DeviceDisabled DeviceStatus = 2
)

func (s DeviceStatus) String() string {
	switch s {
	case DeviceUnused:
		return "UNUSED"
	case DeviceInUse:
		return "IN_USE"
	case DeviceDisabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

// Device is a metering device installed in a building room.
type Device struct {
	ID         int64        `json:"id"`
	DeviceName string       `json:"deviceName"`
	SN         string       `json:"sn"`
	BuildingID json.Number  `json:"buildingId"` // backend sends either a number or a numeric string
	RoomNo     string       `json:"roomNo"`
	Status     DeviceStatus `json:"status"`
	MaxPower   float64      `json:"maxPower"`
}

// DeviceStatusPayload is the body for POST /admin/device/status
type DeviceStatusPayload struct {
	ID     int64        `json:"id"`
	Status DeviceStatus `json:"status"`
}
