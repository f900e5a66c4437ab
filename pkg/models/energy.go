package models

// EnergyData is a stored reading from /user/energy/list.
type EnergyData struct {
	ID          int64   `json:"id"`
	DeviceID    int64   `json:"deviceId"`
	Voltage     float64 `json:"voltage"`     // V
	Current     float64 `json:"current"`     // A
	Power       float64 `json:"power"`       // W
	TotalEnergy float64 `json:"totalEnergy"` // kWh, cumulative
	CollectTime string  `json:"collectTime"` // ISO 8601
}

// EnergyOverview feeds the dashboard summary.
type EnergyOverview struct {
	TodayEnergy     float64 `json:"todayEnergy"`
	MonthEnergy     float64 `json:"monthEnergy"`
	DeviceCount     int     `json:"deviceCount"`
	TodayAlarmCount int     `json:"todayAlarmCount"`
}

// EnergyStatistics is one point of the consumption series.
type EnergyStatistics struct {
	Time   string  `json:"time"` // day or month label
	Energy float64 `json:"energy"`
}

// EnergyRealtime is the latest reading of a single device.
type EnergyRealtime struct {
	DeviceID    int64   `json:"deviceId"`
	Voltage     float64 `json:"voltage"`
	Current     float64 `json:"current"`
	Power       float64 `json:"power"`
	TotalEnergy float64 `json:"totalEnergy"`
	CollectTime string  `json:"collectTime"`
}

// EnergyReport is the body a device pushes to /user/energy/report.
type EnergyReport struct {
	DeviceID    int64   `json:"deviceId"`
	Voltage     float64 `json:"voltage"`
	Current     float64 `json:"current"`
	Power       float64 `json:"power"`
	TotalEnergy float64 `json:"totalEnergy"`
	CollectTime string  `json:"collectTime"`
}

// EnergyQuery filters /user/energy/list. Zero values are left out of the query.
type EnergyQuery struct {
	DeviceID  int64
	StartTime string
	EndTime   string
}
