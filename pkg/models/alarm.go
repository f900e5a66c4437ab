package models

// AlarmStatus tells whether an operator has handled the alarm.
type AlarmStatus int

const (
	AlarmUnhandled AlarmStatus = 0
	AlarmHandled   AlarmStatus = 1
)

func (s AlarmStatus) String() string {
	if s == AlarmHandled {
		return "HANDLED"
	}
	return "UNHANDLED"
}

// AlarmRecord represents a single alarm raised by a device.
type AlarmRecord struct {
	ID          int64       `json:"id"`
	DeviceID    int64       `json:"deviceId"`
	AlarmType   int         `json:"alarmType"`
	AlarmValue  float64     `json:"alarmValue"`
	AlarmDesc   string      `json:"alarmDesc"`
	TriggerTime string      `json:"triggerTime"` // ISO 8601
	Status      AlarmStatus `json:"status"`
	HandleTime  string      `json:"handleTime,omitempty"`
}
