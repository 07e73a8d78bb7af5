package model

import "time"

// AppSetting is a key/value configuration row. The work-log engine itself
// reads none of these; they parameterize the external attendance verifier.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Known setting keys.
const (
	SettingHashSpeed           = "hash_speed"
	SettingCodeLeeway          = "code_leeway"
	SettingVerifyTimeout       = "verify_timeout"
	SettingAttendanceThreshold = "attendance_threshold"
)
