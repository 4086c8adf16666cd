package domain

// ScheduleRule is the recurrence trigger of a compute target.
type ScheduleRule struct {
	LogicalID   string `json:"logicalId"`
	Expression  string `json:"expression"`
	Description string `json:"description"`
}

// MonitoringBinding raises an alarm on the shared alerting channel when the
// error percentage of a target exceeds ToleratedErrorPercentage.
type MonitoringBinding struct {
	LogicalID                string     `json:"logicalId"`
	ToleratedErrorPercentage float64    `json:"toleratedErrorPercentage"`
	AlarmTopic               Identifier `json:"alarmTopic"`
}
