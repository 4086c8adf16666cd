package synth

import (
	"fmt"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
)

// ScheduleID returns the logical id of the schedule rule of v.
func ScheduleID(v domain.Variant) string {
	return "Schedule" + logicalSuffix(v)
}

func (s *Synthesizer) scheduleRule(v domain.Variant) domain.ScheduleRule {
	return domain.ScheduleRule{
		LogicalID:   ScheduleID(v),
		Expression:  ScheduleExpression,
		Description: fmt.Sprintf("Run %s alerts on weekday mornings at 08:00 UTC", v),
	}
}
