package synth

import (
	"github.com/guardian/uk-coronavirus-data-alerts/internal/awsarn"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
)

// ToleratedErrorPercentage is zero: any failed run raises an alarm.
const ToleratedErrorPercentage = 0

// AlarmID returns the logical id of the error alarm of v.
func AlarmID(v domain.Variant) string {
	return "ErrorAlarm" + logicalSuffix(v)
}

// monitoringBinding routes alarms of every variant to the one shared topic.
func (s *Synthesizer) monitoringBinding(v domain.Variant) (domain.MonitoringBinding, error) {
	topic, err := s.alertTopic()
	if err != nil {
		return domain.MonitoringBinding{}, err
	}
	return domain.MonitoringBinding{
		LogicalID:                AlarmID(v),
		ToleratedErrorPercentage: ToleratedErrorPercentage,
		AlarmTopic:               topic,
	}, nil
}

func (s *Synthesizer) alertTopic() (domain.Identifier, error) {
	if s.settings.AlertTopicARN != "" {
		return awsarn.Parse(s.settings.AlertTopicARN)
	}
	return s.settings.Scope.SNSTopic(s.settings.AlertTopicName), nil
}
