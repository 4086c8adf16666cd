package synth

import "github.com/guardian/uk-coronavirus-data-alerts/internal/domain"

// Grant statement ids.
const (
	MetricsGrantSid = "MetricsReadWrite"
	EmailGrantSid   = "SendNotificationEmail"
)

// grants returns the statements the alerting job needs: read and write of
// its metrics object, and sending email from the one verified identity.
func (s *Synthesizer) grants() []domain.PermissionGrant {
	return []domain.PermissionGrant{
		{
			Sid:       MetricsGrantSid,
			Actions:   []string{"s3:GetObject", "s3:PutObject"},
			Resources: []domain.Identifier{s.settings.Scope.S3Objects(s.settings.DataBucket, s.settings.DataKeyPrefix)},
		},
		{
			Sid:       EmailGrantSid,
			Actions:   []string{"ses:SendEmail"},
			Resources: []domain.Identifier{s.settings.Scope.SESIdentity(s.settings.SenderIdentity)},
		},
	}
}
