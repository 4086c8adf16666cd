package synth

import (
	"fmt"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/stack"
)

// ArtifactBucketParameterID is the logical id of the distribution bucket parameter.
const ArtifactBucketParameterID = "DistributionBucketName"

// NotifyParameterID returns the logical id of the recipient parameter of v.
func NotifyParameterID(v domain.Variant) string {
	return "NotifyEmailAddresses" + logicalSuffix(v)
}

// declareArtifactBucket declares the shared SSM-backed distribution bucket parameter.
func (s *Synthesizer) declareArtifactBucket(b *stack.Builder) (domain.ParameterRef, error) {
	def := s.settings.ArtifactBucketParameter
	return b.DeclareParameter(domain.Parameter{
		LogicalID:   ArtifactBucketParameterID,
		Type:        "AWS::SSM::Parameter::Value<String>",
		Description: "SSM parameter containing the name of the bucket holding the packaged alerts job",
		Default:     &def,
	})
}

// declareNotifyParameter declares the recipient list of v. The value is only
// referenced, never inlined, so recipients do not appear in generated output.
func (s *Synthesizer) declareNotifyParameter(b *stack.Builder, v domain.Variant) (domain.ParameterRef, error) {
	p := domain.Parameter{
		LogicalID:   NotifyParameterID(v),
		Type:        "String",
		Description: fmt.Sprintf("Comma-separated list of email addresses to notify with %s alerts", v),
		NoEcho:      true,
	}
	if s.settings.ParameterMode == domain.ParameterModeLoose {
		empty := ""
		p.Default = &empty
	}
	return b.DeclareParameter(p)
}
