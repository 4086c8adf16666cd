package synth

import "github.com/guardian/uk-coronavirus-data-alerts/internal/domain"

// FunctionID returns the logical id of the compute target of v.
func FunctionID(v domain.Variant) string {
	return "AlertsFunction" + logicalSuffix(v)
}

// buildTarget is the compute target factory shared by every variant.
// The environment is the only channel to the alerting job.
func (s *Synthesizer) buildTarget(v domain.Variant, bucket, notify domain.ParameterRef) domain.ComputeTarget {
	return domain.ComputeTarget{
		Variant:    v,
		LogicalID:  FunctionID(v),
		AppName:    AppName(v, s.settings.BaseName),
		Runtime:    s.settings.Runtime,
		Handler:    s.settings.Handler,
		MemorySize: s.settings.MemorySize,
		Timeout:    s.settings.Timeout,
		Artifact: domain.ArtifactRef{
			BucketParameter: bucket,
			Key:             s.artifactKey(v),
		},
		Environment: map[string]domain.EnvValue{
			domain.EnvNotifyEmailAddresses: domain.ParameterValue(notify),
			domain.EnvEmailType:            domain.LiteralValue(string(v)),
		},
		MaxRetryAttempts: 0,
	}
}
