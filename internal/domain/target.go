package domain

import "time"

// Environment variable names read by the alerting job.
const (
	EnvNotifyEmailAddresses = "NOTIFY_EMAIL_ADDRESSES"
	EnvEmailType            = "EMAIL_TYPE"
)

// EnvValue is an environment variable value: either a literal or a parameter reference.
type EnvValue struct {
	Literal string       `json:"literal,omitempty"`
	Param   ParameterRef `json:"param,omitempty"`
}

// LiteralValue returns an EnvValue holding s.
func LiteralValue(s string) EnvValue {
	return EnvValue{Literal: s}
}

// ParameterValue returns an EnvValue resolved from ref at deploy time.
func ParameterValue(ref ParameterRef) EnvValue {
	return EnvValue{Param: ref}
}

// IsRef reports whether the value is a parameter reference.
func (v EnvValue) IsRef() bool {
	return v.Param != ""
}

// ArtifactRef locates the packaged job in the distribution bucket.
// The bucket name is itself a parameter (an SSM path).
type ArtifactRef struct {
	BucketParameter ParameterRef `json:"bucketParameter"`
	Key             string       `json:"key"`
}

// ComputeTarget is one scheduled, deployable unit of the alerting job.
type ComputeTarget struct {
	Variant          Variant             `json:"variant"`
	LogicalID        string              `json:"logicalId"`
	AppName          string              `json:"appName"`
	Runtime          string              `json:"runtime"`
	Handler          string              `json:"handler"`
	MemorySize       int                 `json:"memorySize"`
	Timeout          time.Duration       `json:"timeout"`
	Artifact         ArtifactRef         `json:"artifact"`
	Environment      map[string]EnvValue `json:"environment"`
	MaxRetryAttempts int                 `json:"maxRetryAttempts"`
}

// ParameterRefs returns every parameter the target depends on.
func (t *ComputeTarget) ParameterRefs() []ParameterRef {
	var refs []ParameterRef
	if t.Artifact.BucketParameter != "" {
		refs = append(refs, t.Artifact.BucketParameter)
	}
	for _, key := range sortedKeys(t.Environment) {
		if v := t.Environment[key]; v.IsRef() {
			refs = append(refs, v.Param)
		}
	}
	return refs
}
