// Package synth turns a list of variants into a StackDefinition. Every variant
// goes through the same chain factory, so the chains cannot drift apart.
package synth

import (
	"fmt"
	"time"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/awsarn"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/stack"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/validation"
)

// Defaults shared by config and tests.
const (
	DefaultBaseName                = "uk-coronavirus-data-alerts"
	DefaultArtifactBucketParameter = "/account/services/artifact.bucket"
)

// ScheduleExpression is the recurrence of every alerts job: weekday mornings
// at 08:00 UTC. It is not configurable.
const ScheduleExpression = "cron(0 8 ? * MON-FRI *)"

// Settings holds everything the synthesizer needs besides the variant list.
type Settings struct {
	BaseName      string
	Stage         string
	ParameterMode domain.ParameterMode
	Scope         awsarn.Scope

	Runtime                 string
	Handler                 string
	MemorySize              int
	Timeout                 time.Duration
	ArtifactBucketParameter string

	DataBucket     string
	DataKeyPrefix  string
	SenderIdentity string

	// AlertTopicARN, when set, overrides the ARN composed from AlertTopicName.
	AlertTopicName string
	AlertTopicARN  string
}

// Validate checks the settings before any resource is built.
func (s Settings) Validate() error {
	var errs validation.ValidationErrors
	errs.Check("baseName", s.BaseName, validation.ValidateBaseName(s.BaseName))
	errs.Check("stage", s.Stage, validation.ValidateStage(s.Stage))
	errs.Check("parameterMode", string(s.ParameterMode), validation.ValidateParameterMode(string(s.ParameterMode)))
	errs.Check("timeout", s.Timeout.String(), validation.ValidateTimeout(s.Timeout))
	errs.Check("memorySize", fmt.Sprint(s.MemorySize), validation.ValidateMemorySize(s.MemorySize))
	errs.Check("dataBucket", s.DataBucket, validation.ValidateBucketName(s.DataBucket))
	errs.Check("dataKeyPrefix", s.DataKeyPrefix, validation.ValidateKeyPrefix(s.DataKeyPrefix))
	errs.Check("senderIdentity", s.SenderIdentity, validation.ValidateSenderIdentity(s.SenderIdentity))
	if s.Runtime == "" {
		errs.Add("runtime", "", "runtime must not be empty")
	}
	if s.Handler == "" {
		errs.Add("handler", "", "handler must not be empty")
	}
	if s.ArtifactBucketParameter == "" {
		errs.Add("artifactBucketParameter", "", "artifact bucket parameter must not be empty")
	}
	if s.Scope.Region == "" {
		errs.Add("region", "", "region must not be empty")
	}
	if s.AlertTopicARN != "" {
		errs.Check("alertTopicArn", s.AlertTopicARN, validation.ValidateTopicARN(s.AlertTopicARN))
	} else {
		errs.Check("alertTopicName", s.AlertTopicName, validation.ValidateTopicName(s.AlertTopicName))
	}
	return errs.Err()
}

// StackName returns the name of the generated stack.
func (s Settings) StackName() string {
	return s.BaseName + "-" + s.Stage
}

// Synthesizer builds stack definitions from validated settings.
type Synthesizer struct {
	settings Settings
}

// New creates a new Synthesizer.
func New(settings Settings) (*Synthesizer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Synthesizer{settings: settings}, nil
}

// Settings returns the synthesizer settings.
func (s *Synthesizer) Settings() Settings {
	return s.settings
}

// Synth builds the stack definition for variants. Either the whole definition
// is returned or an error; nothing partial escapes.
func (s *Synthesizer) Synth(variants []domain.Variant) (*domain.StackDefinition, error) {
	b, err := stack.New(s.metadata(), variants)
	if err != nil {
		return nil, err
	}

	// Parameters
	bucket, err := s.declareArtifactBucket(b)
	if err != nil {
		return nil, err
	}
	notify := make(map[domain.Variant]domain.ParameterRef, len(variants))
	for _, v := range variants {
		ref, err := s.declareNotifyParameter(b, v)
		if err != nil {
			return nil, err
		}
		notify[v] = ref
	}

	// One chain per variant
	for _, v := range variants {
		if err := b.AddTarget(s.buildTarget(v, bucket, notify[v])); err != nil {
			return nil, err
		}
		if err := b.SetSchedule(v, s.scheduleRule(v)); err != nil {
			return nil, err
		}
		monitoring, err := s.monitoringBinding(v)
		if err != nil {
			return nil, err
		}
		if err := b.SetMonitoring(v, monitoring); err != nil {
			return nil, err
		}
		if err := b.Attach(v, s.grants()...); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

func (s *Synthesizer) metadata() stack.Metadata {
	return stack.Metadata{
		Name:        s.settings.StackName(),
		Description: fmt.Sprintf("Scheduled UK coronavirus data alerts (%s)", s.settings.Stage),
		Stage:       s.settings.Stage,
		Tags: map[string]string{
			"App":   s.settings.BaseName,
			"Stage": s.settings.Stage,
		},
	}
}

// DefaultSettings returns the settings used when nothing is overridden.
func DefaultSettings() Settings {
	return Settings{
		BaseName:                DefaultBaseName,
		Stage:                   "PROD",
		ParameterMode:           domain.ParameterModeStrict,
		Scope:                   awsarn.Scope{Partition: awsarn.DefaultPartition, Region: "eu-west-1"},
		Runtime:                 "python3.8",
		Handler:                 "main.lambda_handler",
		MemorySize:              1024,
		Timeout:                 5 * time.Minute,
		ArtifactBucketParameter: DefaultArtifactBucketParameter,
		DataBucket:              "investigations-data-dev",
		DataKeyPrefix:           DefaultBaseName,
		SenderIdentity:          "investigations.and.reporting@theguardian.com",
		AlertTopicName:          "investigations-alerts",
	}
}
