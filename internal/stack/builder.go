// Package stack assembles a StackDefinition from parameters and per-variant
// resource chains. The builder is fail-fast: after the first error every
// further call returns that error and Build never emits a partial definition.
package stack

import (
	"fmt"
	"strings"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/validation"
)

// Metadata names and describes the stack.
type Metadata struct {
	Name        string
	Description string
	Stage       string
	Tags        map[string]string
}

// Builder composes a StackDefinition. It is not safe for concurrent use;
// each generation run owns its own builder.
type Builder struct {
	meta     Metadata
	variants []domain.Variant
	state    State
	err      error

	params     []domain.Parameter
	paramIndex map[domain.ParameterRef]int
	chains     map[domain.Variant]*domain.Chain
	appNames   map[string]domain.Variant
	logicalIDs map[string]bool
}

// New creates a builder for the given variants. Every variant must be known
// and appear once; each will need a complete chain before Build succeeds.
func New(meta Metadata, variants []domain.Variant) (*Builder, error) {
	var errs validation.ValidationErrors
	errs.Check("name", meta.Name, validation.ValidateStackName(meta.Name))
	if len(variants) == 0 {
		errs.Add("variants", "", "at least one variant is required")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	seen := make(map[domain.Variant]bool, len(variants))
	for _, v := range variants {
		if !v.IsKnown() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, v)
		}
		if seen[v] {
			return nil, fmt.Errorf("variant %s declared twice: %w", v, domain.ErrAlreadyExists)
		}
		seen[v] = true
	}

	b := &Builder{
		meta:       meta,
		variants:   append([]domain.Variant(nil), variants...),
		state:      Empty,
		paramIndex: make(map[domain.ParameterRef]int),
		chains:     make(map[domain.Variant]*domain.Chain, len(variants)),
		appNames:   make(map[string]domain.Variant),
		logicalIDs: make(map[string]bool),
	}
	for _, v := range variants {
		b.chains[v] = &domain.Chain{Variant: v}
	}
	return b, nil
}

// State returns the current construction state.
func (b *Builder) State() State {
	if b.state == TargetsBuilt && b.missing() == "" {
		return FullyWired
	}
	return b.state
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

// claimLogicalID reserves a resource logical id for the whole stack.
func (b *Builder) claimLogicalID(id string) error {
	if err := validation.ValidateLogicalID(id); err != nil {
		return validation.NewValidationError("logicalId", id, err.Error())
	}
	if b.logicalIDs[id] {
		return fmt.Errorf("logical id %s: %w", id, domain.ErrAlreadyExists)
	}
	b.logicalIDs[id] = true
	return nil
}

// DeclareParameter declares a deploy-time parameter and returns a reference to it.
// Parameters must all be declared before the first target is built.
func (b *Builder) DeclareParameter(p domain.Parameter) (domain.ParameterRef, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.state > ParametersDeclared {
		return "", b.fail(fmt.Errorf("declare parameter %s in state %s: %w", p.LogicalID, b.state, domain.ErrInvalidState))
	}
	if err := b.claimLogicalID(p.LogicalID); err != nil {
		return "", b.fail(fmt.Errorf("declare parameter: %w", err))
	}
	if p.Type == "" {
		p.Type = "String"
	}
	if p.Default != nil {
		def := *p.Default
		p.Default = &def
	}

	b.paramIndex[p.Ref()] = len(b.params)
	b.params = append(b.params, p)
	b.state = ParametersDeclared
	return p.Ref(), nil
}

// AddTarget adds the compute target of one variant. Every parameter the
// target references must already be declared and its app name must be unique.
func (b *Builder) AddTarget(t domain.ComputeTarget) error {
	if b.err != nil {
		return b.err
	}
	if b.state == Empty {
		return b.fail(fmt.Errorf("add target %s before any parameter: %w", t.AppName, domain.ErrInvalidState))
	}
	chain, ok := b.chains[t.Variant]
	if !ok {
		return b.fail(fmt.Errorf("add target for undeclared variant %q: %w", t.Variant, domain.ErrUnknownVariant))
	}
	if chain.Target != nil {
		return b.fail(fmt.Errorf("target for variant %s: %w", t.Variant, domain.ErrAlreadyExists))
	}
	if err := validateTarget(&t); err != nil {
		return b.fail(err)
	}
	if other, dup := b.appNames[t.AppName]; dup {
		return b.fail(fmt.Errorf("app name %s already used by variant %s: %w", t.AppName, other, domain.ErrDuplicateAppName))
	}
	for _, ref := range t.ParameterRefs() {
		if _, ok := b.paramIndex[ref]; !ok {
			return b.fail(fmt.Errorf("target %s references %s: %w", t.AppName, ref, domain.ErrMissingParameter))
		}
	}
	if err := b.claimLogicalID(t.LogicalID); err != nil {
		return b.fail(fmt.Errorf("add target: %w", err))
	}

	b.appNames[t.AppName] = t.Variant
	chain.Target = copyTarget(&t)
	b.state = TargetsBuilt
	return nil
}

func validateTarget(t *domain.ComputeTarget) error {
	var errs validation.ValidationErrors
	errs.Check("appName", t.AppName, validation.ValidateAppName(t.AppName))
	errs.Check("timeout", t.Timeout.String(), validation.ValidateTimeout(t.Timeout))
	errs.Check("memorySize", fmt.Sprint(t.MemorySize), validation.ValidateMemorySize(t.MemorySize))
	if t.Runtime == "" {
		errs.Add("runtime", "", "runtime must not be empty")
	}
	if t.Handler == "" {
		errs.Add("handler", "", "handler must not be empty")
	}
	if t.Artifact.Key == "" || !strings.HasSuffix(t.Artifact.Key, ".zip") {
		errs.Add("artifact", t.Artifact.Key, "artifact key must name a .zip archive")
	}
	if t.MaxRetryAttempts != 0 {
		errs.Add("maxRetryAttempts", fmt.Sprint(t.MaxRetryAttempts), "failed runs must not be retried")
	}
	for key := range t.Environment {
		if key == "" {
			errs.Add("environment", key, "environment variable names must not be empty")
		}
	}
	return errs.Err()
}

// requireTarget returns the chain of v once its target exists.
func (b *Builder) requireTarget(v domain.Variant, what string) (*domain.Chain, error) {
	chain, ok := b.chains[v]
	if !ok {
		return nil, fmt.Errorf("%s for undeclared variant %q: %w", what, v, domain.ErrUnknownVariant)
	}
	if chain.Target == nil {
		return nil, fmt.Errorf("%s for variant %s before its target: %w", what, v, domain.ErrInvalidState)
	}
	return chain, nil
}

// SetSchedule attaches the single recurrence trigger of a target.
func (b *Builder) SetSchedule(v domain.Variant, rule domain.ScheduleRule) error {
	if b.err != nil {
		return b.err
	}
	chain, err := b.requireTarget(v, "schedule")
	if err != nil {
		return b.fail(err)
	}
	if chain.Schedule != nil {
		return b.fail(fmt.Errorf("schedule for variant %s: %w", v, domain.ErrAlreadyExists))
	}
	if err := validation.ValidateScheduleExpression(rule.Expression); err != nil {
		return b.fail(validation.NewValidationError("schedule", rule.Expression, err.Error()))
	}
	if err := b.claimLogicalID(rule.LogicalID); err != nil {
		return b.fail(fmt.Errorf("schedule: %w", err))
	}
	chain.Schedule = &rule
	return nil
}

// SetMonitoring attaches the single monitoring binding of a target.
func (b *Builder) SetMonitoring(v domain.Variant, m domain.MonitoringBinding) error {
	if b.err != nil {
		return b.err
	}
	chain, err := b.requireTarget(v, "monitoring")
	if err != nil {
		return b.fail(err)
	}
	if chain.Monitoring != nil {
		return b.fail(fmt.Errorf("monitoring for variant %s: %w", v, domain.ErrAlreadyExists))
	}
	if m.ToleratedErrorPercentage < 0 || m.ToleratedErrorPercentage > 100 {
		return b.fail(validation.NewValidationError("toleratedErrorPercentage",
			fmt.Sprint(m.ToleratedErrorPercentage), "must be between 0 and 100"))
	}
	if m.AlarmTopic.Value == "" {
		return b.fail(validation.NewValidationError("alarmTopic", "", "alarm topic must not be empty"))
	}
	if err := b.claimLogicalID(m.LogicalID); err != nil {
		return b.fail(fmt.Errorf("monitoring: %w", err))
	}
	chain.Monitoring = &m
	return nil
}

// missing returns a description of the first incomplete chain, or "".
func (b *Builder) missing() string {
	for _, v := range b.variants {
		c := b.chains[v]
		var parts []string
		if c.Target == nil {
			parts = append(parts, "target")
		}
		if c.Schedule == nil {
			parts = append(parts, "schedule")
		}
		if c.Monitoring == nil {
			parts = append(parts, "monitoring")
		}
		if len(c.Grants) == 0 {
			parts = append(parts, "grants")
		}
		if len(parts) > 0 {
			return fmt.Sprintf("variant %s is missing %s", v, strings.Join(parts, ", "))
		}
	}
	return ""
}

// Build returns the completed StackDefinition. It fails unless every declared
// variant has a complete chain. The returned definition shares no memory with the builder.
func (b *Builder) Build() (*domain.StackDefinition, error) {
	if b.err != nil {
		return nil, b.err
	}
	if m := b.missing(); m != "" {
		return nil, b.fail(fmt.Errorf("%s: %w", m, domain.ErrIncompleteChain))
	}

	def := &domain.StackDefinition{
		Name:        b.meta.Name,
		Description: b.meta.Description,
		Stage:       b.meta.Stage,
		Parameters:  make([]domain.Parameter, 0, len(b.params)),
		Chains:      make([]domain.Chain, 0, len(b.variants)),
	}
	for _, p := range b.params {
		if p.Default != nil {
			value := *p.Default
			p.Default = &value
		}
		def.Parameters = append(def.Parameters, p)
	}
	if len(b.meta.Tags) > 0 {
		def.Tags = make(map[string]string, len(b.meta.Tags))
		for k, v := range b.meta.Tags {
			def.Tags[k] = v
		}
	}
	for _, v := range b.variants {
		def.Chains = append(def.Chains, copyChain(b.chains[v]))
	}
	return def, nil
}
