package template

import (
	"fmt"
	"sort"
	"time"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
)

const (
	policyVersion            = "2012-10-17"
	basicExecutionPolicyPath = "arn:${AWS::Partition}:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"
	alarmPeriodSeconds       = 60
)

// FromStack renders def as a CloudFormation template.
func FromStack(def *domain.StackDefinition) (*Template, error) {
	if def == nil {
		return nil, fmt.Errorf("nil stack definition: %w", domain.ErrInvalidInput)
	}

	t := &Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              def.Description,
		Parameters:               make(map[string]Parameter, len(def.Parameters)),
		Resources:                make(map[string]Resource),
		Outputs:                  make(map[string]Output),
	}

	for _, p := range def.Parameters {
		t.Parameters[p.LogicalID] = Parameter{
			Type:        p.Type,
			Description: p.Description,
			Default:     p.Default,
			NoEcho:      p.NoEcho,
		}
	}

	for i := range def.Chains {
		chain := &def.Chains[i]
		if !chain.Complete() {
			return nil, fmt.Errorf("variant %s: %w", chain.Variant, domain.ErrIncompleteChain)
		}
		if err := addChain(t, def, chain); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// addChain adds the resources of one variant. Ids are derived from the target's logical id.
func addChain(t *Template, def *domain.StackDefinition, chain *domain.Chain) error {
	target := chain.Target
	fnID := target.LogicalID
	roleID := fnID + "Role"
	policyID := fnID + "Policy"
	invokeID := fnID + "InvokeConfig"
	permissionID := chain.Schedule.LogicalID + "Permission"

	ids := []string{fnID, roleID, policyID, invokeID, permissionID, chain.Schedule.LogicalID, chain.Monitoring.LogicalID}
	for _, id := range ids {
		if _, exists := t.Resources[id]; exists {
			return fmt.Errorf("resource %s: %w", id, domain.ErrAlreadyExists)
		}
		if _, exists := t.Parameters[id]; exists {
			return fmt.Errorf("resource %s collides with a parameter: %w", id, domain.ErrAlreadyExists)
		}
	}

	tags := tagsFor(def, target)

	t.Resources[roleID] = Resource{
		Type: TypeRole,
		Properties: RoleProperties{
			AssumeRolePolicyDocument: PolicyDocument{
				Version: policyVersion,
				Statement: []Statement{{
					Effect:    "Allow",
					Principal: map[string]any{"Service": "lambda.amazonaws.com"},
					Action:    []string{"sts:AssumeRole"},
				}},
			},
			ManagedPolicyArns: []any{Sub(basicExecutionPolicyPath)},
			Tags:              tags,
		},
	}

	t.Resources[policyID] = Resource{
		Type: TypePolicy,
		Properties: PolicyProperties{
			PolicyName:     target.AppName + "-policy",
			PolicyDocument: PolicyDocument{Version: policyVersion, Statement: statements(chain.Grants)},
			Roles:          []any{Ref(roleID)},
		},
	}

	t.Resources[fnID] = Resource{
		Type: TypeFunction,
		Properties: FunctionProperties{
			FunctionName: target.AppName,
			Description:  fmt.Sprintf("UK coronavirus data alerts (%s)", target.Variant),
			Runtime:      target.Runtime,
			Handler:      target.Handler,
			MemorySize:   target.MemorySize,
			Timeout:      int(target.Timeout / time.Second),
			Role:         GetAtt(roleID, "Arn"),
			Code: Code{
				S3Bucket: Ref(string(target.Artifact.BucketParameter)),
				S3Key:    target.Artifact.Key,
			},
			Environment: Environment{Variables: environment(target.Environment)},
			Tags:        tags,
		},
		DependsOn: []string{policyID, roleID},
	}

	t.Resources[invokeID] = Resource{
		Type: TypeEventInvokeConfig,
		Properties: EventInvokeConfigProperties{
			FunctionName:         Ref(fnID),
			Qualifier:            "$LATEST",
			MaximumRetryAttempts: target.MaxRetryAttempts,
		},
	}

	t.Resources[chain.Schedule.LogicalID] = Resource{
		Type: TypeRule,
		Properties: RuleProperties{
			Description:        chain.Schedule.Description,
			ScheduleExpression: chain.Schedule.Expression,
			State:              "ENABLED",
			Targets:            []RuleTarget{{Arn: GetAtt(fnID, "Arn"), Id: "Target0"}},
		},
	}

	t.Resources[permissionID] = Resource{
		Type: TypePermission,
		Properties: PermissionProperties{
			Action:       "lambda:InvokeFunction",
			FunctionName: GetAtt(fnID, "Arn"),
			Principal:    "events.amazonaws.com",
			SourceArn:    GetAtt(chain.Schedule.LogicalID, "Arn"),
		},
	}

	t.Resources[chain.Monitoring.LogicalID] = Resource{
		Type:       TypeAlarm,
		Properties: alarm(target, chain.Monitoring, fnID),
	}

	t.Outputs[fnID+"Arn"] = Output{
		Description: fmt.Sprintf("ARN of the %s alerts function", target.Variant),
		Value:       GetAtt(fnID, "Arn"),
	}
	return nil
}

// statements renders grants one statement each, in attachment order.
func statements(grants []domain.PermissionGrant) []Statement {
	out := make([]Statement, 0, len(grants))
	for _, g := range grants {
		resources := make([]any, 0, len(g.Resources))
		for _, r := range g.Resources {
			resources = append(resources, identifier(r))
		}
		out = append(out, Statement{
			Sid:      g.Sid,
			Effect:   "Allow",
			Action:   append([]string(nil), g.Actions...),
			Resource: resources,
		})
	}
	return out
}

func environment(env map[string]domain.EnvValue) map[string]any {
	vars := make(map[string]any, len(env))
	for k, v := range env {
		if v.IsRef() {
			vars[k] = Ref(string(v.Param))
		} else {
			vars[k] = v.Literal
		}
	}
	return vars
}

// alarm builds an error-percentage alarm: 100 * Errors / Invocations above the tolerated percentage.
func alarm(target *domain.ComputeTarget, m *domain.MonitoringBinding, fnID string) AlarmProperties {
	metric := func(id, name string) MetricDataQuery {
		return MetricDataQuery{
			Id: id,
			MetricStat: &MetricStat{
				Metric: Metric{
					Namespace:  "AWS/Lambda",
					MetricName: name,
					Dimensions: []Dimension{{Name: "FunctionName", Value: Ref(fnID)}},
				},
				Period: alarmPeriodSeconds,
				Stat:   "Sum",
			},
		}
	}

	return AlarmProperties{
		AlarmName:          target.AppName + "-errors",
		AlarmDescription:   fmt.Sprintf("%s error percentage is above %g%%", target.AppName, m.ToleratedErrorPercentage),
		ActionsEnabled:     true,
		AlarmActions:       []any{identifier(m.AlarmTopic)},
		ComparisonOperator: "GreaterThanThreshold",
		Threshold:          m.ToleratedErrorPercentage,
		EvaluationPeriods:  1,
		TreatMissingData:   "notBreaching",
		Metrics: []MetricDataQuery{
			{Id: "expr_1", Expression: "100*m1/m2", Label: "Error % of " + target.AppName, ReturnData: true},
			metric("m1", "Errors"),
			metric("m2", "Invocations"),
		},
	}
}

// tagsFor merges stack tags with the target's App tag, sorted by key.
func tagsFor(def *domain.StackDefinition, target *domain.ComputeTarget) []Tag {
	merged := make(map[string]string, len(def.Tags)+1)
	for k, v := range def.Tags {
		merged[k] = v
	}
	merged["App"] = target.AppName

	tags := make([]Tag, 0, len(merged))
	for _, k := range sortedKeys(merged) {
		tags = append(tags, Tag{Key: k, Value: merged[k]})
	}
	return tags
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
