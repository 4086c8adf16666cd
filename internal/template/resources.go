package template

// Resource types.
const (
	TypeRole              = "AWS::IAM::Role"
	TypePolicy            = "AWS::IAM::Policy"
	TypeFunction          = "AWS::Lambda::Function"
	TypeEventInvokeConfig = "AWS::Lambda::EventInvokeConfig"
	TypePermission        = "AWS::Lambda::Permission"
	TypeRule              = "AWS::Events::Rule"
	TypeAlarm             = "AWS::CloudWatch::Alarm"
)

// Tag is a resource tag.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// PolicyDocument is an IAM policy document.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is an IAM policy statement.
type Statement struct {
	Sid       string         `json:"Sid,omitempty"`
	Effect    string         `json:"Effect"`
	Principal map[string]any `json:"Principal,omitempty"`
	Action    []string       `json:"Action"`
	Resource  []any          `json:"Resource,omitempty"`
}

// RoleProperties are the properties of an AWS::IAM::Role.
type RoleProperties struct {
	AssumeRolePolicyDocument PolicyDocument `json:"AssumeRolePolicyDocument"`
	ManagedPolicyArns        []any          `json:"ManagedPolicyArns,omitempty"`
	Tags                     []Tag          `json:"Tags,omitempty"`
}

// PolicyProperties are the properties of an AWS::IAM::Policy.
type PolicyProperties struct {
	PolicyName     string         `json:"PolicyName"`
	PolicyDocument PolicyDocument `json:"PolicyDocument"`
	Roles          []any          `json:"Roles"`
}

// Code locates a function archive.
type Code struct {
	S3Bucket any    `json:"S3Bucket"`
	S3Key    string `json:"S3Key"`
}

// Environment holds function environment variables.
type Environment struct {
	Variables map[string]any `json:"Variables"`
}

// FunctionProperties are the properties of an AWS::Lambda::Function.
type FunctionProperties struct {
	FunctionName string      `json:"FunctionName"`
	Description  string      `json:"Description,omitempty"`
	Runtime      string      `json:"Runtime"`
	Handler      string      `json:"Handler"`
	MemorySize   int         `json:"MemorySize"`
	Timeout      int         `json:"Timeout"`
	Role         any         `json:"Role"`
	Code         Code        `json:"Code"`
	Environment  Environment `json:"Environment"`
	Tags         []Tag       `json:"Tags,omitempty"`
}

// EventInvokeConfigProperties are the properties of an AWS::Lambda::EventInvokeConfig.
type EventInvokeConfigProperties struct {
	FunctionName         any    `json:"FunctionName"`
	Qualifier            string `json:"Qualifier"`
	MaximumRetryAttempts int    `json:"MaximumRetryAttempts"`
}

// RuleTarget is a target of an events rule.
type RuleTarget struct {
	Arn any    `json:"Arn"`
	Id  string `json:"Id"`
}

// RuleProperties are the properties of an AWS::Events::Rule.
type RuleProperties struct {
	Description        string       `json:"Description,omitempty"`
	ScheduleExpression string       `json:"ScheduleExpression"`
	State              string       `json:"State"`
	Targets            []RuleTarget `json:"Targets"`
}

// PermissionProperties are the properties of an AWS::Lambda::Permission.
type PermissionProperties struct {
	Action       string `json:"Action"`
	FunctionName any    `json:"FunctionName"`
	Principal    string `json:"Principal"`
	SourceArn    any    `json:"SourceArn"`
}

// Dimension is a metric dimension.
type Dimension struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// Metric identifies a metric.
type Metric struct {
	Namespace  string      `json:"Namespace"`
	MetricName string      `json:"MetricName"`
	Dimensions []Dimension `json:"Dimensions"`
}

// MetricStat is a metric with a statistic over a period.
type MetricStat struct {
	Metric Metric `json:"Metric"`
	Period int    `json:"Period"`
	Stat   string `json:"Stat"`
}

// MetricDataQuery is one metric or expression of a metric math alarm.
type MetricDataQuery struct {
	Id         string      `json:"Id"`
	Expression string      `json:"Expression,omitempty"`
	Label      string      `json:"Label,omitempty"`
	MetricStat *MetricStat `json:"MetricStat,omitempty"`
	ReturnData bool        `json:"ReturnData"`
}

// AlarmProperties are the properties of an AWS::CloudWatch::Alarm.
type AlarmProperties struct {
	AlarmName          string            `json:"AlarmName"`
	AlarmDescription   string            `json:"AlarmDescription,omitempty"`
	ActionsEnabled     bool              `json:"ActionsEnabled"`
	AlarmActions       []any             `json:"AlarmActions"`
	ComparisonOperator string            `json:"ComparisonOperator"`
	Threshold          float64           `json:"Threshold"`
	EvaluationPeriods  int               `json:"EvaluationPeriods"`
	TreatMissingData   string            `json:"TreatMissingData"`
	Metrics            []MetricDataQuery `json:"Metrics"`
}
