package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
)

func TestValidateScheduleExpression(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"weekday mornings", "cron(0 8 ? * MON-FRI *)", false},
		{"numeric day of week", "cron(0 8 ? * 2-6 *)", false},
		{"every 15 minutes", "cron(0/15 * * * ? *)", false},
		{"last day of month", "cron(0 12 L * ? *)", false},
		{"nearest weekday", "cron(0 12 15W * ? 2026)", false},
		{"third friday", "cron(0 9 ? * 6#3 *)", false},
		{"month names and list", "cron(30 6 1 JAN,JUL ? *)", false},
		{"five fields", "cron(0 8 * * MON-FRI)", true},
		{"missing wrapper", "0 8 ? * MON-FRI *", true},
		{"both question marks", "cron(0 8 ? * ? *)", true},
		{"neither question mark", "cron(0 8 * * MON-FRI *)", true},
		{"hour out of range", "cron(0 24 ? * MON-FRI *)", true},
		{"minute out of range", "cron(60 8 ? * MON-FRI *)", true},
		{"reversed range", "cron(0 8 ? * FRI-MON *)", true},
		{"bad day name", "cron(0 8 ? * MON-FUN *)", true},
		{"question in hours", "cron(0 ? ? * MON-FRI *)", true},
		{"zero increment", "cron(0/0 8 ? * MON-FRI *)", true},
		{"empty list element", "cron(0,,5 8 ? * MON-FRI *)", true},
		{"rate", "rate(5 minutes)", true},
		{"rate single", "rate(1 hour)", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScheduleExpression(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScheduleExpression(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVariant(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{"verified", "VERIFIED", false},
		{"unverified", "UNVERIFIED", false},
		{"lowercase", "verified", true},
		{"unknown", "PROVISIONAL", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVariant(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVariant(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLogicalID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "NotifyEmailAddresses", false},
		{"with variant", "NotifyEmailAddressesVERIFIED", false},
		{"with digits", "Rule2", false},
		{"starts with digit", "2Rule", true},
		{"contains hyphen", "VERIFIED-uk", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogicalID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLogicalID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAppName(t *testing.T) {
	tests := []struct {
		name    string
		app     string
		wantErr bool
	}{
		{"variant app", "VERIFIED-uk-coronavirus-data-alerts", false},
		{"underscore", "alerts_job", false},
		{"too long", "UNVERIFIED-" + strings.Repeat("a", 60), true},
		{"contains dot", "alerts.job", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppName(tt.app)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAppName(%q) error = %v, wantErr %v", tt.app, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"five minutes", 5 * time.Minute, false},
		{"one second", time.Second, false},
		{"platform maximum", 15 * time.Minute, false},
		{"zero", 0, true},
		{"over maximum", 16 * time.Minute, true},
		{"fractional seconds", 1500 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeout(tt.timeout)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeout(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{"data bucket", "investigations-data-dev", false},
		{"with dots", "my.bucket.name", false},
		{"too short", "ab", true},
		{"uppercase", "Investigations", true},
		{"trailing hyphen", "bucket-", true},
		{"adjacent dots", "my..bucket", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBucketName(%q) error = %v, wantErr %v", tt.bucket, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTopicARN(t *testing.T) {
	tests := []struct {
		name    string
		arn     string
		wantErr bool
	}{
		{"valid", "arn:aws:sns:eu-west-1:123456789012:investigations-alerts", false},
		{"wrong service", "arn:aws:sqs:eu-west-1:123456789012:investigations-alerts", true},
		{"missing account", "arn:aws:sns:eu-west-1::investigations-alerts", true},
		{"not an arn", "investigations-alerts", true},
		{"bad topic name", "arn:aws:sns:eu-west-1:123456789012:alerts/topic", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTopicARN(tt.arn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTopicARN(%q) error = %v, wantErr %v", tt.arn, err, tt.wantErr)
			}
		})
	}
}

func TestValidateKeyPrefix(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{"simple", "uk-coronavirus-data-alerts", false},
		{"nested", "alerts/metrics", false},
		{"wildcard", "alerts/*", true},
		{"leading slash", "/alerts", true},
		{"parent", "..", true},
		{"current", ".", true},
		{"climbs out", "a/../..", true},
		{"nested parent", "alerts/../metrics", true},
		{"double slash", "alerts//metrics", true},
		{"dots in name", "alerts..v2", false},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeyPrefix(tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKeyPrefix(%q) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSenderIdentity(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		wantErr  bool
	}{
		{"email", "investigations.and.reporting@theguardian.com", false},
		{"domain", "theguardian.com", false},
		{"subdomain", "alerts.theguardian.com", false},
		{"parent", "..", true},
		{"current", ".", true},
		{"single label", "localhost", true},
		{"empty local part", "@theguardian.com", true},
		{"relative local part", "..@theguardian.com", true},
		{"slash", "alerts/x@theguardian.com", true},
		{"wildcard domain", "*.theguardian.com", true},
		{"double at", "a@b@theguardian.com", true},
		{"hyphen label", "-alerts.theguardian.com", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSenderIdentity(tt.identity)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSenderIdentity(%q) error = %v, wantErr %v", tt.identity, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Fatal("Expected nil error for empty collection")
	}

	errs.Add("stage", "DEV", "stage must be CODE or PROD")
	errs.Check("timeout", "0s", ValidateTimeout(0))
	errs.Check("format", "json", ValidateOutputFormat("json"))

	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(errs))
	}
	if got := errs.Error(); got != "stage: stage must be CODE or PROD (and 1 more errors)" {
		t.Errorf("Unexpected message: %s", got)
	}
	if !errors.Is(errs.Err(), domain.ErrInvalidInput) {
		t.Error("Expected validation errors to match domain.ErrInvalidInput")
	}
}

func TestValidateAction(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		wantErr bool
	}{
		{"get object", "s3:GetObject", false},
		{"send email", "ses:SendEmail", false},
		{"service wildcard", "s3:*", true},
		{"partial wildcard", "s3:Get*", true},
		{"bare wildcard", "*", true},
		{"missing service", ":GetObject", true},
		{"missing action", "s3:", true},
		{"no separator", "GetObject", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAction(tt.action)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAction(%q) error = %v, wantErr %v", tt.action, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStackName(t *testing.T) {
	tests := []struct {
		name    string
		stack   string
		wantErr bool
	}{
		{"with stage", "uk-coronavirus-data-alerts-PROD", false},
		{"starts with digit", "1-alerts", true},
		{"underscore", "alerts_stack", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStackName(tt.stack)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStackName(%q) error = %v, wantErr %v", tt.stack, err, tt.wantErr)
			}
		})
	}
}
