// Package validation provides validation functions for generated stack resources.
// Naming limits follow the CloudFormation, Lambda, S3 and SNS documentation.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
)

// isAlpha returns true if the byte is an ASCII letter.
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isNum returns true if the byte is an ASCII digit.
func isNum(b byte) bool {
	return b >= '0' && b <= '9'
}

// isAlphaNum returns true if the byte is an ASCII letter or digit.
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isNum(b)
}

// ValidateVariant validates a variant tag against the closed variant set.
func ValidateVariant(tag string) error {
	if tag == "" {
		return fmt.Errorf("variant must not be empty")
	}
	if !domain.Variant(tag).IsKnown() {
		return fmt.Errorf("unknown variant %q", tag)
	}
	return nil
}

// ValidateLogicalID validates a CloudFormation logical id.
// Logical ids start with a letter and contain only letters and digits.
func ValidateLogicalID(id string) error {
	if id == "" {
		return fmt.Errorf("logical id must not be empty")
	}
	if len(id) > 255 {
		return fmt.Errorf("logical id must be at most 255 characters")
	}
	if !isAlpha(id[0]) {
		return fmt.Errorf("logical id must start with a letter")
	}
	for _, b := range []byte(id) {
		if !isAlphaNum(b) {
			return fmt.Errorf("logical ids can only contain letters or numbers")
		}
	}
	return nil
}

// ValidateAppName validates a compute target name.
// Names are used as function names, so they are limited to 64 letters, numbers, hyphens or underscores.
func ValidateAppName(name string) error {
	if name == "" {
		return fmt.Errorf("app name must not be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("app name must be at most 64 characters")
	}
	for _, b := range []byte(name) {
		if !isAlphaNum(b) && b != '-' && b != '_' {
			return fmt.Errorf("app names can only contain letters, numbers, hyphens or underscores")
		}
	}
	return nil
}

// ValidateBaseName validates the base name shared by every app and artifact.
func ValidateBaseName(name string) error {
	if name == "" {
		return fmt.Errorf("base name must not be empty")
	}
	if !isAlpha(name[0]) {
		return fmt.Errorf("base name must start with a letter")
	}
	for _, b := range []byte(name) {
		if !isAlphaNum(b) && b != '-' {
			return fmt.Errorf("base names can only contain letters, numbers, or hyphens")
		}
	}
	return nil
}

// ValidateStage validates the stage used for environment selection.
func ValidateStage(stage string) error {
	switch stage {
	case "CODE", "PROD":
		return nil
	case "":
		return fmt.Errorf("stage must not be empty")
	default:
		return fmt.Errorf("stage must be CODE or PROD")
	}
}

// ValidateTimeout validates a compute target execution timeout.
// The job is a bounded check-and-notify task, so the limit is the platform maximum of 15 minutes.
func ValidateTimeout(d time.Duration) error {
	if d < time.Second {
		return fmt.Errorf("timeout must be at least 1s")
	}
	if d > 15*time.Minute {
		return fmt.Errorf("timeout must be at most 15m")
	}
	if d%time.Second != 0 {
		return fmt.Errorf("timeout must be a whole number of seconds")
	}
	return nil
}

// ValidateMemorySize validates a compute target memory size in megabytes.
func ValidateMemorySize(mb int) error {
	if mb < 128 || mb > 10240 {
		return fmt.Errorf("memory size must be between 128 and 10240 MB")
	}
	return nil
}

// ValidateBucketName validates an S3 bucket name.
func ValidateBucketName(name string) error {
	if len(name) < 3 || len(name) > 63 {
		return fmt.Errorf("bucket name must be between 3 and 63 characters")
	}
	first, last := name[0], name[len(name)-1]
	if !(isNum(first) || (first >= 'a' && first <= 'z')) || !(isNum(last) || (last >= 'a' && last <= 'z')) {
		return fmt.Errorf("bucket name must start and end with a lowercase letter or number")
	}
	for _, b := range []byte(name) {
		if !isNum(b) && !(b >= 'a' && b <= 'z') && b != '-' && b != '.' {
			return fmt.Errorf("bucket names can only contain lowercase letters, numbers, dots, or hyphens")
		}
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("bucket name must not contain adjacent dots")
	}
	return nil
}

// ValidateKeyPrefix validates an object key prefix. The prefix must not contain wildcards.
func ValidateKeyPrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("key prefix must not be empty")
	}
	if strings.HasPrefix(prefix, "/") || strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("key prefix must not start or end with '/'")
	}
	if strings.ContainsAny(prefix, "*?") {
		return fmt.Errorf("key prefix must not contain wildcards")
	}
	for _, seg := range strings.Split(prefix, "/") {
		switch seg {
		case "":
			return fmt.Errorf("key prefix must not contain empty segments")
		case ".", "..":
			return fmt.Errorf("key prefix must not contain relative segments")
		}
	}
	return nil
}

// ValidateSenderIdentity validates a verified sending identity, which is
// either an email address or a domain.
func ValidateSenderIdentity(identity string) error {
	if identity == "" {
		return fmt.Errorf("sender identity must not be empty")
	}
	host := identity
	if local, rest, ok := strings.Cut(identity, "@"); ok {
		if local == "" || local == "." || local == ".." {
			return fmt.Errorf("sender identity has an invalid local part")
		}
		if strings.ContainsAny(local, " /*?:") {
			return fmt.Errorf("sender identity local part contains invalid characters")
		}
		host = rest
	}
	return validateDomainName(host)
}

func validateDomainName(name string) error {
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return fmt.Errorf("sender domain %q must have at least two labels", name)
	}
	for _, l := range labels {
		if l == "" || len(l) > 63 {
			return fmt.Errorf("sender domain %q has an empty or overlong label", name)
		}
		if l[0] == '-' || l[len(l)-1] == '-' {
			return fmt.Errorf("sender domain labels must not start or end with a hyphen")
		}
		for _, b := range []byte(l) {
			if !isAlphaNum(b) && b != '-' {
				return fmt.Errorf("sender domain labels can only contain letters, numbers, or hyphens")
			}
		}
	}
	return nil
}

// ValidateTopicName validates an SNS topic name.
func ValidateTopicName(name string) error {
	if name == "" {
		return fmt.Errorf("topic name must not be empty")
	}
	if len(name) > 256 {
		return fmt.Errorf("topic name must be at most 256 characters")
	}
	for _, b := range []byte(name) {
		if !isAlphaNum(b) && b != '-' && b != '_' {
			return fmt.Errorf("topic names can only contain letters, numbers, hyphens or underscores")
		}
	}
	return nil
}

// ValidateTopicARN validates an SNS topic ARN in the form
// arn:<partition>:sns:<region>:<account>:<topic>.
func ValidateTopicARN(value string) error {
	parsed, err := arn.Parse(value)
	if err != nil {
		return fmt.Errorf("topic ARN is malformed: %v", err)
	}
	if parsed.Service != "sns" {
		return fmt.Errorf("topic ARN must reference the sns service, got %q", parsed.Service)
	}
	if parsed.Region == "" || parsed.AccountID == "" {
		return fmt.Errorf("topic ARN must include a region and an account")
	}
	return ValidateTopicName(parsed.Resource)
}

// ValidateParameterMode validates the notification parameter declaration mode.
func ValidateParameterMode(mode string) error {
	switch domain.ParameterMode(mode) {
	case domain.ParameterModeStrict, domain.ParameterModeLoose:
		return nil
	default:
		return fmt.Errorf("parameter mode must be %q or %q", domain.ParameterModeStrict, domain.ParameterModeLoose)
	}
}

// outputFormats is the set of supported template encodings.
var outputFormats = map[string]bool{
	"json": true,
	"yaml": true,
	"hcl":  true,
}

// ValidateOutputFormat validates a template output format.
func ValidateOutputFormat(format string) error {
	if !outputFormats[format] {
		return fmt.Errorf("output format must be one of json, yaml, hcl")
	}
	return nil
}

// ValidateStackName validates a stack name.
// Stack names start with a letter and contain only letters, numbers, or hyphens.
func ValidateStackName(name string) error {
	if name == "" {
		return fmt.Errorf("stack name must not be empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("stack name must be at most 128 characters")
	}
	if !isAlpha(name[0]) {
		return fmt.Errorf("stack name must start with a letter")
	}
	for _, b := range []byte(name) {
		if !isAlphaNum(b) && b != '-' {
			return fmt.Errorf("stack names can only contain letters, numbers, or hyphens")
		}
	}
	return nil
}

// ValidateAction validates a permission action in the form service:Action.
// Wildcards are rejected so that grants stay limited to the actions actually used.
func ValidateAction(action string) error {
	service, name, ok := strings.Cut(action, ":")
	if !ok || service == "" || name == "" {
		return fmt.Errorf("action must be in the form service:Action")
	}
	if strings.Contains(action, "*") {
		return fmt.Errorf("action %q must not contain wildcards", action)
	}
	for _, b := range []byte(service) {
		if !isAlphaNum(b) && b != '-' {
			return fmt.Errorf("action service can only contain letters, numbers, or hyphens")
		}
	}
	if !isAlpha(name[0]) {
		return fmt.Errorf("action name must start with a letter")
	}
	for _, b := range []byte(name) {
		if !isAlphaNum(b) {
			return fmt.Errorf("action names can only contain letters or numbers")
		}
	}
	return nil
}
