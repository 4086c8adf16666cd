// Package awsarn composes fully qualified resource identifiers from their parts.
package awsarn

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
)

// AccountIDPseudo is substituted at deploy time when no literal account is configured.
const AccountIDPseudo = "${AWS::AccountId}"

// DefaultPartition is used when a Scope has no partition.
const DefaultPartition = "aws"

// Scope holds the partition, region and account identifiers are composed in.
type Scope struct {
	Partition string
	Region    string
	AccountID string
}

func (s Scope) partition() string {
	if s.Partition == "" {
		return DefaultPartition
	}
	return s.Partition
}

// regional composes a region- and account-scoped identifier.
func (s Scope) regional(service, resource string) domain.Identifier {
	account, sub := s.AccountID, false
	if account == "" {
		account, sub = AccountIDPseudo, true
	}
	a := arn.ARN{
		Partition: s.partition(),
		Service:   service,
		Region:    s.Region,
		AccountID: account,
		Resource:  resource,
	}
	return domain.Identifier{Value: a.String(), Sub: sub}
}

// S3Objects returns the identifier of every object under prefix in bucket.
// S3 identifiers carry neither region nor account. The parts are joined
// as given; ValidateResource rejects anything that is not a specific prefix.
func (s Scope) S3Objects(bucket, prefix string) domain.Identifier {
	a := arn.ARN{
		Partition: s.partition(),
		Service:   "s3",
		Resource:  bucket + "/" + prefix + "/*",
	}
	return domain.Identifier{Value: a.String()}
}

// SESIdentity returns the identifier of a verified sending identity.
func (s Scope) SESIdentity(identity string) domain.Identifier {
	return s.regional("ses", "identity/"+identity)
}

// SNSTopic returns the identifier of a topic by name.
func (s Scope) SNSTopic(name string) domain.Identifier {
	return s.regional("sns", name)
}

// Parse converts a literal ARN into an identifier.
func Parse(value string) (domain.Identifier, error) {
	if _, err := arn.Parse(value); err != nil {
		return domain.Identifier{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return domain.Identifier{Value: value}, nil
}

// ValidateResource checks that id names specific resources. Identifiers must
// parse, and the resource part must not be a bare or whole-bucket wildcard or
// contain empty or relative path segments. Only the last segment may end in
// a wildcard.
func ValidateResource(id domain.Identifier) error {
	value := id.Value
	if id.Sub {
		value = strings.ReplaceAll(value, AccountIDPseudo, "000000000000")
	}
	a, err := arn.Parse(value)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if a.Resource == "" || a.Resource == "*" {
		return fmt.Errorf("%w: %s does not name a specific resource", domain.ErrInvalidInput, id.Value)
	}

	segments := strings.Split(a.Resource, "/")
	for i, seg := range segments {
		switch seg {
		case "", ".", "..":
			return fmt.Errorf("%w: %s has an empty or relative path segment", domain.ErrInvalidInput, id.Value)
		}
		if i < len(segments)-1 && strings.ContainsAny(seg, "*?") {
			return fmt.Errorf("%w: %s has a wildcard before its last segment", domain.ErrInvalidInput, id.Value)
		}
	}
	if a.Service == "s3" && len(segments) == 2 && segments[1] == "*" {
		return fmt.Errorf("%w: %s grants every object in the bucket", domain.ErrInvalidInput, id.Value)
	}
	return nil
}
