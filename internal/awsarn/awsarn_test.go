package awsarn_test

import (
	"testing"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/awsarn"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Objects(t *testing.T) {
	scope := awsarn.Scope{Region: "eu-west-1"}

	id := scope.S3Objects("investigations-data-dev", "uk-coronavirus-data-alerts")

	assert.Equal(t, "arn:aws:s3:::investigations-data-dev/uk-coronavirus-data-alerts/*", id.Value)
	assert.False(t, id.Sub)
}

func TestSESIdentity_PseudoAccount(t *testing.T) {
	scope := awsarn.Scope{Region: "eu-west-1"}

	id := scope.SESIdentity("investigations.and.reporting@theguardian.com")

	assert.Equal(t, "arn:aws:ses:eu-west-1:${AWS::AccountId}:identity/investigations.and.reporting@theguardian.com", id.Value)
	assert.True(t, id.Sub)
}

func TestSNSTopic_LiteralAccount(t *testing.T) {
	scope := awsarn.Scope{Partition: "aws-cn", Region: "cn-north-1", AccountID: "123456789012"}

	id := scope.SNSTopic("investigations-alerts")

	assert.Equal(t, "arn:aws-cn:sns:cn-north-1:123456789012:investigations-alerts", id.Value)
	assert.False(t, id.Sub)
}

func TestParse(t *testing.T) {
	id, err := awsarn.Parse("arn:aws:sns:eu-west-1:123456789012:alerts")
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:sns:eu-west-1:123456789012:alerts", id.Value)

	_, err = awsarn.Parse("alerts")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestS3Objects_KeepsSegments(t *testing.T) {
	scope := awsarn.Scope{Region: "eu-west-1"}

	// Relative segments are not cleaned away, so ValidateResource sees them.
	id := scope.S3Objects("investigations-data-dev", "..")
	assert.Equal(t, "arn:aws:s3:::investigations-data-dev/../*", id.Value)
	assert.ErrorIs(t, awsarn.ValidateResource(id), domain.ErrInvalidInput)

	id = scope.SESIdentity("..")
	assert.Equal(t, "arn:aws:ses:eu-west-1:${AWS::AccountId}:identity/..", id.Value)
	assert.ErrorIs(t, awsarn.ValidateResource(id), domain.ErrInvalidInput)
}

func TestValidateResource(t *testing.T) {
	tests := []struct {
		name    string
		id      domain.Identifier
		wantErr bool
	}{
		{"object prefix", domain.Identifier{Value: "arn:aws:s3:::bucket/alerts/*"}, false},
		{"nested prefix", domain.Identifier{Value: "arn:aws:s3:::bucket/a/b/*"}, false},
		{"ses identity with pseudo account", domain.Identifier{Value: "arn:aws:ses:eu-west-1:${AWS::AccountId}:identity/a@example.com", Sub: true}, false},
		{"sns topic", domain.Identifier{Value: "arn:aws:sns:eu-west-1:123456789012:alerts"}, false},
		{"bare wildcard", domain.Identifier{Value: "*"}, true},
		{"every bucket", domain.Identifier{Value: "arn:aws:s3:::*"}, true},
		{"whole bucket", domain.Identifier{Value: "arn:aws:s3:::bucket/*"}, true},
		{"parent segment", domain.Identifier{Value: "arn:aws:s3:::bucket/../*"}, true},
		{"current segment", domain.Identifier{Value: "arn:aws:s3:::bucket/./*"}, true},
		{"empty segment", domain.Identifier{Value: "arn:aws:s3:::bucket//*"}, true},
		{"wildcard bucket", domain.Identifier{Value: "arn:aws:s3:::*/alerts/*"}, true},
		{"relative identity", domain.Identifier{Value: "arn:aws:ses:eu-west-1:${AWS::AccountId}:identity/.", Sub: true}, true},
		{"not an arn", domain.Identifier{Value: "bucket/alerts/*"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := awsarn.ValidateResource(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
