package stack

import (
	"fmt"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/awsarn"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/validation"
)

// Attach appends permission grants to the execution identity of a target.
// Grants are additive: they are never merged or deduplicated.
func (b *Builder) Attach(v domain.Variant, grants ...domain.PermissionGrant) error {
	if b.err != nil {
		return b.err
	}
	chain, err := b.requireTarget(v, "grant")
	if err != nil {
		return b.fail(err)
	}
	for _, g := range grants {
		if err := validateGrant(g); err != nil {
			return b.fail(fmt.Errorf("grant for variant %s: %w", v, err))
		}
		chain.Grants = append(chain.Grants, copyGrant(g))
	}
	return nil
}

func validateGrant(g domain.PermissionGrant) error {
	var errs validation.ValidationErrors
	errs.Check("sid", g.Sid, validation.ValidateLogicalID(g.Sid))
	if len(g.Actions) == 0 {
		errs.Add("actions", "", "at least one action is required")
	}
	for _, a := range g.Actions {
		errs.Check("actions", a, validation.ValidateAction(a))
	}
	if len(g.Resources) == 0 {
		errs.Add("resources", "", "at least one resource is required")
	}
	for _, r := range g.Resources {
		errs.Check("resources", r.Value, awsarn.ValidateResource(r))
	}
	return errs.Err()
}
