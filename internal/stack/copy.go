package stack

import "github.com/guardian/uk-coronavirus-data-alerts/internal/domain"

func copyTarget(t *domain.ComputeTarget) *domain.ComputeTarget {
	c := *t
	c.Environment = make(map[string]domain.EnvValue, len(t.Environment))
	for k, v := range t.Environment {
		c.Environment[k] = v
	}
	return &c
}

func copyGrant(g domain.PermissionGrant) domain.PermissionGrant {
	return domain.PermissionGrant{
		Sid:       g.Sid,
		Actions:   append([]string(nil), g.Actions...),
		Resources: append([]domain.Identifier(nil), g.Resources...),
	}
}

func copyChain(c *domain.Chain) domain.Chain {
	out := domain.Chain{
		Variant: c.Variant,
		Target:  copyTarget(c.Target),
		Grants:  make([]domain.PermissionGrant, 0, len(c.Grants)),
	}
	schedule := *c.Schedule
	out.Schedule = &schedule
	monitoring := *c.Monitoring
	out.Monitoring = &monitoring
	for _, g := range c.Grants {
		out.Grants = append(out.Grants, copyGrant(g))
	}
	return out
}
