package engine

import "github.com/meltforce/matseq/internal/config"

// ParamsFromConfig merges non-zero generator overrides from the service
// configuration into the default rule policy.
func ParamsFromConfig(o config.GeneratorConfig) Params {
	p := DefaultParams()
	if o.OverlapThresholdPct > 0 {
		p.OverlapThreshold = o.OverlapThresholdPct / 100
	}
	if o.FamilyThresholdPct > 0 {
		p.FamilyThreshold = o.FamilyThresholdPct / 100
	}
	if o.FamilyStepPct > 0 {
		p.FamilyStep = o.FamilyStepPct / 100
	}
	if o.FamilyCeilingPct > 0 {
		p.FamilyCeiling = o.FamilyCeilingPct / 100
	}
	if o.DurationTolerancePct > 0 {
		p.DurationTolerance = o.DurationTolerancePct / 100
	}
	if o.StalenessWindowDays > 0 {
		p.StalenessWindowDays = o.StalenessWindowDays
	}
	return p
}
