package rules

import "fmt"

// CompileProfile generates the complete rule set for a profile. Conditions
// are built with fmt.Sprintf from validated integers, so the compiler
// never produces invalid expr.
func CompileProfile(p Profile) []*Rule {
	p.Validate()
	var rules []*Rule

	rules = append(rules, &Rule{
		Name:         "connect",
		Priority:     1000,
		Category:     "lighthouse",
		ConditionSrc: `OnLighthouse() && OwnsCurrent() && len(ConnectCandidates()) > 0`,
		Action:       ActionConnect,
	})

	attack := fmt.Sprintf(`OnLighthouse() && !OwnsCurrent() && Energy() > %d`, p.CaptureThreshold)
	if p.AttackOwned {
		attack = fmt.Sprintf(`OnLighthouse() && Energy() > %d`, p.CaptureThreshold)
	}
	rules = append(rules, &Rule{
		Name:         "attack",
		Priority:     900,
		Category:     "lighthouse",
		ConditionSrc: attack,
		Action:       ActionAttack,
	})

	harvest := fmt.Sprintf(`Energy() < %d && CanMove()`, p.HarvestThreshold)
	if p.GateHarvest {
		harvest = fmt.Sprintf(`Energy() < %d && CanMove() && HarvestGain() > %d`, p.HarvestThreshold, p.MinHarvestGain)
	}
	rules = append(rules, &Rule{
		Name:         "harvest",
		Priority:     500,
		Category:     "movement",
		ConditionSrc: harvest,
		Action:       ActionHarvest,
	})

	seek := ActionSeekScored
	if p.Targeting == TargetNearest {
		seek = ActionSeekNearest
	}
	rules = append(rules, &Rule{
		Name:         "seek-lighthouse",
		Priority:     0,
		Category:     "movement",
		ConditionSrc: `true`,
		Action:       seek,
	})

	return rules
}
