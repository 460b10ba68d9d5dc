package rules

import "fmt"

// Targeting selects how the seek rule picks a destination lighthouse.
type Targeting string

const (
	// TargetScored weighs every reachable lighthouse by keys, connection
	// opportunities, triangle area and distance.
	TargetScored Targeting = "scored"
	// TargetNearest walks to the closest lighthouse we do not own.
	TargetNearest Targeting = "nearest"
)

// Profile is the tunable posture of the heuristic bot. The compiler turns
// it into concrete rule conditions.
type Profile struct {
	Name string `json:"name"`
	// CaptureThreshold: attack only with strictly more energy than this.
	CaptureThreshold int `json:"capture_threshold"`
	// AttackOwned lets the attack rule recharge lighthouses we already own.
	AttackOwned bool `json:"attack_owned"`
	// HarvestThreshold: below this energy the bot looks for energy nearby.
	HarvestThreshold int `json:"harvest_threshold"`
	// GateHarvest requires the best neighbor to offer more than MinHarvestGain.
	GateHarvest    bool      `json:"gate_harvest"`
	MinHarvestGain int       `json:"min_harvest_gain"`
	Targeting      Targeting `json:"targeting"`
}

// Refined is the scoring bot: higher thresholds, gated harvesting and
// weighted lighthouse selection.
func Refined() Profile {
	return Profile{
		Name:             "refined",
		CaptureThreshold: 100,
		AttackOwned:      true,
		HarvestThreshold: 700,
		GateHarvest:      true,
		MinHarvestGain:   10,
		Targeting:        TargetScored,
	}
}

// Simple is the first-generation bot: attack early, always harvest when
// low, walk to the nearest foreign lighthouse.
func Simple() Profile {
	return Profile{
		Name:             "simple",
		CaptureThreshold: 10,
		AttackOwned:      false,
		HarvestThreshold: 1000,
		GateHarvest:      false,
		Targeting:        TargetNearest,
	}
}

// ProfileByName resolves the --variant flag.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "refined", "":
		return Refined(), nil
	case "simple":
		return Simple(), nil
	default:
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
}

// Validate clamps thresholds to non-negative values and defaults the
// targeting mode.
func (p *Profile) Validate() {
	p.CaptureThreshold = max(p.CaptureThreshold, 0)
	p.HarvestThreshold = max(p.HarvestThreshold, 0)
	p.MinHarvestGain = max(p.MinHarvestGain, 0)
	if p.Targeting != TargetScored && p.Targeting != TargetNearest {
		p.Targeting = TargetScored
	}
}
