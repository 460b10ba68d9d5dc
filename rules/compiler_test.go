package rules

import (
	"strings"
	"testing"

	"github.com/expr-lang/expr"
)

func TestCompileProfileRefined(t *testing.T) {
	rules := CompileProfile(Refined())

	if len(rules) == 0 {
		t.Fatal("CompileProfile returned no rules")
	}

	// Verify all rules compile with expr
	for _, r := range rules {
		_, err := expr.Compile(r.ConditionSrc, expr.Env(TurnEnv{}), expr.AsBool())
		if err != nil {
			t.Errorf("rule %q failed to compile: %v\ncondition: %s", r.Name, err, r.ConditionSrc)
		}
	}

	byName := make(map[string]*Rule)
	for _, r := range rules {
		byName[r.Name] = r
	}
	for _, name := range []string{"connect", "attack", "harvest", "seek-lighthouse"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("rule %q missing from compiled profile", name)
		}
	}

	if cond := byName["attack"].ConditionSrc; !strings.Contains(cond, "Energy() > 100") || strings.Contains(cond, "OwnsCurrent") {
		t.Errorf("refined attack condition = %q", cond)
	}
	if cond := byName["harvest"].ConditionSrc; !strings.Contains(cond, "Energy() < 700") || !strings.Contains(cond, "HarvestGain() > 10") {
		t.Errorf("refined harvest condition = %q", cond)
	}
}

func TestCompileProfileSimple(t *testing.T) {
	rules := CompileProfile(Simple())

	byName := make(map[string]*Rule)
	for _, r := range rules {
		_, err := expr.Compile(r.ConditionSrc, expr.Env(TurnEnv{}), expr.AsBool())
		if err != nil {
			t.Errorf("rule %q failed to compile: %v", r.Name, err)
		}
		byName[r.Name] = r
	}

	if cond := byName["attack"].ConditionSrc; !strings.Contains(cond, "!OwnsCurrent()") || !strings.Contains(cond, "Energy() > 10") {
		t.Errorf("simple attack condition = %q", cond)
	}
	if cond := byName["harvest"].ConditionSrc; strings.Contains(cond, "HarvestGain") || !strings.Contains(cond, "Energy() < 1000") {
		t.Errorf("simple harvest condition = %q", cond)
	}
}

func TestCompileProfileClampsNegativeThresholds(t *testing.T) {
	p := Refined()
	p.CaptureThreshold = -50
	p.HarvestThreshold = -1
	rules := CompileProfile(p)

	for _, r := range rules {
		if strings.Contains(r.ConditionSrc, "-") {
			t.Errorf("rule %q kept a negative threshold: %s", r.Name, r.ConditionSrc)
		}
	}
}

func TestProfileValidate(t *testing.T) {
	p := Profile{CaptureThreshold: -1, HarvestThreshold: -2, MinHarvestGain: -3, Targeting: "bogus"}
	p.Validate()

	if p.CaptureThreshold != 0 || p.HarvestThreshold != 0 || p.MinHarvestGain != 0 {
		t.Errorf("thresholds not clamped: %+v", p)
	}
	if p.Targeting != TargetScored {
		t.Errorf("Targeting = %q, want %q", p.Targeting, TargetScored)
	}
}

func TestProfileByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"refined", "refined", false},
		{"", "refined", false},
		{"simple", "simple", false},
		{"learned", "", true},
	}
	for _, tc := range tests {
		p, err := ProfileByName(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("ProfileByName(%q) error = %v, wantErr %v", tc.name, err, tc.wantErr)
			continue
		}
		if p.Name != tc.want {
			t.Errorf("ProfileByName(%q).Name = %q, want %q", tc.name, p.Name, tc.want)
		}
	}
}
