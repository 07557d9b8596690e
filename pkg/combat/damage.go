package combat

// DamageInput bundles the arguments Config.Calculate needs beyond
// what the two panels already carry: the skill's base motion value,
// the element and move type of the hit, and whether it rolled a
// critical hit.
type DamageInput struct {
	Attacker  *AttackerPanel
	Defender  *DefenderPanel
	SkillMV   float64
	Element   Element
	MoveType  MoveType
	IsCrit    bool
}

// DamageBreakdown records the running product after each of the
// fourteen zones, for diagnostics and tests that assert a specific
// zone's contribution without recomputing the whole chain by hand.
type DamageBreakdown struct {
	BaseDamage              float64
	AfterCrit               float64
	AfterBonus              float64
	AfterDmgReduction       float64
	AfterVuln               float64
	AfterAmplification      float64
	AfterSanctuary          float64
	AfterFragility          float64
	AfterDefense            float64
	AfterStaggerVuln        float64
	AfterDmgReductionExtra  float64
	AfterRes                float64
	AfterNonMain            float64
	Final                   int
}

// Calculate applies the fourteen-zone damage formula in its fixed,
// non-reorderable sequence (spec §4.2 / original core/calculator.py):
//
//  1. base = atk * (mv/100)
//  2. crit multiplier: 1 + crit_rate*crit_dmg if crit else 1
//  3. additive bonus multiplier: 1 + dmg_bonus + move_bonus + elem_bonus + stagger_bonus
//  4. damage reduction: 1 - dmg_reduction
//  5. vulnerability: 1 + general_vuln + (phys_or_magic_vuln) + per_element_vuln
//  6. amplification: 1 + amplification
//  7. sanctuary: 1 - sanctuary
//  8. fragility: 1 + fragility + per_element_fragility
//  9. defense: 100 / (100 + max(0, defense))
//  10. stagger vulnerability: cfg.StaggerVulnMultiplier if staggered else 1
//  11. extra damage reduction: 1 - dmg_reduction_extra
//  12. resistance: 1 - max(0, raw_res - res_pen)
//  13. non-main penalty (default neutral 1.0)
//  14. special bonus: 1 + special_bonus
//
// The final result is floored to an int, matching the original's
// int(...) truncation.
func (cfg *Config) Calculate(in DamageInput) (int, DamageBreakdown) {
	a, d := in.Attacker, in.Defender
	var b DamageBreakdown

	// Zone 1: base damage.
	base := a.FinalATK * (in.SkillMV / 100)
	b.BaseDamage = base

	// Zone 2: crit.
	critRate := ClampCritRate(a.CritRate, cfg.CritRateFloor, cfg.CritRateCap)
	critMult := 1.0
	if in.IsCrit {
		critMult = 1.0 + critRate*a.CritDmg
	}
	afterCrit := base * critMult
	b.AfterCrit = afterCrit

	// Zone 3: additive bonus multiplier.
	moveBonus := a.MoveDmgBonus[in.MoveType]
	elemBonus := a.ElementDmgBonus[in.Element]
	bonusMult := 1.0 + a.DmgBonus + moveBonus + elemBonus + a.StaggerDmgBonus
	afterBonus := afterCrit * bonusMult
	b.AfterBonus = afterBonus

	// Zone 4: damage reduction.
	dmgReductionMult := 1.0 - d.DmgReduction
	afterDmgReduction := afterBonus * dmgReductionMult
	b.AfterDmgReduction = afterDmgReduction

	// Zone 5: vulnerability.
	physOrMagicVuln := d.PhysVuln
	if in.Element.IsMagic() {
		physOrMagicVuln = d.MagicVuln
	}
	vulnMult := 1.0 + d.Vuln + physOrMagicVuln + d.ElementVuln[in.Element]
	afterVuln := afterDmgReduction * vulnMult
	b.AfterVuln = afterVuln

	// Zone 6: amplification.
	ampMult := 1.0 + a.Amplification
	afterAmp := afterVuln * ampMult
	b.AfterAmplification = afterAmp

	// Zone 7: sanctuary.
	sanctuaryMult := 1.0 - d.Sanctuary
	afterSanctuary := afterAmp * sanctuaryMult
	b.AfterSanctuary = afterSanctuary

	// Zone 8: fragility.
	fragilityMult := 1.0 + d.Fragility + d.ElementFragility[in.Element]
	afterFragility := afterSanctuary * fragilityMult
	b.AfterFragility = afterFragility

	// Zone 9: defense.
	defense := d.Defense
	if defense < 0 {
		defense = 0
	}
	defMult := cfg.DefenseFormulaConst / (cfg.DefenseFormulaConst + defense)
	afterDefense := afterFragility * defMult
	b.AfterDefense = afterDefense

	// Zone 10: stagger vulnerability.
	staggerVulnMult := 1.0
	if d.Staggered {
		staggerVulnMult = cfg.StaggerVulnMultiplier
	}
	afterStaggerVuln := afterDefense * staggerVulnMult
	b.AfterStaggerVuln = afterStaggerVuln

	// Zone 11: extra damage reduction.
	dmgReductionExtraMult := 1.0 - d.DmgReductionExtra
	afterDmgReductionExtra := afterStaggerVuln * dmgReductionExtraMult
	b.AfterDmgReductionExtra = afterDmgReductionExtra

	// Zone 12: resistance. Prefers the hit's per-element resistance;
	// falls back to the binary phys/magic resistance when no per-element
	// value was configured for that element.
	rawRes, ok := d.ElementRes[in.Element]
	if !ok {
		if in.Element.IsMagic() {
			rawRes = d.MagicRes
		} else {
			rawRes = d.PhysRes
		}
	}
	effectiveRes := rawRes - a.ResPen
	if effectiveRes < 0 {
		effectiveRes = 0
	}
	if effectiveRes > 1 {
		effectiveRes = 1
	}
	resMult := 1.0 - effectiveRes
	afterRes := afterDmgReductionExtra * resMult
	b.AfterRes = afterRes

	// Zone 13: non-main penalty.
	nonMainMult := a.NonMainPenalty
	if nonMainMult == 0 {
		nonMainMult = 1.0
	}
	afterNonMain := afterRes * nonMainMult
	b.AfterNonMain = afterNonMain

	// Zone 14: special bonus.
	specialMult := 1.0 + a.SpecialBonus
	final := afterNonMain * specialMult

	if final < 0 {
		final = 0
	}
	b.Final = int(final)
	return b.Final, b
}
