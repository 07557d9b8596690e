package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ReactionKind identifies one of the fixed reaction multiplier slots a
// Config carries a base value for. It is a closed set: Config.ReactionMV
// returns ErrUnknownReaction for any other value.
type ReactionKind string

// The seven reaction kinds the damage formula and reaction state machine
// draw base multipliers for.
const (
	ReactionBurst   ReactionKind = "burst"
	ReactionGeneric ReactionKind = "reaction"
	ReactionBurning ReactionKind = "burning_dot"
	ReactionFrozen  ReactionKind = "frozen"
	ReactionShatter ReactionKind = "shatter"
	ReactionImpact  ReactionKind = "impact"
	ReactionBreak   ReactionKind = "break"
)

// ErrUnknownReaction is returned by Config.ReactionMV when asked for a
// reaction kind outside the fixed set above.
var ErrUnknownReaction = fmt.Errorf("config: unknown reaction kind")

// Config is the immutable numeric bundle shared by every subsystem in
// pkg/combat. A single instance is constructed once per simulation and
// passed by reference; nothing in pkg/combat mutates it.
//
// Config is safe for concurrent reads once constructed. mu only guards
// the rare case of a host reloading values between simulation runs via
// LoadFromYAML.
type Config struct {
	mu sync.RWMutex `yaml:"-"`

	// TickRate is the number of ticks per simulated second (default 10,
	// i.e. one tick = 0.1s).
	TickRate int `yaml:"tick_rate"`

	// DefenseFormulaConst is the constant in the defense zone:
	// 100 / (100 + defense).
	DefenseFormulaConst float64 `yaml:"defense_formula_const"`

	// MaxAttachmentStacks caps magic element attachment stacks (spec: 4).
	MaxAttachmentStacks int `yaml:"max_attachment_stacks"`

	// MaxPhysBreakStacks caps physical break stacks (spec: 4).
	MaxPhysBreakStacks int `yaml:"max_phys_break_stacks"`

	// StaggerVulnMultiplier is the flat multiplier (zone 10) applied
	// while a target is staggered, and the amount added to general
	// vulnerability (zone 5) while staggered: stagger_vuln_multiplier-1.
	StaggerVulnMultiplier float64 `yaml:"stagger_vuln_multiplier"`

	// StaggerDurationSeconds is how long a target stays staggered once
	// its stagger gauge reaches its threshold (spec §3/§8 scenario 5).
	StaggerDurationSeconds float64 `yaml:"stagger_duration_seconds"`

	// ReactionBaseMV maps each ReactionKind to its base multiplier
	// value (percent, e.g. 160 means 1.60x before level/tech scaling).
	ReactionBaseMV map[ReactionKind]float64 `yaml:"reaction_base_mv"`

	// ReactionDurationSeconds maps a derived-effect name (burning,
	// conductive, frozen, corrosion, shatter_armor) to its default
	// duration in seconds.
	ReactionDurationSeconds map[string]float64 `yaml:"reaction_duration_seconds"`

	// ReactionCoefficients holds the growth coefficients for derived
	// reaction effects (conductive vuln, corrosion shred/tick/cap,
	// shatter-armor vuln, frozen duration). See ReactionCoefficient keys
	// below for the recognized names.
	ReactionCoefficients map[string]float64 `yaml:"reaction_coefficients"`

	// TechPowerCoefficient and TechPowerMultiplier parameterize
	// TechEnhance: value * (1 + TechPowerMultiplier*tech/(tech+TechPowerCoefficient)).
	TechPowerCoefficient float64 `yaml:"tech_power_coefficient"`
	TechPowerMultiplier  float64 `yaml:"tech_power_multiplier"`

	// CritRateFloor and CritRateCap clamp crit_rate before it enters
	// the crit zone of the damage formula.
	CritRateFloor float64 `yaml:"crit_rate_floor"`
	CritRateCap   float64 `yaml:"crit_rate_cap"`

	// DefaultDotInterval is the default DoT tick interval, in seconds.
	DefaultDotInterval float64 `yaml:"default_dot_interval"`

	// LogLevel names a logrus level (debug, info, warn, error). It is
	// loaded and saved with the bundle but not applied to any logger.
	LogLevel string `yaml:"log_level"`

	// EnableDamageLog, EnableBuffLog and EnableReactionLog gate
	// structured log lines: damage from the damage pipeline; action-
	// blocked and equipment-triggered buff lines; reaction lines and the
	// derived effects reactions apply. Effect expiry lines from
	// per-tick effect processing are not gated by any of them.
	EnableDamageLog   bool `yaml:"enable_damage_log"`
	EnableBuffLog     bool `yaml:"enable_buff_log"`
	EnableReactionLog bool `yaml:"enable_reaction_log"`
}

// Reaction coefficient keys recognized in ReactionCoefficients.
const (
	CoefConductiveBaseVuln  = "conductive_base_vuln"
	CoefConductivePerLevel  = "conductive_per_level"
	CoefCorrosionBaseShred  = "corrosion_base_shred"
	CoefCorrosionPerLevel   = "corrosion_per_level"
	CoefCorrosionTickBase   = "corrosion_tick_base"
	CoefCorrosionTickLevel  = "corrosion_tick_level"
	CoefCorrosionMaxBase    = "corrosion_max_base"
	CoefCorrosionMaxLevel   = "corrosion_max_level"
	CoefShatterArmorBase    = "shatter_armor_base"
	CoefShatterArmorPerLvl  = "shatter_armor_per_level"
	CoefFrozenBaseDuration  = "frozen_base_duration"
	CoefFrozenPerLevel      = "frozen_per_level"
)

// Default returns a Config populated with the same numeric defaults as
// the original simulation's ConfigManager, validated before return.
func Default() *Config {
	logrus.WithFields(logrus.Fields{
		"function": "Default",
		"package":  "config",
	}).Debug("building default configuration")

	cfg := &Config{
		TickRate:               10,
		DefenseFormulaConst:    100.0,
		MaxAttachmentStacks:    4,
		MaxPhysBreakStacks:     4,
		StaggerVulnMultiplier:  1.3,
		StaggerDurationSeconds: 5.0,
		ReactionBaseMV: map[ReactionKind]float64{
			ReactionBurst:   160,
			ReactionGeneric: 80,
			ReactionBurning: 12,
			ReactionFrozen:  130,
			ReactionShatter: 120,
			ReactionImpact:  150,
			ReactionBreak:   50,
		},
		ReactionDurationSeconds: map[string]float64{
			"burning":       10.0,
			"conductive":    12.0,
			"frozen":        6.0,
			"corrosion":     15.0,
			"shatter_armor": 12.0,
		},
		ReactionCoefficients: map[string]float64{
			CoefConductiveBaseVuln: 0.08,
			CoefConductivePerLevel: 0.04,
			CoefCorrosionBaseShred: 0.024,
			CoefCorrosionPerLevel:  0.012,
			CoefCorrosionTickBase:  0.0056,
			CoefCorrosionTickLevel: 0.0028,
			CoefCorrosionMaxBase:   0.08,
			CoefCorrosionMaxLevel:  0.04,
			CoefShatterArmorBase:   0.08,
			CoefShatterArmorPerLvl: 0.03,
			CoefFrozenBaseDuration: 6.0,
			CoefFrozenPerLevel:     1.0,
		},
		TechPowerCoefficient: 300.0,
		TechPowerMultiplier:  2.0,
		CritRateFloor:        0.0,
		CritRateCap:          1.0,
		DefaultDotInterval:   1.0,
		LogLevel:             "info",
		EnableDamageLog:      true,
		EnableBuffLog:        true,
		EnableReactionLog:    true,
	}

	if err := cfg.validate(); err != nil {
		// Defaults are constants under our control; a failure here is
		// a programming error, not a runtime condition to recover from.
		panic(fmt.Errorf("config: invalid defaults: %w", err))
	}
	return cfg
}

// LoadFromYAML reads a Config from a YAML file, overlaying Default()
// for any field left unset by a partial document, then validates it.
func LoadFromYAML(path string) (*Config, error) {
	logrus.WithFields(logrus.Fields{
		"function": "LoadFromYAML",
		"package":  "config",
		"path":     path,
	}).Debug("loading configuration from yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "LoadFromYAML",
			"package":  "config",
			"error":    err,
		}).Error("configuration validation failed")
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

// SaveToYAML writes the Config to path, creating or truncating it.
func (c *Config) SaveToYAML(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// validate checks internal consistency: positive tick rate, a crit
// range that doesn't invert, and non-negative caps.
func (c *Config) validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.MaxAttachmentStacks <= 0 || c.MaxPhysBreakStacks <= 0 {
		return fmt.Errorf("attachment/break stack caps must be positive")
	}
	if c.CritRateFloor > c.CritRateCap {
		return fmt.Errorf("crit_rate_floor (%v) must not exceed crit_rate_cap (%v)", c.CritRateFloor, c.CritRateCap)
	}
	if c.DefenseFormulaConst <= 0 {
		return fmt.Errorf("defense_formula_const must be positive")
	}
	return nil
}

// ReactionMV computes the reaction multiplier value (percent) for the
// given kind, level (attachment stacks or break stacks), technique
// power, attacker level, and whether the reaction is magic (true) or
// physical (false), per the formula in spec §4.1:
//
//	base[kind] * (1+level) * (1 + tech_power/100) * level_coefficient
//
// where level_coefficient is 1+(attacker_level-1)/196 for magic and
// 1+(attacker_level-1)/392 for physical. Returns ErrUnknownReaction if
// kind is not one of the seven recognized ReactionKind values.
func (c *Config) ReactionMV(kind ReactionKind, level int, techPower float64, attackerLevel int, isMagic bool) (float64, error) {
	c.mu.RLock()
	base, ok := c.ReactionBaseMV[kind]
	c.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownReaction, kind)
	}

	levelMult := base * (1.0 + float64(level))
	techMult := 1.0 + techPower/100.0

	lvl := attackerLevel
	if lvl < 1 {
		lvl = 1
	}
	var levelCoeff float64
	if isMagic {
		levelCoeff = 1.0 + float64(lvl-1)/196.0
	} else {
		levelCoeff = 1.0 + float64(lvl-1)/392.0
	}

	return levelMult * techMult * levelCoeff, nil
}

// TechEnhance computes the technique-power enhancement factor applied
// to derived-effect magnitudes (e.g. a corrosion shred cap, a
// shatter-armor vulnerability): value * (1 + 2*tech/(tech+300)).
func (c *Config) TechEnhance(value, techPower float64) float64 {
	c.mu.RLock()
	mult, coeff := c.TechPowerMultiplier, c.TechPowerCoefficient
	c.mu.RUnlock()

	if techPower <= 0 {
		return value
	}
	return value * (1.0 + mult*techPower/(techPower+coeff))
}

// Coefficient returns a named reaction coefficient, or 0 if absent.
func (c *Config) Coefficient(name string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ReactionCoefficients[name]
}

// ReactionDuration returns the default duration, in ticks, of the
// named derived effect (burning, conductive, frozen, corrosion,
// shatter_armor), using TickRate to convert from the configured
// seconds value.
func (c *Config) ReactionDuration(name string) int {
	c.mu.RLock()
	seconds := c.ReactionDurationSeconds[name]
	rate := c.TickRate
	c.mu.RUnlock()
	return int(seconds * float64(rate))
}

// StaggerDurationTicks returns the configured stagger duration, in
// ticks, derived from StaggerDurationSeconds and TickRate.
func (c *Config) StaggerDurationTicks() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(c.StaggerDurationSeconds * float64(c.TickRate))
}

// TicksPerSecond reports the configured tick rate.
func (c *Config) TicksPerSecond() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.TickRate
}
