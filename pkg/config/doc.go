// Package config provides the immutable numeric configuration bundle
// consumed by the combat simulation core in pkg/combat.
//
// Unlike a server configuration (ports, CORS, rate limits), this bundle
// holds only the constants the damage formula, reaction state machine,
// and scheduler need: tick rate, reaction base multipliers and growth
// coefficients, technique-power enhancement parameters, and logging
// toggles. It can be constructed with defaults or loaded from YAML.
package config
