// Package combat resolves melee and ranged attacks and applies damage.
package combat

import (
	"context"
	"fmt"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/shadowgrid/internal/telemetry"
)

// Combatant is anything that can be hit. Both the player and enemies implement it.
type Combatant interface {
	GetName() string
	IsAlive() bool
	GetHP() int
	GetMaxHP() int
	TakeDamage(amount int) int // Returns actual damage taken
}

// Rules are the fixed combat parameters.
type Rules struct {
	MeleeMin, MeleeMax int     // Inclusive melee damage range
	EnemyHitChance     float64 // Chance a gunman's shot lands
	EnemyShotDamage    int     // Damage of a landed gunman shot
}

// DefaultRules returns 1-5 melee and a coin-flip gunman shot for 1.
func DefaultRules() Rules {
	return Rules{
		MeleeMin:        1,
		MeleeMax:        5,
		EnemyHitChance:  0.5,
		EnemyShotDamage: 1,
	}
}

// Result is the outcome of one attack.
type Result struct {
	Hit     bool
	Damage  int
	Killed  bool
	Message string // Human-readable log line
}

// DeathFunc is called exactly once for each combatant whose HP reaches zero.
// It runs before the attack returns, so bookkeeping is done by the time the caller sees the result.
type DeathFunc func(ctx context.Context, victim Combatant)

// Resolver calculates and applies attack outcomes.
type Resolver struct {
	rng     *rand.Rand
	rules   Rules
	onDeath DeathFunc
	tracer  trace.Tracer
}

// NewResolver creates a resolver. onDeath may be nil.
func NewResolver(rng *rand.Rand, rules Rules, onDeath DeathFunc) *Resolver {
	if rules.MeleeMax < rules.MeleeMin {
		rules.MeleeMax = rules.MeleeMin
	}
	return &Resolver{
		rng:     rng,
		rules:   rules,
		onDeath: onDeath,
		tracer:  telemetry.Tracer("combat"),
	}
}

// Rules returns the parameters the resolver was built with.
func (r *Resolver) Rules() Rules {
	return r.rules
}

// Melee resolves a bump attack. It always hits for a random amount in the melee range.
func (r *Resolver) Melee(ctx context.Context, attacker, target Combatant) Result {
	ctx, span := r.tracer.Start(ctx, "combat.melee")
	defer span.End()

	roll := r.rules.MeleeMin + r.rng.Intn(r.rules.MeleeMax-r.rules.MeleeMin+1)
	dealt, killed := r.ApplyDamage(ctx, target, roll)

	span.SetAttributes(
		attribute.String("attacker", attacker.GetName()),
		attribute.String("target", target.GetName()),
		attribute.Int("damage", dealt),
		attribute.Bool("killed", killed),
	)
	return Result{
		Hit:     true,
		Damage:  dealt,
		Killed:  killed,
		Message: fmt.Sprintf("%s hit %s for %d.", attacker.GetName(), target.GetName(), dealt),
	}
}

// Shoot applies a validated player shot for a fixed amount.
func (r *Resolver) Shoot(ctx context.Context, shooter, target Combatant, damage int) Result {
	ctx, span := r.tracer.Start(ctx, "combat.shoot")
	defer span.End()

	dealt, killed := r.ApplyDamage(ctx, target, damage)

	span.SetAttributes(
		attribute.String("shooter", shooter.GetName()),
		attribute.String("target", target.GetName()),
		attribute.Int("damage", dealt),
		attribute.Bool("killed", killed),
	)
	return Result{
		Hit:     true,
		Damage:  dealt,
		Killed:  killed,
		Message: fmt.Sprintf("%s shot %s for %d.", shooter.GetName(), target.GetName(), dealt),
	}
}

// EnemyShot flips the hit-chance coin. A hit deals the fixed enemy shot damage.
// Enemies have unlimited ammunition.
func (r *Resolver) EnemyShot(ctx context.Context, shooter, target Combatant) Result {
	ctx, span := r.tracer.Start(ctx, "combat.enemy_shot")
	defer span.End()

	hit := r.rng.Float64() < r.rules.EnemyHitChance
	span.SetAttributes(
		attribute.String("shooter", shooter.GetName()),
		attribute.String("target", target.GetName()),
		attribute.Bool("hit", hit),
	)
	if !hit {
		return Result{Message: fmt.Sprintf("%s shot at %s and missed.", shooter.GetName(), target.GetName())}
	}

	dealt, killed := r.ApplyDamage(ctx, target, r.rules.EnemyShotDamage)
	span.SetAttributes(attribute.Int("damage", dealt))
	return Result{
		Hit:     true,
		Damage:  dealt,
		Killed:  killed,
		Message: fmt.Sprintf("%s shot %s for %d.", shooter.GetName(), target.GetName(), dealt),
	}
}

// ApplyDamage subtracts amount from target, clamped at zero. The death callback
// fires only on the alive-to-dead edge, so a dead target never dies twice.
func (r *Resolver) ApplyDamage(ctx context.Context, target Combatant, amount int) (dealt int, killed bool) {
	wasAlive := target.IsAlive()
	dealt = target.TakeDamage(amount)
	killed = wasAlive && !target.IsAlive()
	if killed && r.onDeath != nil {
		r.onDeath(ctx, target)
	}
	return dealt, killed
}
