// Package entity provides the player and enemy actors.
package entity

import (
	"github.com/google/uuid"

	"github.com/samdwyer/shadowgrid/internal/world"
)

// Actor is what the turn scheduler and the session know about every participant.
type Actor interface {
	ID() string
	GetName() string
	Position() world.Point
	IsAlive() bool
	IsPlayer() bool
}

func newID() string {
	return uuid.NewString()
}

// Health tracks current and maximum hit points. Embedded by both actor kinds.
type Health struct {
	HP    int
	MaxHP int
}

// IsAlive returns true while HP is above zero.
func (h *Health) IsAlive() bool { return h.HP > 0 }

// GetHP returns current hit points.
func (h *Health) GetHP() int { return h.HP }

// GetMaxHP returns maximum hit points.
func (h *Health) GetMaxHP() int { return h.MaxHP }

// TakeDamage reduces HP, never below zero, and returns the damage actually taken.
func (h *Health) TakeDamage(amount int) int {
	if amount <= 0 || h.HP <= 0 {
		return 0
	}
	actual := min(amount, h.HP)
	h.HP -= actual
	return actual
}
