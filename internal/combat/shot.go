package combat

import "errors"

// Shot precondition failures. The text doubles as the reason shown to the player.
var (
	ErrNoAmmo     = errors.New("out of ammo")
	ErrNotVisible = errors.New("you can't see that spot")
	ErrNoTarget   = errors.New("nothing to shoot there")
	ErrOutOfRange = errors.New("target is out of range")
)

// ShotCheck gathers what a player shot depends on.
type ShotCheck struct {
	Ammo          int
	TargetVisible bool      // Target cell is in the shooter's current view
	Target        Combatant // Live enemy on the target cell, or nil
	Distance      int       // Chebyshev distance to the target cell
	Range         int
}

// ValidateShot checks ammo, visibility, occupancy and range, in that order.
func ValidateShot(c ShotCheck) error {
	switch {
	case c.Ammo <= 0:
		return ErrNoAmmo
	case !c.TargetVisible:
		return ErrNotVisible
	case c.Target == nil || !c.Target.IsAlive():
		return ErrNoTarget
	case c.Distance > c.Range:
		return ErrOutOfRange
	default:
		return nil
	}
}
