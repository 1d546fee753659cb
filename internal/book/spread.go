package book

// Facing says which face of a surface a piece of content is printed on.
type Facing int

const (
	FacingFront Facing = iota
	FacingBack
)

func (f Facing) String() string {
	if f == FacingBack {
		return "back"
	}
	return "front"
}

// Role is what a surface is doing in the current frame.
type Role int

const (
	RoleStatic Role = iota
	RoleUnderneath
	RoleTurning
)

func (r Role) String() string {
	switch r {
	case RoleUnderneath:
		return "underneath"
	case RoleTurning:
		return "turning"
	default:
		return "static"
	}
}

// Layer z-orders, low to high.
const (
	ZStatic     = 0
	ZUnderneath = 1
	ZTurning    = 2
)

// Surface is one piece of content to draw. The turning page contributes two
// surfaces with the same Z, one per facing.
type Surface struct {
	Content Entry
	Facing  Facing
	Z       int
	Side    Side // resting side; a turning page starts on this side
	Role    Role
}

// Render lays out the surfaces for deck d under animator a, lowest Z first.
// Absent pages are omitted.
func Render(d *Deck, a *Animator) []Surface {
	var out []Surface
	add := func(e Entry, ok bool, facing Facing, z int, side Side, role Role) {
		if !ok {
			return
		}
		out = append(out, Surface{Content: e, Facing: facing, Z: z, Side: side, Role: role})
	}

	switch a.State() {
	case StateFlippingForward:
		left, okL := d.Left()
		add(left, okL, FacingFront, ZStatic, SideLeft, RoleStatic)
		under, okU := d.Adjacent(Forward, SideRight)
		add(under, okU, FacingFront, ZUnderneath, SideRight, RoleUnderneath)
		front, okF := d.Right()
		add(front, okF, FacingFront, ZTurning, SideRight, RoleTurning)
		back, okB := d.Adjacent(Forward, SideLeft)
		add(back, okB, FacingBack, ZTurning, SideRight, RoleTurning)

	case StateFlippingBackward:
		right, okR := d.Right()
		add(right, okR, FacingFront, ZStatic, SideRight, RoleStatic)
		under, okU := d.Adjacent(Backward, SideLeft)
		add(under, okU, FacingFront, ZUnderneath, SideLeft, RoleUnderneath)
		front, okF := d.Left()
		add(front, okF, FacingFront, ZTurning, SideLeft, RoleTurning)
		back, okB := d.Adjacent(Backward, SideRight)
		add(back, okB, FacingBack, ZTurning, SideLeft, RoleTurning)

	default:
		left, okL := d.Left()
		add(left, okL, FacingFront, ZStatic, SideLeft, RoleStatic)
		right, okR := d.Right()
		add(right, okR, FacingFront, ZStatic, SideRight, RoleStatic)
	}
	return out
}

// TurnAngle converts flip progress into the turning page's rotation in
// degrees, 0 at rest and 180 once fully turned.
func TurnAngle(progress float64) float64 {
	switch {
	case progress <= 0:
		return 0
	case progress >= 1:
		return 180
	default:
		return progress * 180
	}
}

// VisibleFacing returns which face of the turning page faces the reader at
// the given progress.
func VisibleFacing(progress float64) Facing {
	if TurnAngle(progress) < 90 {
		return FacingFront
	}
	return FacingBack
}
