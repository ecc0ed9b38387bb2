package ecs

// Kind identifies a component type. The set is closed: gameplay code works
// against this enumeration rather than registering arbitrary named components,
// so signatures are plain bitmasks and lookups never go through strings.
type Kind uint8

const (
	KindDevice Kind = iota // controller handle owned by the input layer
	KindIdentity
	KindVisual
	KindTrailSurface
	KindTrailBuffers
	KindGripBound

	KindCount
)

var kindNames = [KindCount]string{
	"device",
	"identity",
	"visual",
	"trail_surface",
	"trail_buffers",
	"grip_bound",
}

func (k Kind) String() string {
	if k >= KindCount {
		return "invalid"
	}
	return kindNames[k]
}

// Component is implemented by every attachable component type.
type Component interface {
	Kind() Kind
}
