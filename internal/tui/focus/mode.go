package focus

// Mode represents which field, if any, receives typed characters.
type Mode int

const (
	ModeURIEditing Mode = iota
	ModeNormal
	ModePayloadEditing
)

// Modes is the cycle order walked by Advance and Retreat.
var Modes = []Mode{ModeURIEditing, ModeNormal, ModePayloadEditing}

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeURIEditing:
		return "URI"
	case ModeNormal:
		return "NORMAL"
	case ModePayloadEditing:
		return "PAYLOAD"
	default:
		return "UNKNOWN"
	}
}

// IsEditing returns true for the modes that route characters to a field.
func (m Mode) IsEditing() bool {
	return m == ModeURIEditing || m == ModePayloadEditing
}

// Controller handles mode state and transitions.
type Controller struct {
	index    int
	previous Mode
}

// NewController creates a controller starting in URI editing mode.
func NewController() *Controller {
	return &Controller{
		index:    0,
		previous: ModeURIEditing,
	}
}

// Current returns the current mode.
func (c *Controller) Current() Mode {
	return Modes[c.index]
}

// Previous returns the mode before the most recent transition.
func (c *Controller) Previous() Mode {
	return c.previous
}

// Advance moves to the next mode in the cycle.
func (c *Controller) Advance() {
	c.previous = c.Current()
	c.index = (c.index + 1) % len(Modes)
}

// Retreat moves to the previous mode in the cycle.
func (c *Controller) Retreat() {
	c.previous = c.Current()
	c.index = (c.index - 1 + len(Modes)) % len(Modes)
}

// Is returns true if the current mode is m.
func (c *Controller) Is(m Mode) bool {
	return c.Current() == m
}
