// Package interaction owns the collapse and highlight state of a rendered
// element graph and turns raw click events into state transitions.
//
// A click on a metanode is ambiguous until the double-click window elapses.
// The controller arms on the first click and returns a Pending token; the
// host schedules a callback that calls Expire with that token once the
// window has passed. A second click on the same metanode inside the window
// consumes the arm and toggles the metanode instead.
package interaction

import (
	"log/slog"
	"time"

	"github.com/ikari-pl/go-graphscope/internal/graph"
)

// DefaultWindow is the double-click window.
const DefaultWindow = 400 * time.Millisecond

// Renderer receives the side effects of state transitions.
type Renderer interface {
	// RequestLayout asks for a re-layout after a scope toggled. It must not
	// block.
	RequestLayout(scopeID string, collapsed bool)

	// SetHighlighted marks or unmarks one element.
	SetHighlighted(id string, on bool)
}

// Observer is notified of every transition, e.g. for metrics.
type Observer interface {
	Transition(kind string)
}

// Transition kinds reported to the Observer.
const (
	TransitionArm       = "arm"
	TransitionToggle    = "toggle"
	TransitionHighlight = "highlight"
	TransitionClear     = "clear"
	TransitionStale     = "stale"
	TransitionReset     = "reset"
)

// Action is the outcome of a click or expiry.
type Action int

const (
	ActionNone Action = iota
	ActionArmed
	ActionToggled
	ActionHighlighted
	ActionCleared
)

func (a Action) String() string {
	switch a {
	case ActionArmed:
		return "armed"
	case ActionToggled:
		return "toggled"
	case ActionHighlighted:
		return "highlighted"
	case ActionCleared:
		return "cleared"
	default:
		return "none"
	}
}

// Pending asks the host to call Expire(Token) after the given delay.
type Pending struct {
	Token uint64
	After time.Duration
}

// Result describes what a click or expiry did.
type Result struct {
	Action  Action
	ID      string
	Pending *Pending
}

type clickState int

const (
	idle clickState = iota
	armed
)

// Controller is the interaction state machine. It is not safe for
// concurrent use; hosts drive it from their event loop.
type Controller struct {
	logger   *slog.Logger
	renderer Renderer
	observer Observer
	clock    Clock
	window   time.Duration

	graph     *graph.ElementGraph
	collapsed map[string]bool
	highlight string

	state   clickState
	token   uint64
	target  string
	armedAt time.Time
}

// Option customizes a Controller.
type Option func(*Controller)

// WithWindow sets the double-click window.
func WithWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithClock injects the time source.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithObserver registers a transition observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// NewController creates a controller with no graph. Call Reset before use.
func NewController(logger *slog.Logger, renderer Renderer, opts ...Option) *Controller {
	c := &Controller{
		logger:    logger,
		renderer:  renderer,
		clock:     SystemClock{},
		window:    DefaultWindow,
		collapsed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window returns the double-click window.
func (c *Controller) Window() time.Duration {
	return c.window
}

// Reset installs a freshly built graph: every metanode collapsed, no
// highlight, any pending click cancelled.
func (c *Controller) Reset(g *graph.ElementGraph) {
	c.graph = g
	c.collapsed = make(map[string]bool)
	if g != nil {
		for _, id := range g.Metanodes() {
			c.collapsed[id] = true
		}
	}
	c.highlight = ""
	c.disarm()
	c.notify(TransitionReset)
	c.logger.Debug("Interaction state reset", "metanodes", len(c.collapsed))
}

// Click handles a click on target. A nil target is a background click.
func (c *Controller) Click(target *graph.Element) Result {
	now := c.clock.Now()

	if target == nil {
		c.disarm()
		return c.clear()
	}

	if target.IsMetanode() {
		if c.state == armed && c.target == target.ID && now.Sub(c.armedAt) <= c.window {
			c.disarm()
			c.Toggle(target.ID)
			return Result{Action: ActionToggled, ID: target.ID}
		}
		return c.arm(target.ID, now)
	}

	c.disarm()
	c.setHighlight(target.ID)
	return Result{Action: ActionHighlighted, ID: target.ID}
}

// Expire resolves the arm identified by token as a single click. Stale
// tokens are ignored.
func (c *Controller) Expire(token uint64) Result {
	if c.state != armed || token != c.token {
		c.notify(TransitionStale)
		return Result{Action: ActionNone}
	}
	id := c.target
	c.disarm()
	res := c.clear()
	res.ID = id
	return res
}

// Armed reports whether a metanode click awaits resolution.
func (c *Controller) Armed() bool {
	return c.state == armed
}

// arm starts a new pending click on id. An arm already pending for another
// metanode is superseded without resolving: its token goes stale and only
// the new arm's expiry clears the highlight.
func (c *Controller) arm(id string, now time.Time) Result {
	c.token++
	c.state = armed
	c.target = id
	c.armedAt = now
	c.notify(TransitionArm)
	return Result{
		Action:  ActionArmed,
		ID:      id,
		Pending: &Pending{Token: c.token, After: c.window},
	}
}

// disarm drops any pending click; bumping the token invalidates callbacks
// already scheduled by the host.
func (c *Controller) disarm() {
	if c.state == armed {
		c.token++
	}
	c.state = idle
	c.target = ""
	c.armedAt = time.Time{}
}

func (c *Controller) clear() Result {
	if c.highlight != "" {
		c.renderer.SetHighlighted(c.highlight, false)
		c.highlight = ""
	}
	c.notify(TransitionClear)
	return Result{Action: ActionCleared}
}

func (c *Controller) setHighlight(id string) {
	if c.highlight == id {
		return
	}
	if c.highlight != "" {
		c.renderer.SetHighlighted(c.highlight, false)
	}
	c.highlight = id
	c.renderer.SetHighlighted(id, true)
	c.notify(TransitionHighlight)
}

// Toggle flips the collapse state of a metanode. Unknown ids are ignored.
func (c *Controller) Toggle(id string) bool {
	state, ok := c.collapsed[id]
	if !ok {
		c.logger.Debug("Toggle on unknown metanode ignored", "id", id)
		return false
	}
	c.apply(id, !state)
	return true
}

// SetCollapsed sets the collapse state of a metanode. Unknown ids are
// ignored.
func (c *Controller) SetCollapsed(id string, collapsed bool) bool {
	state, ok := c.collapsed[id]
	if !ok {
		return false
	}
	if state != collapsed {
		c.apply(id, collapsed)
	}
	return true
}

func (c *Controller) apply(id string, collapsed bool) {
	c.collapsed[id] = collapsed
	c.renderer.RequestLayout(id, collapsed)
	c.notify(TransitionToggle)
}

// ExpandAll expands every metanode.
func (c *Controller) ExpandAll() {
	c.setAll(false)
}

// CollapseAll collapses every metanode.
func (c *Controller) CollapseAll() {
	c.setAll(true)
}

func (c *Controller) setAll(collapsed bool) {
	if c.graph == nil {
		return
	}
	for _, id := range c.graph.Metanodes() {
		c.SetCollapsed(id, collapsed)
	}
}

// Collapsed reports whether the metanode id is collapsed.
func (c *Controller) Collapsed(id string) bool {
	return c.collapsed[id]
}

// Visible reports whether no ancestor of id is collapsed. Edges are visible
// when both endpoints are.
func (c *Controller) Visible(id string) bool {
	if c.graph == nil {
		return false
	}
	el, ok := c.graph.Element(id)
	if !ok {
		return false
	}
	if el.Kind == graph.KindEdge {
		return c.Visible(el.Source) && c.Visible(el.Target)
	}
	for _, anc := range c.graph.Ancestors(id) {
		if c.collapsed[anc] {
			return false
		}
	}
	return true
}

// Highlighted returns the highlighted element id, if any.
func (c *Controller) Highlighted() (string, bool) {
	return c.highlight, c.highlight != ""
}

func (c *Controller) notify(kind string) {
	if c.observer != nil {
		c.observer.Transition(kind)
	}
}
