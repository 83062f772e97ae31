package interaction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TFMV/spectragraph/models"
)

// ErrUnknownEvent is returned by Dispatch for events it cannot route.
var ErrUnknownEvent = errors.New("interaction: unknown event")

// EventType names a raw input event.
type EventType string

// Event types delivered by a renderer.
const (
	EventPointerDown EventType = "pointerdown"
	EventPointerUp   EventType = "pointerup"
	EventPointerMove EventType = "pointermove"
	EventPointerOver EventType = "pointerover"
	EventPointerOut  EventType = "pointerout"
	EventKeyDown     EventType = "keydown"
	EventKeyUp       EventType = "keyup"
)

// Target says what a pointer event landed on.
type Target string

// Pointer targets.
const (
	OnBackground Target = "background"
	OnNode       Target = "node"
	OnEdge       Target = "edge"
)

// Event is one serialisable input event.
type Event struct {
	Type   EventType     `json:"type"`
	Target Target        `json:"target,omitempty"`
	Node   models.NodeID `json:"node,omitempty"`
	Edge   models.Edge   `json:"edge"`
	X      float64       `json:"x,omitempty"`
	Y      float64       `json:"y,omitempty"`
	Key    Key           `json:"key,omitempty"`
}

// NormalizeKey maps browser key names onto Key values.
func NormalizeKey(k string) Key {
	switch k {
	case "Backspace", "Delete", "Shift":
		return Key(k)
	case "Del":
		return KeyDelete
	}
	return Key(strings.ToLower(k))
}

// Dispatch routes ev to the matching controller handler.
func (c *Controller) Dispatch(ev Event) error {
	switch ev.Type {
	case EventPointerDown:
		switch ev.Target {
		case OnBackground:
			c.PointerDownBackground(ev.X, ev.Y)
		case OnNode:
			c.PointerDownNode(ev.Node)
		case OnEdge:
			c.PointerDownEdge(ev.Edge)
		default:
			return fmt.Errorf("%s on %q: %w", ev.Type, ev.Target, ErrUnknownEvent)
		}
	case EventPointerUp:
		if ev.Target == OnNode {
			c.PointerUpNode(ev.Node)
			return nil
		}
		c.PointerUp()
	case EventPointerMove:
		c.PointerMove(ev.X, ev.Y)
	case EventPointerOver:
		if ev.Target == OnNode {
			c.PointerOverNode(ev.Node)
		}
	case EventPointerOut:
		if ev.Target == OnNode {
			c.PointerOutNode(ev.Node)
		}
	case EventKeyDown:
		c.KeyDown(NormalizeKey(string(ev.Key)))
	case EventKeyUp:
		c.KeyUp(NormalizeKey(string(ev.Key)))
	default:
		return fmt.Errorf("%q: %w", ev.Type, ErrUnknownEvent)
	}
	return nil
}
