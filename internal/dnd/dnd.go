// Package dnd turns pointer gestures over the board into card move intents. It never performs
// I/O itself; the handler decides what a move means.
package dnd

import (
	"fmt"
	"math"

	"github.com/agnel18/DevCollab/internal/model"
)

const DefaultDistance = 8

// Container is a drop zone: a column when ColumnID is set, a status bucket otherwise.
type Container struct {
	ColumnID int64
	Status   model.Status
}

func ColumnContainer(columnID int64) Container {
	return Container{ColumnID: columnID}
}

func StatusContainer(status model.Status) Container {
	return Container{Status: status}
}

func (c Container) IsColumn() bool {
	return c.ColumnID != 0
}

func (c Container) String() string {
	if c.IsColumn() {
		return fmt.Sprintf("column:%d", c.ColumnID)
	}
	return "status:" + string(c.Status)
}

// ContainerOf reports the container a card currently sits in.
func ContainerOf(card model.Card) Container {
	if card.ColumnID != nil {
		return ColumnContainer(*card.ColumnID)
	}
	return StatusContainer(card.Status)
}

// Holds reports whether card already sits in c. A status bucket matches on status alone, so a
// card that also carries a column id still counts as inside its bucket.
func Holds(card model.Card, c Container) bool {
	if c.IsColumn() {
		return card.ColumnID != nil && *card.ColumnID == c.ColumnID
	}
	return card.Status == c.Status
}

type Point struct {
	X, Y float64
}

func (p Point) distance(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Sensor decides when a pressed pointer turns into a drag.
type Sensor struct {
	Distance float64
}

func (s Sensor) activated(from, to Point) bool {
	distance := s.Distance
	if distance <= 0 {
		distance = DefaultDistance
	}
	return from.distance(to) >= distance
}

type MoveIntent struct {
	CardID int64
	Source Container
	Target Container
}

// Overlay is what the board draws under the pointer while a drag is active.
type Overlay struct {
	CardID   int64
	Position Point
}

type Adapter struct {
	sensor  Sensor
	onMove  func(MoveIntent)
	pressed bool
	active  bool
	cardID  int64
	source  Container
	origin  Point
	pointer Point
}

func NewAdapter(sensor Sensor, onMove func(MoveIntent)) *Adapter {
	if onMove == nil {
		onMove = func(MoveIntent) {}
	}
	return &Adapter{sensor: sensor, onMove: onMove}
}

func (a *Adapter) PointerDown(cardID int64, source Container, at Point) {
	a.pressed = true
	a.active = false
	a.cardID = cardID
	a.source = source
	a.origin = at
	a.pointer = at
}

// PointerMove tracks the pointer and reports whether a drag is active after the move.
func (a *Adapter) PointerMove(at Point) bool {
	if !a.pressed {
		return false
	}
	a.pointer = at
	if !a.active && a.sensor.activated(a.origin, at) {
		a.active = true
	}
	return a.active
}

func (a *Adapter) Active() bool {
	return a.active
}

// Overlay returns the dragged card and pointer position, or false when nothing is dragged.
func (a *Adapter) Overlay() (Overlay, bool) {
	if !a.active {
		return Overlay{}, false
	}
	return Overlay{CardID: a.cardID, Position: a.pointer}, true
}

// PointerUp ends the gesture. A drop outside any container, into the source container, or
// before the sensor activated produces no intent.
func (a *Adapter) PointerUp(over *Container) (MoveIntent, bool) {
	wasActive := a.active
	cardID, source := a.cardID, a.source
	a.reset()
	if !wasActive || over == nil {
		return MoveIntent{}, false
	}
	return a.deliver(cardID, source, *over)
}

func (a *Adapter) Cancel() {
	a.reset()
}

// Drop is the keyboard path: no activation distance, same drop rules.
func (a *Adapter) Drop(cardID int64, source, target Container) (MoveIntent, bool) {
	a.reset()
	return a.deliver(cardID, source, target)
}

func (a *Adapter) deliver(cardID int64, source, target Container) (MoveIntent, bool) {
	if target == source {
		return MoveIntent{}, false
	}
	intent := MoveIntent{CardID: cardID, Source: source, Target: target}
	a.onMove(intent)
	return intent, true
}

func (a *Adapter) reset() {
	a.pressed = false
	a.active = false
	a.cardID = 0
	a.source = Container{}
	a.origin = Point{}
	a.pointer = Point{}
}
