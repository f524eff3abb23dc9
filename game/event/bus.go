// Package event is the synchronous callback bus extensions subscribe to.
//
// Dispatch walks a copy of the subscriber list taken when the notification
// starts, in registration order. Subscribers added or removed by a callback
// take effect from the next notification. A panicking subscriber is logged
// and skipped so the rest still hear the event.
package event

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/logging"
)

// Kind names an event. The values are what scripted handlers receive.
type Kind string

const (
	KindMove Kind = "move"
	KindItem Kind = "item"
	KindMenu Kind = "menu"
)

// Subscriber receives every event published on a Bus.
type Subscriber interface {
	OnPlayerMove(direction string, x, y int)
	OnItemAcquired(name string, count int)
	OnMenuSelected(extension string)
}

// Bus keeps subscribers in registration order. It is meant for a single
// goroutine and may be re-entered from inside a callback.
type Bus struct {
	subs []Subscriber
	log  logrus.FieldLogger
}

// NewBus returns an empty bus. A nil logger discards panic reports.
func NewBus(log logrus.FieldLogger) *Bus {
	return &Bus{log: logging.Or(log).WithField("component", "events")}
}

// Add appends s. The same subscriber may be added more than once and is
// then called once per registration. Subscribers are matched by ==, so a
// value that cannot be compared (a struct holding a func, map or slice) is
// refused with a warning; register a pointer instead.
func (b *Bus) Add(s Subscriber) {
	if s == nil {
		return
	}
	if !reflect.ValueOf(s).Comparable() {
		b.log.WithField("subscriber", fmt.Sprintf("%T", s)).Warn("subscriber is not comparable, register a pointer")
		return
	}
	b.subs = append(slices.Clip(b.subs), s)
}

// Remove drops the first registration of s and reports whether one was
// found.
func (b *Bus) Remove(s Subscriber) bool {
	for i, sub := range b.subs {
		if sub == s {
			b.subs = slices.Delete(slices.Clone(b.subs), i, i+1)
			return true
		}
	}
	return false
}

// Len returns the number of registrations.
func (b *Bus) Len() int { return len(b.subs) }

// Snapshot returns the current subscribers in dispatch order.
func (b *Bus) Snapshot() []Subscriber {
	return slices.Clone(b.subs)
}

// PlayerMoved tells every subscriber the player moved in direction and now
// stands on (x,y).
func (b *Bus) PlayerMoved(direction string, x, y int) {
	b.dispatch(KindMove, func(s Subscriber) { s.OnPlayerMove(direction, x, y) })
}

// ItemAcquired tells every subscriber the player now holds count of name.
func (b *Bus) ItemAcquired(name string, count int) {
	b.dispatch(KindItem, func(s Subscriber) { s.OnItemAcquired(name, count) })
}

// MenuSelected tells every subscriber the menu entry of extension was
// chosen.
func (b *Bus) MenuSelected(extension string) {
	b.dispatch(KindMenu, func(s Subscriber) { s.OnMenuSelected(extension) })
}

func (b *Bus) dispatch(kind Kind, call func(Subscriber)) {
	// b.subs is never mutated in place, so this slice header is a stable
	// point-in-time view.
	subs := b.subs
	for _, s := range subs {
		b.deliver(kind, s, call)
	}
}

func (b *Bus) deliver(kind Kind, s Subscriber, call func(Subscriber)) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{"event": kind, "panic": r}).Error("subscriber panicked")
		}
	}()
	call(s)
}

// Funcs adapts plain functions to a Subscriber. Nil fields are ignored.
// Funcs values are compared by pointer, so register a *Funcs.
type Funcs struct {
	Move func(direction string, x, y int)
	Item func(name string, count int)
	Menu func(extension string)
}

func (f *Funcs) OnPlayerMove(direction string, x, y int) {
	if f.Move != nil {
		f.Move(direction, x, y)
	}
}

func (f *Funcs) OnItemAcquired(name string, count int) {
	if f.Item != nil {
		f.Item(name, count)
	}
}

func (f *Funcs) OnMenuSelected(extension string) {
	if f.Menu != nil {
		f.Menu(extension)
	}
}
