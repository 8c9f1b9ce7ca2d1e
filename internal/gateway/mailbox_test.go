package gateway

import (
	"testing"

	"github.com/HBDK/Tilted/pkg/reading"
)

func namedReading(name string) reading.Reading {
	return reading.Reading{Name: name}
}

func TestMailboxTakeClears(t *testing.T) {
	var m Mailbox

	if _, ok := m.Take(); ok {
		t.Fatal("empty mailbox yielded a reading")
	}

	m.Put(namedReading("tilt-1"))
	if !m.Ready() {
		t.Fatal("mailbox not ready after Put")
	}

	r, ok := m.Take()
	if !ok || r.Name != "tilt-1" {
		t.Fatalf("Take = %+v, %v", r, ok)
	}
	if m.Ready() {
		t.Fatal("mailbox still ready after Take")
	}
	if _, ok := m.Take(); ok {
		t.Fatal("second Take yielded a reading")
	}
}

func TestMailboxLastWriteWins(t *testing.T) {
	var m Mailbox
	m.Put(namedReading("old"))
	m.Put(namedReading("new"))

	r, ok := m.Take()
	if !ok || r.Name != "new" {
		t.Fatalf("Take = %+v, want the newer reading", r)
	}
}

func TestMailboxPeekDoesNotConsume(t *testing.T) {
	var m Mailbox
	m.Put(namedReading("tilt-1"))

	r, ok := m.Peek()
	if !ok || r.Name != "tilt-1" {
		t.Fatalf("Peek = %+v, %v", r, ok)
	}
	if !m.Ready() {
		t.Fatal("Peek consumed the reading")
	}
}

func TestMailboxClear(t *testing.T) {
	var m Mailbox
	m.Put(namedReading("tilt-1"))
	m.Clear()
	if m.Ready() {
		t.Fatal("mailbox ready after Clear")
	}
}
