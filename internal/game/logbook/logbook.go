package logbook

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeveritySuccess Severity = "success"
)

type Entry struct {
	ID       string
	At       time.Time
	Text     string
	Severity Severity
}

const DefaultCapacity = 50

// Book 是定长的游戏日志，最新的在前，满了丢最旧的。
type Book struct {
	cap     int
	entries []Entry
}

func New(capacity int) *Book {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Book{cap: capacity, entries: make([]Entry, 0, capacity)}
}

func (b *Book) Add(sev Severity, text string, at time.Time) Entry {
	e := Entry{ID: uuid.NewString(), At: at, Text: text, Severity: sev}
	if len(b.entries) < b.cap {
		b.entries = append(b.entries, Entry{})
	}
	copy(b.entries[1:], b.entries[:len(b.entries)-1])
	b.entries[0] = e
	return e
}

// Entries 返回副本，最新的在前。
func (b *Book) Entries() []Entry {
	return append([]Entry(nil), b.entries...)
}

func (b *Book) Len() int { return len(b.entries) }

func (b *Book) Cap() int { return b.cap }

func (b *Book) Reset() {
	b.entries = b.entries[:0]
}
