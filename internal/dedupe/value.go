package dedupe

import "time"

// Kind identifies what a Value holds.
type Kind int

const (
	KindText Kind = iota
	KindList
	KindNumber
	KindDate
)

// Value is one comparable field of a record.
type Value struct {
	kind Kind
	text string
	list []string
	num  float64
	date time.Time
}

func Text(s string) Value { return Value{kind: KindText, text: s} }

func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

func (v Value) Kind() Kind { return v.kind }

// Items returns the value as a list; a text value is a list of one.
func (v Value) Items() []string {
	switch v.kind {
	case KindList:
		return v.list
	case KindText:
		return []string{v.text}
	default:
		return nil
	}
}

// Fields maps field names to values for one record.
type Fields map[string]Value
