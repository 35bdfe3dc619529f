// Package order normalizes loosely typed values into a total order.
//
// Column accessors and chart keys hand back plain Go values (strings,
// numbers, time.Time). Value classifies them once so that sorting and label
// ordering share the same rules: numbers compare numerically, strings are
// collated for a locale, times compare as instants. Values of different
// kinds are ordered by kind rank; callers should not rely on that order.
package order

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Kind is the comparison class of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindNumber
	KindTime
	KindString
)

// Value is a classified, comparable value.
type Value struct {
	kind Kind
	num  float64
	t    time.Time
	str  string
}

// Identity is a comparable representation of a Value usable as a map key.
// Equal values always share an identity.
type Identity struct {
	Kind Kind
	Num  float64
	Sec  int64
	Nano int64
	Str  string
}

var timeType = reflect.TypeOf(time.Time{})

// Of classifies v. It reports false for nil, NaN and unsupported values.
func Of(v any) (Value, bool) {
	switch x := v.(type) {
	case nil:
		return Value{}, false
	case time.Time:
		return Value{kind: KindTime, t: x}, true
	case *time.Time:
		if x == nil {
			return Value{}, false
		}
		return Value{kind: KindTime, t: *x}, true
	case string:
		return Value{kind: KindString, str: x}, true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Type().ConvertibleTo(timeType) && rv.Kind() == reflect.Struct {
		return Value{kind: KindTime, t: rv.Convert(timeType).Interface().(time.Time)}, true
	}
	switch rv.Kind() {
	case reflect.Bool:
		n := 0.0
		if rv.Bool() {
			n = 1
		}
		return Value{kind: KindBool, num: n}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Value{kind: KindNumber, num: float64(rv.Int())}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Value{kind: KindNumber, num: float64(rv.Uint())}, true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return Value{}, false
		}
		return Value{kind: KindNumber, num: f}, true
	case reflect.String:
		return Value{kind: KindString, str: rv.String()}, true
	}
	if s, ok := v.(fmt.Stringer); ok {
		return Value{kind: KindString, str: s.String()}, true
	}
	return Value{}, false
}

// Kind returns the comparison class.
func (v Value) Kind() Kind {
	return v.kind
}

// Identity returns the map key for v.
func (v Value) Identity() Identity {
	switch v.kind {
	case KindTime:
		return Identity{Kind: v.kind, Sec: v.t.Unix(), Nano: int64(v.t.Nanosecond())}
	case KindString:
		return Identity{Kind: v.kind, Str: v.str}
	default:
		return Identity{Kind: v.kind, Num: v.num}
	}
}

// String renders v the way it is matched by free-text search.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 && v.t.Nanosecond() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format("2006-01-02 15:04")
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Comparer compares Values. A Comparer holds collation buffers and must not
// be shared between goroutines.
type Comparer struct {
	collator *collate.Collator
}

// NewComparer returns a Comparer collating strings for tag.
func NewComparer(tag language.Tag) *Comparer {
	return &Comparer{collator: collate.New(tag)}
}

// Compare returns -1, 0 or +1. Different kinds order by kind rank.
func (c *Comparer) Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindString:
		if r := c.collator.CompareString(a.str, b.str); r != 0 {
			return r
		}
		// Collation may treat distinct strings as equal; fall back to bytes
		// so that the order stays total.
		return compareStrings(a.str, b.str)
	case KindTime:
		return a.t.Compare(b.t)
	case KindInvalid:
		return 0
	default:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
