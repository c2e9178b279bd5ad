package mruntime

import "strconv"

type ValueKind int

const (
	IntKind ValueKind = iota
	BoolKind
)

// Value is an integer or a boolean. Booleans only come out of relational
// operators and count as 0/1 in arithmetic.
type Value struct {
	kind ValueKind
	i    int64
	b    bool
}

func Int(v int64) Value {
	return Value{kind: IntKind, i: v}
}

func Bool(v bool) Value {
	return Value{kind: BoolKind, b: v}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) Int64() int64 {
	if v.kind == BoolKind {
		if v.b {
			return 1
		}
		return 0
	}
	return v.i
}

func (v Value) String() string {
	if v.kind == BoolKind {
		return strconv.FormatBool(v.b)
	}
	return strconv.FormatInt(v.i, 10)
}

func (v Value) Truthy() bool {
	if v.kind == BoolKind {
		return v.b
	}
	return v.i != 0
}
