package query

import (
	"strconv"
	"strings"
)

// Param is one named key component. Array values keep their order.
type Param struct {
	Name   string
	Values []string
}

// Key identifies a cache entry. Two keys are the same entry iff their IDs match.
type Key struct {
	Name   string
	Params []Param
}

func NewKey(name string, params ...Param) Key {
	return Key{Name: name, Params: params}
}

func Arg(name string, values ...string) Param {
	return Param{Name: name, Values: append([]string(nil), values...)}
}

// ID is the canonical form of the key: the name followed by every param in
// declared order, each value quoted.
func (k Key) ID() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(k.Name))
	for _, param := range k.Params {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(param.Name))
		b.WriteByte('=')
		b.WriteByte('[')
		for i, value := range param.Values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(value))
		}
		b.WriteByte(']')
	}
	return b.String()
}

func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Name
	}

	parts := make([]string, 0, len(k.Params))
	for _, param := range k.Params {
		parts = append(parts, param.Name+"="+strings.Join(param.Values, ","))
	}
	return k.Name + "(" + strings.Join(parts, " ") + ")"
}

func (k Key) Equal(other Key) bool {
	return k.ID() == other.ID()
}
