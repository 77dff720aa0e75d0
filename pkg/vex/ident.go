package vex

import (
	"strconv"
	"strings"
)

// Identifier is a possibly-qualified name. It is a comparable value type so
// it can key every symbol and variable map in the engine: two identifiers
// are equal iff their base name, property chain, and static index all match.
type Identifier struct {
	Named string
	// props is the dotted property chain, stored pre-joined so the struct
	// stays comparable.
	props    string
	index    int
	hasIndex bool
	// Invalid marks an identifier recovered from a parse error; it still
	// works as a map key but never resolves.
	Invalid bool
}

func Ident(name string) Identifier { return Identifier{Named: name} }

// WithProperty extends the identifier's property chain, as in `point.x`.
func (id Identifier) WithProperty(prop string) Identifier {
	if id.props == "" {
		id.props = prop
	} else {
		id.props += "." + prop
	}
	return id
}

// WithIndex attaches a static index, as in `rows.3`.
func (id Identifier) WithIndex(i int) Identifier {
	id.index = i
	id.hasIndex = true
	return id
}

func (id Identifier) Properties() []string {
	if id.props == "" {
		return nil
	}
	return strings.Split(id.props, ".")
}

func (id Identifier) Index() (int, bool) { return id.index, id.hasIndex }

func (id Identifier) String() string {
	s := id.Named
	if id.props != "" {
		s += "." + id.props
	}
	if id.hasIndex {
		s += "." + strconv.Itoa(id.index)
	}
	if id.Invalid {
		s += "!invalid"
	}
	return s
}
