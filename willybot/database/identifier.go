package database

import "strconv"

// Identifier is a resolved lookup key: either a numeric id or a name token.
type Identifier struct {
	id   int64
	name string
	byID bool
}

func ByID(id int64) Identifier {
	return Identifier{id: id, byID: true}
}

func ByName(name string) Identifier {
	return Identifier{name: name}
}

func (i Identifier) IsID() bool {
	return i.byID
}

func (i Identifier) ID() int64 {
	return i.id
}

func (i Identifier) Name() string {
	return i.name
}

func (i Identifier) String() string {
	if i.byID {
		return strconv.FormatInt(i.id, 10)
	}
	return i.name
}
