package mech

import "errors"

var (
	ErrNilItem         = errors.New("mech: nil item")
	ErrUnsupportedItem = errors.New("mech: unsupported item type")
	ErrDuplicateItem   = errors.New("mech: duplicate item name")
	ErrUnknownBody     = errors.New("mech: link references unknown body")
	ErrInvalidMass     = errors.New("mech: free body needs positive mass")
	ErrInvalidLink     = errors.New("mech: invalid link")
)
