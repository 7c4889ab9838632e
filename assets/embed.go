package assets

import _ "embed"

// RoomsYAML is the room template catalog.
//
//go:embed rooms.yaml
var RoomsYAML []byte

// FormsYAML holds the level forms and the level to form pool mapping.
//
//go:embed forms.yaml
var FormsYAML []byte
