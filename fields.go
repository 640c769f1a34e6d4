package entangle

import "github.com/zoobzio/capitan"

// Field keys for entangle events.
var (
	// KeySystem is the id of the owning System.
	KeySystem = capitan.NewStringKey("system")

	// KeyNodeID is the numeric id of the node the event concerns.
	KeyNodeID = capitan.NewIntKey("node_id")

	// KeyKind is the node kind.
	KeyKind = capitan.NewStringKey("kind")

	// KeyError is the error message when a derivation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyFamilyKey is the %v rendering of a family key.
	KeyFamilyKey = capitan.NewStringKey("family_key")
)
