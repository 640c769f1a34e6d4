package entangle

import "github.com/zoobzio/capitan"

// Derivation signals.
var (
	// MoleculeRecomputed is emitted after a tracked source re-ran a molecule's derivation.
	MoleculeRecomputed = capitan.NewSignal(
		"entangle.molecule.recomputed",
		"Molecule recomputed",
	)

	// AsyncResolved is emitted when an async derivation's result is written.
	AsyncResolved = capitan.NewSignal(
		"entangle.async.resolved",
		"Async molecule resolved",
	)

	// AsyncFailed is emitted when an async derivation returns an error or panics.
	AsyncFailed = capitan.NewSignal(
		"entangle.async.failed",
		"Async molecule derivation failed",
	)
)

// Family signals.
var (
	// FamilyMemberCreated is emitted the first time a family constructs a key.
	FamilyMemberCreated = capitan.NewSignal(
		"entangle.family.created",
		"Family member constructed",
	)
)
