package tool

import "errors"

var (
	// ErrToolNotFound is returned when a tool is not found in the catalog.
	ErrToolNotFound = errors.New("tool not found")

	// ErrEmptyToolName is returned when a descriptor has an empty name.
	ErrEmptyToolName = errors.New("tool name must not be empty")

	// ErrDuplicateTool is returned when two descriptors share a name.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrInvalidDescriptor is returned when a descriptor is structurally
	// incomplete (no endpoint, no schema, or an inconsistent auth mode).
	ErrInvalidDescriptor = errors.New("invalid tool descriptor")
)
