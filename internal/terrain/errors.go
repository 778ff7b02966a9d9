// Package terrain samples, refines and meshes planetary terrain chunks.
package terrain

import "errors"

var (
	// ErrInvalidParameter is returned when a terrain component is constructed
	// with out-of-range settings. It is only raised during planet setup.
	ErrInvalidParameter = errors.New("terrain: invalid parameter")

	// ErrWorkerFailure marks a generation job that panicked or errored.
	// It never leaves the chunk manager.
	ErrWorkerFailure = errors.New("terrain: worker failure")

	// ErrChannelClosed is observed while the manager shuts down.
	ErrChannelClosed = errors.New("terrain: channel closed")
)
