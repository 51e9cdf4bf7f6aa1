package entities

import "time"

// SyncResult records what a completed vendoring job wrote.
type SyncResult struct {
	Name        string
	Version     string
	Destination string
	// Files lists the final destination-relative paths, sorted,
	// including the generated provenance marker.
	Files    []string
	Duration time.Duration
}

// SyncReport aggregates the outcome of syncing multiple recipes.
type SyncReport struct {
	Total     int
	Succeeded []*SyncResult
	Failed    []SyncFailure
}

// SyncFailure records a recipe whose sync did not complete.
type SyncFailure struct {
	Name    string
	Message string
}

// VersionStatus is the outcome of comparing a recipe's pinned version
// against the latest upstream release.
type VersionStatus struct {
	Name     string
	Pinned   string
	Latest   string
	UpToDate bool
}
