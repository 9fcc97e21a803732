package domain

import "time"

// SnapshotVersion identifies the export envelope format.
const SnapshotVersion = "1.0"

// Snapshot is the full-database export/import envelope. Import is a
// destructive replacement of every collection in one transaction.
type Snapshot struct {
	Meta SnapshotMeta `json:"meta"`
	Data SnapshotData `json:"data"`
}

type SnapshotMeta struct {
	ExportedAt time.Time `json:"exportedAt"`
	Version    string    `json:"version"`
}

// SnapshotData carries every entity collection. Snapshots produced by
// the pre-Go deployment may also contain sessions/accounts collections;
// those are ignored on import since auth is a stateless JWT cookie now.
type SnapshotData struct {
	Users     []User     `json:"users"`
	Apps      []App      `json:"apps"`
	Campaigns []Campaign `json:"campaigns"`
	Visits    []Visit    `json:"visits"`
	Settings  []Settings `json:"settings"`
}
