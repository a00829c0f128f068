// Package diag holds diagnostic helpers that are not part of the core
// parse/evaluate path: turning a completed execution's call tree into a
// binary-roundtrippable snapshot, for dumping and comparing call trees
// without depending on the Frame type's pointer-graph shape.
package diag

import (
	"fmt"

	"github.com/dekarrin/rezi"

	"github.com/kallsbrook/recurtrace"
)

// FrameSnapshot mirrors Frame but with no parent back-pointer and with
// Values rendered to their display strings rather than carried as
// syntax.Value, so the whole tree is a plain tree of exported, rezi-
// encodable fields.
type FrameSnapshot struct {
	FrameID   int
	Args      []string
	HasRetval bool
	Retval    string
	Children  []FrameSnapshot
}

// Snapshot walks f and its descendants into a FrameSnapshot tree.
func Snapshot(f *recurtrace.Frame) FrameSnapshot {
	snap := FrameSnapshot{
		FrameID: f.FrameID,
		Args:    make([]string, len(f.Args)),
	}
	for i, a := range f.Args {
		snap.Args[i] = a.String()
	}
	if f.Retval != nil {
		snap.HasRetval = true
		snap.Retval = f.Retval.String()
	}
	for _, child := range f.Children {
		snap.Children = append(snap.Children, Snapshot(child))
	}
	return snap
}

// Encode binary-encodes snap via rezi, the same encoding the teacher's
// sqlite DAO layer uses to persist a game.State blob.
func Encode(snap FrameSnapshot) []byte {
	return rezi.EncBinary(snap)
}

// Decode reverses Encode, reporting a decode error wrapping the underlying
// rezi failure, or a byte-count mismatch if data holds bytes past the end of
// the encoded snapshot.
func Decode(data []byte) (FrameSnapshot, error) {
	var snap FrameSnapshot
	n, err := rezi.DecBinary(data, &snap)
	if err != nil {
		return FrameSnapshot{}, fmt.Errorf("diag: rezi decode: %w", err)
	}
	if n != len(data) {
		return FrameSnapshot{}, fmt.Errorf("diag: decoded byte count mismatch; consumed %d/%d bytes", n, len(data))
	}
	return snap, nil
}
