package scan

import "github.com/marceldev/mediadex/internal/record"

// detector tracks the first relative path seen per content hash within one
// scan pass. First-seen is a function of the current traversal order only,
// which is why cached records get their duplicate fields zeroed before
// passing through here.
type detector struct {
	firstSeen map[string]string
}

func newDetector() *detector {
	return &detector{firstSeen: make(map[string]string)}
}

// apply marks rec as a duplicate of the first-seen path for its hash, or
// registers rec as that first-seen path. Returns true when rec is a
// duplicate. Must be called in traversal order.
func (d *detector) apply(rec *record.MediaRecord) bool {
	rec.ClearDuplicate()
	if first, ok := d.firstSeen[rec.SHA256]; ok {
		rec.IsDuplicate = true
		dup := first
		rec.DuplicateOf = &dup
		return true
	}
	d.firstSeen[rec.SHA256] = rec.RelativePath
	return false
}
