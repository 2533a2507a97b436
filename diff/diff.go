package diff

import "fmt"

// ContractDiff is the ordered change list produced by Compare, immutable once
// built.
type ContractDiff struct {
	changes []Change
}

// Changes returns every change in classification order as a fresh slice.
func (d *ContractDiff) Changes() []Change { return d.partition(nil) }

// BreakingChanges returns the changes that can fail an existing consumer.
func (d *ContractDiff) BreakingChanges() []Change {
	return d.partition(func(s Severity) bool { return s == Breaking })
}

// Warnings returns the changes flagged as suspicious but not proven breaking.
func (d *ContractDiff) Warnings() []Change {
	return d.partition(func(s Severity) bool { return s == Warning })
}

// InfoChanges returns the additive or relaxing changes.
func (d *ContractDiff) InfoChanges() []Change {
	return d.partition(func(s Severity) bool { return s == Info })
}

// HasBreakingChanges reports whether any Breaking change exists.
func (d *ContractDiff) HasBreakingChanges() bool {
	for _, c := range d.changes {
		if c.Severity == Breaking {
			return true
		}
	}
	return false
}

// IsCompatible reports whether the new snapshot keeps every existing consumer
// passing.
func (d *ContractDiff) IsCompatible() bool { return !d.HasBreakingChanges() }

// FailOnBreaking converts the diff into an error when any Breaking change
// exists. The data-first accessors remain the primary API; this is the
// opt-in raise wrapper for release gating.
func (d *ContractDiff) FailOnBreaking() error {
	if d.IsCompatible() {
		return nil
	}
	return &BreakingChangeError{Diff: d}
}

func (d *ContractDiff) partition(keep func(Severity) bool) []Change {
	var out []Change
	for _, c := range d.changes {
		if keep == nil || keep(c.Severity) {
			out = append(out, c)
		}
	}
	return out
}

// BreakingChangeError carries the full diff for callers who asked compatibility
// checking to raise.
type BreakingChangeError struct {
	Diff *ContractDiff
}

// Error summarizes the first breaking change and the total count.
func (e *BreakingChangeError) Error() string {
	breaking := e.Diff.BreakingChanges()
	if len(breaking) == 0 {
		return "diff: breaking changes"
	}
	return fmt.Sprintf("diff: %d breaking change(s), first: %s", len(breaking), breaking[0].Description)
}
