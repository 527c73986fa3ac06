package git

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// determineBranch normalizes a user-supplied branch into a full reference
// name. Empty input keeps the zero reference, which follows the remote HEAD.
func determineBranch(branch string) plumbing.ReferenceName {
	if branch == "" {
		return ""
	}
	ref := plumbing.ReferenceName(branch)
	if !ref.IsBranch() && !ref.IsRemote() && !ref.IsTag() && !ref.IsNote() {
		return plumbing.NewBranchReferenceName(branch)
	}
	return ref
}
