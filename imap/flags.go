package imap

import (
	"strings"

	"github.com/bradenaw/juniper/xslices"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	FlagSeen     = `\Seen`
	FlagAnswered = `\Answered`
	FlagFlagged  = `\Flagged`
	FlagDeleted  = `\Deleted`
	FlagDraft    = `\Draft`
)

const (
	FlagSeenLowerCase     = `\seen`
	FlagAnsweredLowerCase = `\answered`
	FlagFlaggedLowerCase  = `\flagged`
	FlagDeletedLowerCase  = `\deleted`
	FlagDraftLowerCase    = `\draft`
)

// SystemFlags is the set of flags announced in the FLAGS response of SELECT/EXAMINE.
func SystemFlags() FlagSet {
	return NewFlagSet(FlagSeen, FlagAnswered, FlagFlagged, FlagDeleted, FlagDraft)
}

// FlagSet represents a set of IMAP flags. Flags are case-insensitive and no duplicates are allowed.
// A FlagSet is never mutated in place by its exported methods; they all return a modified copy.
type FlagSet map[string]string

// NewFlagSet creates a flag set containing the specified flags.
func NewFlagSet(flags ...string) FlagSet {
	fs := make(FlagSet)

	for _, item := range flags {
		fs.add(item)
	}

	return fs
}

// Len returns the number of flags in the flag set.
func (fs FlagSet) Len() int {
	return len(fs)
}

// ToSlice returns the flags in the set as a sorted string slice.
func (fs FlagSet) ToSlice() []string {
	flags := maps.Values(fs)

	slices.Sort(flags)

	return flags
}

// Contains returns true if and only if the flag is in the set.
func (fs FlagSet) Contains(flag string) bool {
	_, ok := fs[strings.ToLower(flag)]
	return ok
}

// ContainsUnchecked returns true if and only if the flag is in the set. The flag is not converted to lower case.
func (fs FlagSet) ContainsUnchecked(flag string) bool {
	_, ok := fs[flag]
	return ok
}

// ContainsAny returns true if and only if any of the flags are in the set.
func (fs FlagSet) ContainsAny(flags ...string) bool {
	return xslices.IndexFunc(flags, func(f string) bool {
		return fs.Contains(f)
	}) >= 0
}

// Equals returns true if and only if the two sets hold the same flags.
func (fs FlagSet) Equals(otherFs FlagSet) bool {
	if fs.Len() != otherFs.Len() {
		return false
	}

	for key := range fs {
		if _, ok := otherFs[key]; !ok {
			return false
		}
	}

	return true
}

// Add returns a copy of the set with the given flags added. The case of existing elements is preserved.
func (fs FlagSet) Add(flags ...string) FlagSet {
	return fs.Clone().add(flags...)
}

// Remove returns a copy of the set with the given flags removed.
func (fs FlagSet) Remove(flags ...string) FlagSet {
	return fs.Clone().remove(flags...)
}

// Set ensures the returned set either contains or does not contain the given flag.
func (fs FlagSet) Set(flag string, on bool) FlagSet {
	if on {
		return fs.Add(flag)
	}

	return fs.Remove(flag)
}

// Clone creates a hard copy of the flag set.
func (fs FlagSet) Clone() FlagSet {
	clone := make(FlagSet, len(fs))

	for lower, flag := range fs {
		clone[lower] = flag
	}

	return clone
}

// String returns the flags as a space separated list, in the form used by FLAGS items.
func (fs FlagSet) String() string {
	return strings.Join(fs.ToSlice(), " ")
}

func (fs FlagSet) add(flags ...string) FlagSet {
	for _, flag := range flags {
		flagLower := strings.ToLower(flag)

		if fs.ContainsUnchecked(flagLower) {
			continue
		}

		fs[flagLower] = flag
	}

	return fs
}

func (fs FlagSet) remove(flags ...string) FlagSet {
	for _, flag := range flags {
		delete(fs, strings.ToLower(flag))
	}

	return fs
}
