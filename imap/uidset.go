package imap

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bradenaw/juniper/xslices"
	"golang.org/x/exp/slices"
)

var ErrInvalidUIDSet = errors.New("invalid uid set")

// UIDRange is an inclusive range of UIDs. Begin is never greater than End once normalized.
type UIDRange struct {
	Begin, End UID
}

func (r UIDRange) String() string {
	if r.Begin == r.End {
		return r.Begin.String()
	}

	return fmt.Sprintf("%v:%v", r.Begin, r.End)
}

func (r UIDRange) contains(uid UID) bool {
	return uid >= r.Begin && uid <= r.End
}

// UIDSet is a normalized set of UIDs: ranges are ascending, disjoint and non-adjacent.
type UIDSet []UIDRange

// NewUIDSet normalizes the given ranges. Bounds may be given in any order; overlapping and adjacent ranges are merged.
func NewUIDSet(ranges ...UIDRange) UIDSet {
	norm := make([]UIDRange, 0, len(ranges))

	for _, r := range ranges {
		if r.Begin > r.End {
			r.Begin, r.End = r.End, r.Begin
		}

		norm = append(norm, r)
	}

	slices.SortFunc(norm, func(a, b UIDRange) bool {
		return a.Begin < b.Begin
	})

	var res UIDSet

	for _, r := range norm {
		if n := len(res); n > 0 && uint64(r.Begin) <= uint64(res[n-1].End)+1 {
			if r.End > res[n-1].End {
				res[n-1].End = r.End
			}
		} else {
			res = append(res, r)
		}
	}

	return res
}

// NewUIDSetFromUIDs builds the most compact set covering exactly the given UIDs.
func NewUIDSetFromUIDs(uids []UID) UIDSet {
	return NewUIDSet(xslices.Map(uids, func(uid UID) UIDRange { return UIDRange{Begin: uid, End: uid} })...)
}

// ParseUIDSet parses `item (',' item)*` where `item := UID | UID ':' UID`.
func ParseUIDSet(s string) (UIDSet, error) {
	if s == "" {
		return nil, ErrInvalidUIDSet
	}

	var ranges []UIDRange

	for _, item := range strings.Split(s, ",") {
		bounds := strings.Split(item, ":")

		if len(bounds) > 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUIDSet, item)
		}

		var parsed []UID

		for _, bound := range bounds {
			uid, err := strconv.ParseUint(bound, 10, 32)
			if err != nil || uid == 0 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidUIDSet, item)
			}

			parsed = append(parsed, UID(uid))
		}

		ranges = append(ranges, UIDRange{Begin: parsed[0], End: parsed[len(parsed)-1]})
	}

	return NewUIDSet(ranges...), nil
}

// Contains returns whether the uid falls in any range of the set.
func (set UIDSet) Contains(uid UID) bool {
	idx := sort.Search(len(set), func(i int) bool {
		return set[i].End >= uid
	})

	return idx < len(set) && set[idx].contains(uid)
}

func (set UIDSet) String() string {
	res := make([]string, 0, len(set))

	for _, r := range set {
		res = append(res, r.String())
	}

	return strings.Join(res, ",")
}
