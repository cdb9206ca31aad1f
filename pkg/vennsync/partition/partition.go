// Package partition computes the exact-membership decomposition of grouped items
// that drives the content of a Venn diagram.
package partition

import (
	"fmt"
	"sort"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

// Set count bounds supported by the diagram layouts.
const (
	MinSets = 2
	MaxSets = 6
)

// UnsupportedSetCountError indicates a group count outside [MinSets, MaxSets].
type UnsupportedSetCountError struct {
	N int
}

func (e *UnsupportedSetCountError) Error() string {
	return fmt.Sprintf("can only create Venn diagrams of %d to %d sets, got %d", MinSets, MaxSets, e.N)
}

// CheckSetCount returns an *UnsupportedSetCountError when n is outside [MinSets, MaxSets].
func CheckSetCount(n int) error {
	if n < MinSets || n > MaxSets {
		return &UnsupportedSetCountError{N: n}
	}
	return nil
}

// Membership records that Item belongs to Group.
type Membership struct {
	Item  string
	Group string
}

// FromRows converts table rows of [item, group] into memberships.
// Only the first two cells of a row are considered and rows without any
// non-empty cell are dropped.
func FromRows(rows [][]string) []Membership {
	var result []Membership
	for _, row := range rows {
		var item, group string
		if len(row) > 0 {
			item = row[0]
		}
		if len(row) > 1 {
			group = row[1]
		}
		if item == "" && group == "" {
			continue
		}
		result = append(result, Membership{Item: item, Group: group})
	}
	return result
}

// Compute counts, for every non-empty subset of groups, the items that belong to
// exactly that subset. Memberships with an empty item or group are ignored.
//
// Groups are sorted lexicographically; group i maps to bit N-1-i of a code so
// that the binary string of a code lists groups in order.
func Compute(rows []Membership) (models.GroupPartition, error) {
	itemGroups := make(map[string]map[string]struct{})
	groupSet := make(map[string]struct{})

	for _, m := range rows {
		if m.Item == "" || m.Group == "" {
			continue
		}
		groupSet[m.Group] = struct{}{}
		groups, ok := itemGroups[m.Item]
		if !ok {
			groups = make(map[string]struct{})
			itemGroups[m.Item] = groups
		}
		groups[m.Group] = struct{}{}
	}

	names := make([]string, 0, len(groupSet))
	for name := range groupSet {
		names = append(names, name)
	}
	sort.Strings(names)

	n := len(names)
	if err := CheckSetCount(n); err != nil {
		return models.GroupPartition{}, err
	}

	bit := make(map[string]uint, n)
	for i, name := range names {
		bit[name] = 1 << uint(n-i-1)
	}

	counts := make(map[uint]int)
	for _, groups := range itemGroups {
		var code uint
		for g := range groups {
			code |= bit[g]
		}
		counts[code]++
	}

	return models.GroupPartition{
		Groups:     names,
		Counts:     counts,
		TotalItems: len(itemGroups),
	}, nil
}
