package compound

import "sort"

func sortCompounds(cs []Compound) {
	sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
}
