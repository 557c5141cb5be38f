package match

// Intersect implements spec.md §4.E: given one operation's per-group
// candidate lists, ordered in spec.md §4.G's closed group order, it finds
// the first non-empty list as the seed and keeps only JEDECs that also
// appear in every other non-empty list (empty lists — including the
// absent/NA case, which this package represents as nil — do not
// constrain). The result preserves seed order; nil means "emit NA".
func Intersect(perGroupInOrder []Cell) []string {
	seedIdx := -1
	for i, c := range perGroupInOrder {
		if len(c.Candidates) > 0 {
			seedIdx = i
			break
		}
	}
	if seedIdx < 0 {
		return nil
	}

	seed := perGroupInOrder[seedIdx].Candidates
	result := make([]string, 0, len(seed))
	for _, jedec := range seed {
		keep := true
		for i, c := range perGroupInOrder {
			if i == seedIdx || len(c.Candidates) == 0 {
				continue
			}
			if !contains(c.Candidates, jedec) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, jedec)
		}
	}
	return result
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
