package resolve

// Page returns a contiguous window of an already-sorted project sequence.
//
// A limit of 0 means unbounded: everything from offset to the end. An offset
// past the end yields an empty result, and a limit larger than what remains
// returns exactly the remainder. The input is never mutated or re-sorted;
// the returned slice aliases it.
func Page(projects []Project, limit, offset int) []Project {
	if offset < 0 || limit < 0 {
		return nil
	}
	if offset >= len(projects) {
		return nil
	}

	rest := projects[offset:]
	if limit == 0 || limit >= len(rest) {
		return rest
	}
	return rest[:limit]
}
