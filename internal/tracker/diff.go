package tracker

// partitionByReturned splits the requested id set against the ids the
// upstream actually returned: present holds requested ids the upstream still
// reports, missing holds the ones that are gone and must be deleted. The
// result depends only on set membership, never on input ordering, and the
// two halves always partition the requested set exactly.
func partitionByReturned(requested, returned []string) (present, missing []string) {
	returnedSet := make(map[string]struct{}, len(returned))
	for _, id := range returned {
		returnedSet[id] = struct{}{}
	}

	present = make([]string, 0, len(requested))
	missing = make([]string, 0)
	for _, id := range requested {
		if _, ok := returnedSet[id]; ok {
			present = append(present, id)
		} else {
			missing = append(missing, id)
		}
	}
	return present, missing
}
