package response

// Merge collapses every run of consecutive EXISTS responses into the last one of the run.
// A decreasing count ends the run.
func Merge(input []Response) []Response {
	if input == nil {
		return nil
	}

	var last *exists

	filtered := make([]Response, 0, len(input))

	for _, resp := range input {
		if resp, ok := resp.(*exists); ok {
			if last != nil && resp.count < last.count {
				filtered = append(filtered, last)
			}

			last = resp

			continue
		}

		if last != nil {
			filtered = append(filtered, last)
			last = nil
		}

		filtered = append(filtered, resp)
	}

	if last != nil {
		filtered = append(filtered, last)
	}

	return filtered
}
