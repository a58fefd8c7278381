package message

// PageRequest describes a bounded slice of a folder's message sequence:
// a 0-based inclusive start offset plus a page size.
type PageRequest struct {
	Start int
	Size  int
}

// PageOf builds a PageRequest.
func PageOf(start, size int) PageRequest {
	return PageRequest{Start: start, Size: size}
}

// End returns the 0-based inclusive end offset of the page.
func (p PageRequest) End() int {
	return p.Start + p.Size - 1
}

// Validate checks the page bounds before any transport call is made.
func (p PageRequest) Validate() error {
	if p.Start < 0 {
		return &ValidationError{Message: "the page start must not be negative"}
	}
	if p.Size <= 0 {
		return &ValidationError{Message: "the page size must be positive"}
	}
	return nil
}

// Range computes the effective 1-based inclusive fetch range against a
// folder holding totalCount messages. The page is silently truncated at
// the folder boundary; a page starting past the end yields an empty
// range (start > end).
func (p PageRequest) Range(totalCount int) (start, end int) {
	end = p.End() + 1
	if totalCount < end {
		end = totalCount
	}
	return p.Start + 1, end
}
