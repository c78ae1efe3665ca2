package domain

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Page is a window over an id-ordered collection. Since records are only
// ever appended, a page never shifts under concurrent inserts.
type Page struct {
	Offset int
	Limit  int
}

func NewPage(offset, limit int) Page {
	pOffset := 0
	if offset > 0 {
		pOffset = offset
	}

	pLimit := defaultPageLimit
	if limit > 0 {
		pLimit = limit
	}
	if pLimit > maxPageLimit {
		pLimit = maxPageLimit
	}

	return Page{
		Offset: pOffset,
		Limit:  pLimit,
	}
}
