package util

// PageSize is the fixed catalog page size.
const PageSize = 6

// Paginate maps a 1-indexed page to an offset/limit pair.
func Paginate(page int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize, PageSize
}
