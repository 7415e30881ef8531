package rank

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Paginate returns items[(page-1)*limit : (page-1)*limit+limit].
// Non-positive page or limit select the defaults; an out-of-range page yields an empty slice.
func Paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if len(items) == 0 || page-1 > (len(items)-1)/limit {
		return []T{}
	}
	start := (page - 1) * limit
	end := min(start+limit, len(items))
	return items[start:end]
}
