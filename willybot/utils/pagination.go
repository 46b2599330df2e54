package utils

import (
	"fmt"

	"github.com/willyosu/willybot/willybot/config"
)

// Page is one page of a listing.
type Page struct {
	Number int
	Max    int
	Offset int
	Total  int
}

// Paginate maps a 1-based page request onto a listing of length results.
// Requests outside [1, Max] fall back to page 1. The offset always steps by
// config.DefaultPageSize whatever size the caller passes.
func Paginate(page, size, length int) Page {
	if size <= 0 {
		size = config.DefaultPageSize
	}
	if length < 0 {
		length = 0
	}
	maxPage := length/size + 1
	if page < 1 || page > maxPage {
		page = 1
	}
	return Page{
		Number: page,
		Max:    maxPage,
		Offset: config.DefaultPageSize * (page - 1),
		Total:  length,
	}
}

func (p Page) String() string {
	return fmt.Sprintf("Page %d of %d   (%d total results)", p.Number, p.Max, p.Total)
}
