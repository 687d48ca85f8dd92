package service

import "github.com/noah-isme/payment-portal-api/internal/models"

// Paging holds list-size policy for one resource.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

func (p Paging) withDefaults(defaultLimit int) Paging {
	if p.DefaultLimit <= 0 {
		p.DefaultLimit = defaultLimit
	}
	if p.MaxLimit <= 0 {
		p.MaxLimit = 100
	}
	return p
}

// resolve clamps limit and converts an offset into a 1-based page. Limits
// outside [1, MaxLimit] fall back to the default rather than the bound.
func (p Paging) resolve(limit, offset int) (page, size int) {
	size = limit
	if size < 1 || size > p.MaxLimit {
		size = p.DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return offset/size + 1, size
}

func newPagination(page, size, total int) *models.Pagination {
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
