package handlers

import "github.com/ssingh799/habit-flow/internal/models"

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
