package models

import "github.com/dmitrijs2005/jobtracker/internal/domain"

// JobQuery narrows a listing of one user's applications. Zero value lists
// everything in insertion order.
type JobQuery struct {
	TechStack      string
	Status         domain.Status
	SortByDeadline bool
}
