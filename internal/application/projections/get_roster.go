package projections

import (
	"context"
	"errors"

	dojostore "budo/internal/adapters/storage/dojo"
	"budo/internal/application/listutil"
	"budo/internal/domain/belt"
	"budo/internal/domain/dojo"
	"budo/internal/domain/student"
)

// GetRosterQuery carries query parameters.
type GetRosterQuery struct {
	AccountID  string
	BeltFilter string // a belt color or student.FilterAll
	Page       int
	PerPage    int
}

// GetRosterResult carries the query result. Students holds only the requested
// page; PageInfo describes the filtered total.
type GetRosterResult struct {
	Dojo     dojo.Dojo
	Students []student.Student
	Belts    []belt.Belt
	PageInfo listutil.PageInfo
	Filter   string
}

// GetRosterDeps holds dependencies for GetRoster.
type GetRosterDeps struct {
	DojoStore    DojoStore
	StudentStore StudentStore
	BeltStore    BeltStore
}

// QueryGetRoster loads an account's roster screen: the dojo, the belt
// taxonomy and one page of belt-filtered students.
// PRE: AccountID identifies an authenticated account
// POST: Students sorted by name, belts by color; an account without a dojo
// gets an empty result, not an error
func QueryGetRoster(ctx context.Context, query GetRosterQuery, deps GetRosterDeps) (GetRosterResult, error) {
	d, err := deps.DojoStore.GetByOwner(ctx, query.AccountID)
	if errors.Is(err, dojostore.ErrNotFound) {
		return GetRosterResult{Filter: student.FilterAll, PageInfo: listutil.NewPageInfo(1, query.PerPage, 0)}, nil
	}
	if err != nil {
		return GetRosterResult{}, err
	}

	students, err := deps.StudentStore.ListByDojo(ctx, d.ID)
	if err != nil {
		return GetRosterResult{}, err
	}
	belts, err := deps.BeltStore.ListByDojo(ctx, d.ID)
	if err != nil {
		return GetRosterResult{}, err
	}

	filter := query.BeltFilter
	if filter == "" {
		filter = student.FilterAll
	}
	filtered := student.FilterByBelt(students, filter)

	perPage := query.PerPage
	if perPage < 1 {
		perPage = listutil.DefaultPerPage
	}

	// PageInfo clamps out-of-range pages; slice with the clamped page so the
	// rendered rows always match the page metadata
	info := listutil.NewPageInfo(query.Page, perPage, len(filtered))

	return GetRosterResult{
		Dojo:     d,
		Students: listutil.Paginate(filtered, info.Page, perPage),
		Belts:    belts,
		PageInfo: info,
		Filter:   filter,
	}, nil
}
