package shop

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

func TestAssign_Idempotent(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()
	f := seed(t, s, "+79990000000", "A123BC77")
	e := newEmployee(t, s, "+79991111111")

	res, err := s.Assign(ctx, f.repair.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, Assigned, res)

	res, err = s.Assign(ctx, f.repair.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, AlreadyAssigned, res)
	assert.Equal(t, "already assigned", res.String())

	assert.Equal(t, int64(1), count(t, s, assignments, db.Eq("repair_id", f.repair.ID), db.Eq("employee_id", e.ID)))
}

func TestAssign_UnknownIDs(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()
	f := seed(t, s, "+79990000000", "A123BC77")
	e := newEmployee(t, s, "+79991111111")

	_, err := s.Assign(ctx, 404, e.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Assign(ctx, f.repair.ID, 404)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Unassign(ctx, f.repair.ID, 404)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Zero(t, count(t, s, assignments))
}

func TestUnassign(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()
	f := seed(t, s, "+79990000000", "A123BC77")
	e := newEmployee(t, s, "+79991111111")

	res, err := s.Unassign(ctx, f.repair.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, NotAssigned, res)

	_, err = s.Assign(ctx, f.repair.ID, e.ID)
	require.NoError(t, err)
	res, err = s.Unassign(ctx, f.repair.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, Unassigned, res)
	assert.Zero(t, count(t, s, assignments))
}

func TestEmployeeWorkload(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()
	f := seed(t, s, "+79990000000", "A123BC77")
	e := newEmployee(t, s, "+79991111111")

	ids := []int64{f.repair.ID}
	for _, d := range []string{"pads", "oil"} {
		r, err := s.CreateRepair(ctx, models.Repair{RequestID: f.request.ID, Description: d, Cost: 100})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	for i, id := range ids[:2] {
		_, err := s.Assign(ctx, id, e.ID)
		require.NoError(t, err, "repair %d", i)
	}
	w, err := s.EmployeeWorkload(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, Workload{Active: 2}, w)
	assert.Equal(t, "free", w.Status(), "two active repairs is the limit")

	_, err = s.Assign(ctx, ids[2], e.ID)
	require.NoError(t, err)
	w, err = s.EmployeeWorkload(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, Workload{Active: 3, Completed: 0}, w)
	assert.True(t, w.Busy())
	assert.Equal(t, "busy", w.Status())

	_, err = s.CompleteRepair(ctx, ids[0])
	require.NoError(t, err)
	w, err = s.EmployeeWorkload(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, Workload{Active: 2, Completed: 1}, w)

	_, err = s.EmployeeWorkload(ctx, 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEmployeeRepairs_And_RepairEmployees(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()
	f := seed(t, s, "+79990000000", "A123BC77")
	second, err := s.CreateRepair(ctx, models.Repair{RequestID: f.request.ID, Description: "pads", Cost: 100})
	require.NoError(t, err)
	a := newEmployee(t, s, "+79991111111")
	b := newEmployee(t, s, "+79992222222")

	for _, pair := range [][2]int64{{second.ID, a.ID}, {f.repair.ID, a.ID}, {f.repair.ID, b.ID}} {
		_, err := s.Assign(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	rs, err := s.EmployeeRepairs(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, f.repair.ID, rs[0].ID)
	assert.Equal(t, second.ID, rs[1].ID)

	staff, err := s.RepairEmployees(ctx, f.repair.ID)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, a.ID, staff[0].ID)
	assert.Equal(t, b.ID, staff[1].ID)

	staff, err = s.RepairEmployees(ctx, 404)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, staff)
}

func TestAssignResult_String(t *testing.T) {
	assert.Equal(t, "assigned", Assigned.String())
	assert.Equal(t, "unassigned", Unassigned.String())
	assert.Equal(t, "not assigned", NotAssigned.String())
	assert.Equal(t, "unknown", AssignResult(0).String())
}
