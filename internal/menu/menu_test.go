package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeIsThreeLevelsDeep(t *testing.T) {
	var depth func(items []Item) int
	depth = func(items []Item) int {
		deepest := 0
		for _, item := range items {
			if d := 1 + depth(item.Children); d > deepest {
				deepest = d
			}
		}
		return deepest
	}
	assert.Equal(t, 3, depth(Tree()))
}

func TestTreeReturnsCopy(t *testing.T) {
	items := Tree()
	items[1].Children[0].Title = "changed"
	assert.NotEqual(t, "changed", Tree()[1].Children[0].Title)
}

func TestStateOf(t *testing.T) {
	teachers, ok := Find("attendance.teachers")
	require.True(t, ok)

	assert.Equal(t, Unchecked, StateOf(teachers, NewSet(nil)))
	assert.Equal(t, Indeterminate, StateOf(teachers, NewSet([]string{PathTeacherRecap})))
	assert.Equal(t, Checked, StateOf(teachers, NewSet([]string{PathTeacherCheckIn, PathTeacherAttendance, PathTeacherRecap})))

	attendance, ok := Find("attendance")
	require.True(t, ok)
	assert.Equal(t, Indeterminate, StateOf(attendance, NewSet([]string{PathTeacherCheckIn, PathTeacherAttendance, PathTeacherRecap})))
}

func TestFilterKeepsAncestorsOfPermittedLeaves(t *testing.T) {
	filtered := Filter(Tree(), []string{PathStudentRecap, PathDashboard})
	require.Len(t, filtered, 2)
	assert.Equal(t, "dashboard", filtered[0].Key)
	assert.Equal(t, "attendance", filtered[1].Key)
	require.Len(t, filtered[1].Children, 1)
	assert.Equal(t, "attendance.students", filtered[1].Children[0].Key)
	require.Len(t, filtered[1].Children[0].Children, 1)
	assert.Equal(t, PathStudentRecap, filtered[1].Children[0].Children[0].Path)

	assert.Empty(t, Filter(Tree(), nil))
}

func TestToggleCascades(t *testing.T) {
	perms, err := Toggle(nil, "attendance", true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		PathTeacherCheckIn, PathTeacherAttendance, PathTeacherRecap,
		PathStudentAttendance, PathStudentRecap,
	}, perms)

	perms, err = Toggle(perms, "attendance.students", false)
	require.NoError(t, err)
	assert.Equal(t, []string{PathTeacherCheckIn, PathTeacherAttendance, PathTeacherRecap}, perms)

	perms, err = Toggle(perms, "dashboard", true)
	require.NoError(t, err)
	assert.Equal(t, PathDashboard, perms[0])

	_, err = Toggle(perms, "nope", true)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	out := Normalize([]string{PathRoles, "/bogus", PathDashboard, PathRoles})
	assert.Equal(t, []string{PathDashboard, PathRoles}, out)
	assert.Equal(t, []string{"/bogus"}, Unknown([]string{PathRoles, "/bogus"}))
}

func TestAnnotate(t *testing.T) {
	nodes := Annotate([]string{PathTeachers})
	require.Len(t, nodes, len(Tree()))
	assert.Equal(t, Unchecked, nodes[0].State)
	assert.Equal(t, Indeterminate, nodes[1].State)
	assert.Equal(t, Checked, nodes[1].Children[0].State)
}
