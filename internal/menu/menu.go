// Package menu holds the navigation tree of the administration panel and the permission
// logic layered on top of it. Roles store a flat list of leaf paths; group nodes are
// permitted implicitly through their descendants.
package menu

import (
	"fmt"
	"sort"
)

// Item is a node in the menu tree. Leaves carry a Path which doubles as the permission key.
type Item struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Path     string `json:"path,omitempty"`
	Children []Item `json:"children,omitempty"`
}

// IsLeaf reports whether the item has no children.
func (i Item) IsLeaf() bool {
	return len(i.Children) == 0
}

// Permission paths guarded by the API.
const (
	PathDashboard         = "/dashboard"
	PathTeachers          = "/master/teachers"
	PathStudents          = "/master/students"
	PathClasses           = "/master/classes"
	PathSubjects          = "/master/subjects"
	PathMajors            = "/master/majors"
	PathSemesters         = "/academic/semesters"
	PathWeekdays          = "/academic/weekdays"
	PathPeriods           = "/academic/periods"
	PathSchedules         = "/academic/schedules"
	PathCalendar          = "/academic/calendar"
	PathTeacherCheckIn    = "/attendance/teachers/check-in"
	PathTeacherAttendance = "/attendance/teachers/records"
	PathTeacherRecap      = "/attendance/teachers/recap"
	PathStudentAttendance = "/attendance/students/sessions"
	PathStudentRecap      = "/attendance/students/recap"
	PathRoles             = "/settings/roles"
	PathUsers             = "/settings/users"
)

var tree = []Item{
	{Key: "dashboard", Title: "Dashboard", Path: PathDashboard},
	{Key: "master", Title: "Data Master", Children: []Item{
		{Key: "master.teachers", Title: "Guru", Path: PathTeachers},
		{Key: "master.students", Title: "Siswa", Path: PathStudents},
		{Key: "master.classes", Title: "Kelas", Path: PathClasses},
		{Key: "master.subjects", Title: "Mata Pelajaran", Path: PathSubjects},
		{Key: "master.majors", Title: "Jurusan", Path: PathMajors},
	}},
	{Key: "academic", Title: "Akademik", Children: []Item{
		{Key: "academic.semesters", Title: "Semester", Path: PathSemesters},
		{Key: "academic.weekdays", Title: "Hari Efektif", Path: PathWeekdays},
		{Key: "academic.periods", Title: "Jam Pelajaran", Path: PathPeriods},
		{Key: "academic.schedules", Title: "Jadwal", Path: PathSchedules},
		{Key: "academic.calendar", Title: "Kalender Akademik", Path: PathCalendar},
	}},
	{Key: "attendance", Title: "Absensi", Children: []Item{
		{Key: "attendance.teachers", Title: "Absensi Guru", Children: []Item{
			{Key: "attendance.teachers.check-in", Title: "Presensi", Path: PathTeacherCheckIn},
			{Key: "attendance.teachers.records", Title: "Data Absensi", Path: PathTeacherAttendance},
			{Key: "attendance.teachers.recap", Title: "Rekap Absensi", Path: PathTeacherRecap},
		}},
		{Key: "attendance.students", Title: "Absensi Siswa", Children: []Item{
			{Key: "attendance.students.sessions", Title: "Absensi Kelas", Path: PathStudentAttendance},
			{Key: "attendance.students.recap", Title: "Rekap Kelas", Path: PathStudentRecap},
		}},
	}},
	{Key: "settings", Title: "Pengaturan", Children: []Item{
		{Key: "settings.roles", Title: "Hak Akses", Path: PathRoles},
		{Key: "settings.users", Title: "Pengguna", Path: PathUsers},
	}},
}

// Tree returns a copy of the full menu.
func Tree() []Item {
	return cloneItems(tree)
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item
		out[i].Children = cloneItems(item.Children)
	}
	return out
}

// Find locates an item by key anywhere in the tree.
func Find(key string) (Item, bool) {
	return find(tree, key)
}

func find(items []Item, key string) (Item, bool) {
	for _, item := range items {
		if item.Key == key {
			return item, true
		}
		if found, ok := find(item.Children, key); ok {
			return found, true
		}
	}
	return Item{}, false
}

// Leaves returns the permission paths under item, item itself included when it is a leaf.
func Leaves(item Item) []string {
	if item.IsLeaf() {
		if item.Path == "" {
			return nil
		}
		return []string{item.Path}
	}
	var out []string
	for _, child := range item.Children {
		out = append(out, Leaves(child)...)
	}
	return out
}

// AllPaths lists every permission path in tree order.
func AllPaths() []string {
	var out []string
	for _, item := range tree {
		out = append(out, Leaves(item)...)
	}
	return out
}

// Set is a lookup of granted permission paths.
type Set map[string]struct{}

// NewSet builds a Set from a permission list.
func NewSet(perms []string) Set {
	set := make(Set, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether path is granted.
func (s Set) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// State is the checkbox state of a menu node for a permission set.
type State string

const (
	Unchecked     State = "unchecked"
	Checked       State = "checked"
	Indeterminate State = "indeterminate"
)

// StateOf derives the tri-state of item: checked when every leaf below it is granted,
// unchecked when none is, indeterminate otherwise.
func StateOf(item Item, perms Set) State {
	leaves := Leaves(item)
	granted := 0
	for _, p := range leaves {
		if perms.Has(p) {
			granted++
		}
	}
	switch {
	case len(leaves) == 0 || granted == 0:
		return Unchecked
	case granted == len(leaves):
		return Checked
	default:
		return Indeterminate
	}
}

// Node is an Item annotated with its checkbox state.
type Node struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Path     string `json:"path,omitempty"`
	State    State  `json:"state"`
	Children []Node `json:"children,omitempty"`
}

// Annotate renders the whole tree with states for perms.
func Annotate(perms []string) []Node {
	return annotate(tree, NewSet(perms))
}

func annotate(items []Item, perms Set) []Node {
	if len(items) == 0 {
		return nil
	}
	out := make([]Node, 0, len(items))
	for _, item := range items {
		out = append(out, Node{
			Key:      item.Key,
			Title:    item.Title,
			Path:     item.Path,
			State:    StateOf(item, perms),
			Children: annotate(item.Children, perms),
		})
	}
	return out
}

// Filter prunes items down to what perms allows. A group survives when any descendant does.
func Filter(items []Item, perms []string) []Item {
	return filter(items, NewSet(perms))
}

func filter(items []Item, perms Set) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.IsLeaf() {
			if perms.Has(item.Path) {
				out = append(out, item)
			}
			continue
		}
		children := filter(item.Children, perms)
		if len(children) == 0 {
			continue
		}
		kept := item
		kept.Children = children
		out = append(out, kept)
	}
	return out
}

// Toggle checks or unchecks the node identified by key, cascading to all leaves below it.
// The returned list is normalised.
func Toggle(perms []string, key string, on bool) ([]string, error) {
	item, ok := Find(key)
	if !ok {
		return nil, fmt.Errorf("unknown menu key %q", key)
	}
	set := NewSet(perms)
	for _, p := range Leaves(item) {
		if on {
			set[p] = struct{}{}
		} else {
			delete(set, p)
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return Normalize(out), nil
}

// Normalize drops unknown paths and duplicates and orders the rest as they appear in the tree.
func Normalize(perms []string) []string {
	granted := NewSet(perms)
	order := make(map[string]int)
	for i, p := range AllPaths() {
		order[p] = i
	}
	out := make([]string, 0, len(granted))
	for p := range granted {
		if _, known := order[p]; known {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

// Unknown returns the entries of perms that are not menu paths.
func Unknown(perms []string) []string {
	known := NewSet(AllPaths())
	var out []string
	for _, p := range perms {
		if !known.Has(p) {
			out = append(out, p)
		}
	}
	return out
}
