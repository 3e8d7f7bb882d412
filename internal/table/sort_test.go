package table

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortUsers(t *testing.T) {
	testCases := []struct {
		name string
		sort SortState
		want []int
	}{
		{
			name: "id ascending",
			sort: SortState{Column: ColumnID, Direction: Asc},
			want: []int{1, 2, 3, 4, 5},
		},
		{
			name: "name ignores case",
			sort: SortState{Column: ColumnName, Direction: Asc},
			want: []int{1, 2, 3, 4, 5},
		},
		{
			name: "email descending",
			sort: SortState{Column: ColumnEmail, Direction: Desc},
			want: []int{5, 4, 3, 2, 1},
		},
		{
			name: "registration date by instant",
			sort: SortState{Column: ColumnRegistrationDate, Direction: Desc},
			want: []int{5, 4, 3, 2, 1},
		},
		{
			name: "last activity",
			sort: SortState{Column: ColumnLastActivity, Direction: Asc},
			want: []int{2, 4, 5, 1, 3},
		},
		{
			name: "login count natural order",
			sort: SortState{Column: ColumnLoginCount, Direction: Asc},
			want: []int{4, 2, 3, 5, 1},
		},
		{
			name: "unknown column keeps input order",
			sort: SortState{Column: "avatar", Direction: Desc},
			want: []int{1, 2, 3, 4, 5},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.want, ids(SortUsers(testUsers(), testCase.sort)))
		})
	}
}

func TestSortDirectionsAreReverses(t *testing.T) {
	for col := range comparators {
		if col == ColumnRole || col == ColumnStatus {
			// 有相同键，反转关系不成立
			continue
		}
		asc := ids(SortUsers(testUsers(), SortState{Column: col, Direction: Asc}))
		desc := ids(SortUsers(testUsers(), SortState{Column: col, Direction: Desc}))
		slices.Reverse(desc)
		require.Equal(t, asc, desc, "column %s", col)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	users := testUsers()
	_ = SortUsers(users, SortState{Column: ColumnLoginCount, Direction: Desc})
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(users))
}

func TestSortIsStableForTies(t *testing.T) {
	got := SortUsers(testUsers(), SortState{Column: ColumnRole, Direction: Asc})
	// admin, moderator, user(2,4,5 保持原顺序)
	require.Equal(t, []int{1, 3, 2, 4, 5}, ids(got))
}

func TestSortStateToggle(t *testing.T) {
	s := DefaultSort()
	require.Equal(t, SortState{Column: ColumnID, Direction: Asc}, s)

	s = s.Toggle(ColumnID)
	require.Equal(t, Desc, s.Direction)

	s = s.Toggle(ColumnID)
	require.Equal(t, Asc, s.Direction)

	s = s.Toggle(ColumnID).Toggle(ColumnName)
	require.Equal(t, SortState{Column: ColumnName, Direction: Asc}, s)
}

func TestParseColumn(t *testing.T) {
	c, ok := ParseColumn("registrationDate")
	require.True(t, ok)
	require.Equal(t, ColumnRegistrationDate, c)

	_, ok = ParseColumn("password")
	require.False(t, ok)
}
