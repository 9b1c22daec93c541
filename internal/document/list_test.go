package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func experienceList(ids ...string) List[Experience] {
	list := make(List[Experience], len(ids))
	for i, id := range ids {
		list[i] = Experience{ID: id, Title: "Role " + id, Achievements: []string{}}
	}
	return list
}

func TestAppend_GeneratesUniquePrefixedIDs(t *testing.T) {
	list := List[Experience]{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		var entry Experience
		list, entry = Append(list, ExperiencePrefix, NewExperience)
		assert.True(t, strings.HasPrefix(entry.ID, "exp-"))
		assert.False(t, seen[entry.ID], "duplicate id %s", entry.ID)
		seen[entry.ID] = true
	}
	assert.Len(t, list, 100)
}

func TestAppend_AddsAtTailWithoutMutatingInput(t *testing.T) {
	original := experienceList("a", "b")
	out, entry := Append(original, ExperiencePrefix, NewExperience)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"a", "b", entry.ID}, out.IDs())
	assert.Equal(t, []string{"a", "b"}, original.IDs())
	assert.Equal(t, "", entry.Title)
	assert.NotNil(t, entry.Achievements)
}

func TestUpdateAt_MergesPatch(t *testing.T) {
	list := experienceList("a", "b")
	out, err := UpdateAt[Experience](list, "b", ExperiencePatch{Title: String("Senior Engineer")})
	require.NoError(t, err)

	assert.Equal(t, "Senior Engineer", out[1].Title)
	assert.Equal(t, "Role b", list[1].Title)
	assert.Equal(t, "Role a", out[0].Title)
}

func TestUpdateAt_UnknownIDReturnsErrorAndSameList(t *testing.T) {
	list := experienceList("a", "b")
	out, err := UpdateAt[Experience](list, "missing", ExperiencePatch{Title: String("x")})

	var notFound *EntryNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
	assert.Equal(t, list, out)
}

func TestUpdateAt_RejectsIDChange(t *testing.T) {
	list := experienceList("a")
	out, err := UpdateAt[Experience](list, "a", PatchFunc[Experience](func(e Experience) Experience {
		e.ID = "z"
		return e
	}))

	var immutable *ImmutableIDError
	require.ErrorAs(t, err, &immutable)
	assert.Equal(t, []string{"a"}, out.IDs())
}

func TestRemoveByID(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		drop string
		want []string
	}{
		{"middle", []string{"a", "b", "c"}, "b", []string{"a", "c"}},
		{"first", []string{"a", "b", "c"}, "a", []string{"b", "c"}},
		{"last", []string{"a", "b", "c"}, "c", []string{"a", "b"}},
		{"absent", []string{"a", "b"}, "x", []string{"a", "b"}},
		{"empty", []string{}, "x", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RemoveByID(experienceList(tt.ids...), tt.drop)
			assert.Equal(t, tt.want, out.IDs())
		})
	}
}

func TestRemoveByID_Idempotent(t *testing.T) {
	list := experienceList("a", "b", "c")
	once := RemoveByID(list, "b")
	twice := RemoveByID(once, "b")
	assert.Equal(t, once, twice)
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"first to last", "a", "c", []string{"b", "c", "a"}},
		{"last to first", "c", "a", []string{"c", "a", "b"}},
		{"adjacent forward", "a", "b", []string{"b", "a", "c"}},
		{"adjacent backward", "c", "b", []string{"a", "c", "b"}},
		{"same position", "b", "b", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := experienceList("a", "b", "c")
			out, err := Reorder(list, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.IDs())
			assert.Equal(t, []string{"a", "b", "c"}, list.IDs())
		})
	}
}

func TestReorder_IsPermutation(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	for _, from := range ids {
		for _, to := range ids {
			out, err := Reorder(experienceList(ids...), from, to)
			require.NoError(t, err)
			assert.ElementsMatch(t, ids, out.IDs(), "reorder(%s,%s)", from, to)
			assert.Equal(t, to, ids[out.IndexOf(from)], "reorder(%s,%s) lands at target slot", from, to)
		}
	}
}

func TestReorder_UnknownID(t *testing.T) {
	list := experienceList("a", "b")

	_, err := Reorder(list, "x", "a")
	var notFound *EntryNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "x", notFound.ID)

	_, err = Reorder(list, "a", "y")
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "y", notFound.ID)
}

func TestScenario_AppendRenameAndMarkCurrent(t *testing.T) {
	list, entry := Append(List[Experience]{}, ExperiencePrefix, NewExperience)

	list, err := UpdateAt[Experience](list, entry.ID, ExperiencePatch{Title: String("Senior Engineer")})
	require.NoError(t, err)
	list, err = UpdateAt[Experience](list, entry.ID, ExperiencePatch{EndDate: String("2023-05")})
	require.NoError(t, err)
	list, err = UpdateAt[Experience](list, entry.ID, ExperiencePatch{Current: Bool(true)})
	require.NoError(t, err)

	got, ok := list.Get(entry.ID)
	require.True(t, ok)
	assert.Equal(t, "Senior Engineer", got.Title)
	assert.True(t, got.Current)
	assert.Equal(t, "", got.EndDate)
}

func TestScenario_ReorderThreeEntries(t *testing.T) {
	out, err := Reorder(experienceList("a", "b", "c"), "a", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, out.IDs())
}
