package fn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Parallel()

	squared := Map([]int{1, 2, 3, 4, 5}, func(n int) int {
		return n * n
	})

	assert.Equal(t, []int{1, 4, 9, 16, 25}, squared)
}

func TestMap_EmptySlice(t *testing.T) {
	t.Parallel()

	var numbers []int
	squared := Map(numbers, func(n int) int {
		return n * n
	})

	require.NotNil(t, squared)
	b, err := json.Marshal(squared)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestMap_DifferentTypes(t *testing.T) {
	t.Parallel()

	lengths := Map([]string{"a", "bb", "ccc"}, func(s string) int {
		return len(s)
	})

	assert.Equal(t, []int{1, 2, 3}, lengths)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	even := Filter([]int{1, 2, 3, 4, 5}, func(n int) bool {
		return n%2 == 0
	})

	assert.Equal(t, []int{2, 4}, even)
}

func TestFilter_NoneKept(t *testing.T) {
	t.Parallel()

	none := Filter([]string{"a", "b"}, func(string) bool { return false })

	assert.NotNil(t, none)
	assert.Empty(t, none)
}
