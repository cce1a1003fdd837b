package services

import (
	"context"
	"testing"

	"github.com/ad/go-telegram-practice/internal/fsm"
	"github.com/ad/go-telegram-practice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type staticCatalog struct {
	problems []models.Problem
}

func (c *staticCatalog) Problems(ctx context.Context, force bool) []models.Problem {
	return c.problems
}

func intPtr(v int) *int { return &v }

func testCatalog() *staticCatalog {
	return &staticCatalog{problems: []models.Problem{
		{ContestID: 1, Index: "A", Name: "Theatre Square", Rating: intPtr(1000), Tags: []string{"math"}},
		{ContestID: 2, Index: "B", Name: "Spreadsheets", Rating: intPtr(1600), Tags: []string{"implementation", "math"}},
		{ContestID: 3, Index: "A", Name: "Shortest path", Rating: intPtr(1200), Tags: []string{"graphs", "dp"}},
		{ContestID: 4, Index: "A", Name: "Watermelon", Rating: intPtr(800), Tags: []string{"brute force", "math"}},
		{ContestID: 5, Index: "C", Name: "Longest Run", Rating: intPtr(1200), Tags: []string{"dp"}},
		{ContestID: 6, Index: "B", Name: "Mystery", Tags: []string{"dp"}},
	}}
}

func TestSelectByRatingExactMatch(t *testing.T) {
	engine := NewFilterEngine(testCatalog())

	problems, err := engine.Select(context.Background(), Query{
		Mode:   fsm.ModeRating,
		Rating: 1200,
		Count:  3,
	})
	require.NoError(t, err)
	require.LessOrEqual(t, len(problems), 3)
	require.NotEmpty(t, problems)

	seen := map[string]bool{}
	for _, p := range problems {
		require.NotNil(t, p.Rating)
		assert.Equal(t, 1200, *p.Rating)
		key := p.Index + "/" + p.Name
		assert.False(t, seen[key], "duplicate problem %s", key)
		seen[key] = true
	}
}

func TestSelectByRatingSkipsUnrated(t *testing.T) {
	engine := NewFilterEngine(testCatalog())

	// rating 0 must not sweep up unrated problems
	problems, err := engine.Select(context.Background(), Query{
		Mode:   fsm.ModeRating,
		Rating: 0,
		Count:  10,
	})
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestSelectByTagCaseInsensitive(t *testing.T) {
	engine := NewFilterEngine(testCatalog())

	for _, input := range []string{"dp", "DP", "Dp"} {
		problems, err := engine.Select(context.Background(), Query{
			Mode:  fsm.ModeTag,
			Tag:   input,
			Count: 10,
		})
		require.NoError(t, err)
		assert.Len(t, problems, 3, "tag %q", input)
	}
}

func TestSelectByIndex(t *testing.T) {
	engine := NewFilterEngine(testCatalog())

	problems, err := engine.Select(context.Background(), Query{
		Mode:        fsm.ModeIndex,
		IndexLetter: "A",
		Count:       10,
	})
	require.NoError(t, err)
	require.Len(t, problems, 3)
	for _, p := range problems {
		assert.Equal(t, "A", p.Index)
	}
}

func TestSelectByRatingAndTag(t *testing.T) {
	engine := NewFilterEngine(testCatalog())

	problems, err := engine.Select(context.Background(), Query{
		Mode:   fsm.ModeRatingTag,
		Rating: 1200,
		Tag:    "DP",
		Count:  10,
	})
	require.NoError(t, err)
	require.Len(t, problems, 2)
	for _, p := range problems {
		assert.Equal(t, 1200, *p.Rating)
		assert.True(t, p.HasTag("dp"))
	}
}

func TestSelectUnknownModeRejected(t *testing.T) {
	engine := NewFilterEngine(testCatalog())

	_, err := engine.Select(context.Background(), Query{Mode: fsm.Mode("bogus"), Count: 5})
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = engine.Select(context.Background(), Query{Mode: fsm.ModeNone, Count: 5})
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestSelectReturnsAllWhenFewerThanCount(t *testing.T) {
	engine := NewFilterEngine(testCatalog())

	problems, err := engine.Select(context.Background(), Query{
		Mode:        fsm.ModeIndex,
		IndexLetter: "C",
		Count:       10,
	})
	require.NoError(t, err)
	assert.Len(t, problems, 1)
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 1, ClampCount(0))
	assert.Equal(t, 1, ClampCount(-5))
	assert.Equal(t, 5, ClampCount(5))
	assert.Equal(t, 10, ClampCount(99))
	assert.Equal(t, 10, ClampCount(10))
}

func TestPropertyClampCountBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(-1000, 1000).Draw(rt, "n")
		clamped := ClampCount(n)
		if clamped < 1 || clamped > MaxProblems {
			rt.Errorf("ClampCount(%d) = %d out of bounds", n, clamped)
		}
		if n >= 1 && n <= MaxProblems && clamped != n {
			rt.Errorf("ClampCount(%d) = %d changed an in-range value", n, clamped)
		}
	})
}

func TestPropertySelectNeverExceedsCount(t *testing.T) {
	engine := NewFilterEngine(testCatalog())

	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		tag := rapid.SampledFrom([]string{"math", "dp", "graphs", "nosuchtag"}).Draw(rt, "tag")

		problems, err := engine.Select(context.Background(), Query{
			Mode:  fsm.ModeTag,
			Tag:   tag,
			Count: count,
		})
		if err != nil {
			rt.Fatal(err)
		}
		if len(problems) > count {
			rt.Errorf("Select returned %d problems for count %d", len(problems), count)
		}
		for _, p := range problems {
			if !p.HasTag(tag) {
				rt.Errorf("Problem %s does not carry tag %q", p.Name, tag)
			}
		}
	})
}
