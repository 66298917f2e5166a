package listgen_test

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildwatch/internal/listgen"
)

func TestLinesNaturalOrdering(t *testing.T) {
	emojis := []*discordgo.Emoji{
		emoji("1", "e2"),
		emoji("2", "e10"),
		emoji("3", "e1"),
	}

	lines := listgen.Lines(emojis)
	require.Len(t, lines, 3)
	assert.Equal(t, "<:e1:3> = `e1`", lines[0])
	assert.Equal(t, "<:e2:1> = `e2`", lines[1])
	assert.Equal(t, "<:e10:2> = `e10`", lines[2])
}

func TestLinesStableTies(t *testing.T) {
	emojis := []*discordgo.Emoji{
		emoji("9", "same"),
		emoji("1", "same"),
		emoji("5", "same"),
	}

	lines := listgen.Lines(emojis)
	require.Len(t, lines, 3)
	assert.Equal(t, "<:same:9> = `same`", lines[0])
	assert.Equal(t, "<:same:1> = `same`", lines[1])
	assert.Equal(t, "<:same:5> = `same`", lines[2])
}

func TestLinesAnimatedMention(t *testing.T) {
	lines := listgen.Lines([]*discordgo.Emoji{
		{ID: "42", Name: "party", Animated: true},
	})
	require.Len(t, lines, 1)
	assert.Equal(t, "<a:party:42> = `party`", lines[0])
}

func TestPaginate(t *testing.T) {
	line := strings.Repeat("a", 100)

	tc := []struct {
		name      string
		lines     []string
		limit     int
		wantPages int
		wantLines []int
	}{
		{
			name:      "empty input yields no pages",
			lines:     nil,
			limit:     1000,
			wantPages: 0,
		},
		{
			name:      "everything fits on one page",
			lines:     []string{"a", "b", "c"},
			limit:     1000,
			wantPages: 1,
			wantLines: []int{3},
		},
		{
			name:      "page closes before the line that would overflow",
			lines:     repeat(line, 12),
			limit:     1000,
			wantPages: 2,
			wantLines: []int{9, 3},
		},
		{
			name: "cumulative length crossing the budget exactly at a line boundary",
			// 4 lines fill 404 chars; the check 404+100 > 504 is false, so a
			// fifth line still lands on page one before it closes.
			lines:     repeat(line, 6),
			limit:     504,
			wantPages: 2,
			wantLines: []int{5, 1},
		},
		{
			name:      "single oversized line gets its own page",
			lines:     []string{strings.Repeat("x", 3000)},
			limit:     1000,
			wantPages: 1,
			wantLines: []int{1},
		},
	}

	for _, c := range tc {
		t.Run(c.name, func(t *testing.T) {
			pages := listgen.Paginate(c.lines, c.limit)
			require.Len(t, pages, c.wantPages)

			for i, page := range pages {
				assert.NotEmpty(t, page)
				assert.True(t, strings.HasSuffix(page, "\n"))
				assert.Equal(t, c.wantLines[i], strings.Count(page, "\n"))
			}
		})
	}
}

func TestPaginateNeverExceedsBudgetPlusOneLine(t *testing.T) {
	line := strings.Repeat("b", 100)
	pages := listgen.Paginate(repeat(line, 100), 1000)

	require.NotEmpty(t, pages)
	for _, page := range pages {
		assert.LessOrEqual(t, len(page), 1000+len(line)+1)
	}
}

func repeat(line string, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = line
	}
	return lines
}
