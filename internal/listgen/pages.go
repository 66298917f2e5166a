package listgen

import (
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/fvbommel/sortorder"
)

// MessageLimit is the character budget for a single list message, kept under
// Discord's 2000 character cap to leave headroom for surrogate-pair slop.
const MessageLimit = 1900

// Lines renders one line per emoji, `<[a]:name:id> = `name``, ordered by a
// numeric-aware comparison of emoji names. The sort is stable so emojis with
// equal names keep their fetch order.
func Lines(emojis []*discordgo.Emoji) []string {
	sorted := make([]*discordgo.Emoji, len(emojis))
	copy(sorted, emojis)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortorder.NaturalLess(sorted[i].Name, sorted[j].Name)
	})

	lines := make([]string, 0, len(sorted))
	for _, emoji := range sorted {
		lines = append(lines, emoji.MessageFormat()+" = `"+emoji.Name+"`")
	}
	return lines
}

// Paginate packs lines into page bodies. A page is closed before a line that
// would push it past limit, so a page never exceeds limit plus one line.
// Empty pages are never emitted: zero lines yields zero pages.
func Paginate(lines []string, limit int) []string {
	var pages []string
	current := ""
	for _, line := range lines {
		if len(current)+len(line) > limit && current != "" {
			pages = append(pages, current)
			current = ""
		}
		current += line + "\n"
	}
	if current != "" {
		pages = append(pages, current)
	}
	return pages
}
