package notify

import "guildwatch/internal/db"

// EmojiChanges is the difference between two emoji snapshots of a guild.
// The gateway only delivers whole-set updates, so individual create, rename
// and delete notifications are derived by diffing against the last snapshot.
type EmojiChanges struct {
	Created []db.Emoji
	Updated []EmojiUpdate
	Deleted []db.Emoji
}

type EmojiUpdate struct {
	Old db.Emoji
	New db.Emoji
}

func DiffEmojis(old, current []db.Emoji) EmojiChanges {
	previous := make(map[string]db.Emoji, len(old))
	for _, emoji := range old {
		previous[emoji.ID] = emoji
	}

	var changes EmojiChanges
	seen := make(map[string]bool, len(current))
	for _, emoji := range current {
		seen[emoji.ID] = true
		before, ok := previous[emoji.ID]
		switch {
		case !ok:
			changes.Created = append(changes.Created, emoji)
		case before.Name != emoji.Name:
			changes.Updated = append(changes.Updated, EmojiUpdate{Old: before, New: emoji})
		}
	}

	for _, emoji := range old {
		if !seen[emoji.ID] {
			changes.Deleted = append(changes.Deleted, emoji)
		}
	}

	return changes
}

func (c EmojiChanges) Empty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

type StickerChanges struct {
	Created []db.Sticker
	Updated []StickerUpdate
	Deleted []db.Sticker
}

type StickerUpdate struct {
	Old db.Sticker
	New db.Sticker
}

func DiffStickers(old, current []db.Sticker) StickerChanges {
	previous := make(map[string]db.Sticker, len(old))
	for _, sticker := range old {
		previous[sticker.ID] = sticker
	}

	var changes StickerChanges
	seen := make(map[string]bool, len(current))
	for _, sticker := range current {
		seen[sticker.ID] = true
		before, ok := previous[sticker.ID]
		switch {
		case !ok:
			changes.Created = append(changes.Created, sticker)
		case before.Name != sticker.Name || before.Description != sticker.Description:
			changes.Updated = append(changes.Updated, StickerUpdate{Old: before, New: sticker})
		}
	}

	for _, sticker := range old {
		if !seen[sticker.ID] {
			changes.Deleted = append(changes.Deleted, sticker)
		}
	}

	return changes
}

func (c StickerChanges) Empty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}
