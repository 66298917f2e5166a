package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"ariga.io/atlas/sql/migrate"
	aschema "ariga.io/atlas/sql/schema"
	asqlite "ariga.io/atlas/sql/sqlite"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.hcl
var schema []byte

type SQLite struct {
	*sql.DB
}

func NewSQLite(dsn string) (DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	return &SQLite{db}, nil
}

func (s *SQLite) Migrate(ctx context.Context) error {
	driver, err := asqlite.Open(s.DB)
	if err != nil {
		return err
	}

	want := &aschema.Schema{}
	if err := asqlite.EvalHCLBytes(schema, want, nil); err != nil {
		return err
	}

	got, err := driver.InspectSchema(ctx, "", nil)
	if err != nil {
		return err
	}

	changes, err := driver.SchemaDiff(got, want)
	if err != nil {
		return err
	}

	return driver.ApplyChanges(ctx, changes, []migrate.PlanOption{}...)
}

func (s *SQLite) RegisterGuild(guild *Guild) error {
	const query = `INSERT INTO guilds (id, name, registered_at) VALUES (?, ?, ?)`

	if guild.RegisteredAt.IsZero() {
		guild.RegisteredAt = time.Now().UTC()
	}

	_, err := s.DB.Exec(query, guild.ID, guild.Name, guild.RegisteredAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && errors.Is(sqliteErr.ExtendedCode, sqlite3.ErrConstraintPrimaryKey) {
			return ErrAlreadyRegistered
		}
		return err
	}

	return nil
}

func (s *SQLite) UnregisterGuild(guildID string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range []string{
		`DELETE FROM channels WHERE guild_id = ?`,
		`DELETE FROM list_messages WHERE guild_id = ?`,
		`DELETE FROM emoji_snapshots WHERE guild_id = ?`,
		`DELETE FROM sticker_snapshots WHERE guild_id = ?`,
		`DELETE FROM guilds WHERE id = ?`,
	} {
		if _, err := tx.Exec(query, guildID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLite) GetGuild(guildID string) (*Guild, error) {
	const query = `SELECT id, name, registered_at FROM guilds WHERE id = ?`

	guild := &Guild{}
	err := s.DB.QueryRow(query, guildID).Scan(&guild.ID, &guild.Name, &guild.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return guild, nil
}

func (s *SQLite) IsRegistered(guildID string) (bool, error) {
	_, err := s.GetGuild(guildID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLite) RegisteredGuilds() ([]Guild, error) {
	const query = `SELECT id, name, registered_at FROM guilds ORDER BY registered_at`

	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guilds []Guild
	for rows.Next() {
		var guild Guild
		if err := rows.Scan(&guild.ID, &guild.Name, &guild.RegisteredAt); err != nil {
			return nil, err
		}
		guilds = append(guilds, guild)
	}

	return guilds, rows.Err()
}

func (s *SQLite) SetChannel(guildID string, kind ChannelType, channelID string) error {
	const query = `
		INSERT INTO channels (id, guild_id, type, channel_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (guild_id, type) DO UPDATE SET channel_id = excluded.channel_id`

	_, err := s.DB.Exec(query, newID(), guildID, string(kind), channelID)
	return err
}

func (s *SQLite) RemoveChannel(guildID string, kind ChannelType) error {
	const query = `DELETE FROM channels WHERE guild_id = ? AND type = ?`

	res, err := s.DB.Exec(query, guildID, string(kind))
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetChannel returns the configured channel id for the given type, or the
// empty string if none is set.
func (s *SQLite) GetChannel(guildID string, kind ChannelType) (string, error) {
	const query = `SELECT channel_id FROM channels WHERE guild_id = ? AND type = ?`

	var channelID string
	err := s.DB.QueryRow(query, guildID, string(kind)).Scan(&channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return channelID, nil
}

func (s *SQLite) GetChannels(guildID string) (map[ChannelType]string, error) {
	const query = `SELECT type, channel_id FROM channels WHERE guild_id = ?`

	rows, err := s.DB.Query(query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := make(map[ChannelType]string)
	for rows.Next() {
		var kind, channelID string
		if err := rows.Scan(&kind, &channelID); err != nil {
			return nil, err
		}
		channels[ChannelType(kind)] = channelID
	}

	return channels, rows.Err()
}

func (s *SQLite) GetListMessages(guildID string) ([]string, error) {
	const query = `SELECT message_id FROM list_messages WHERE guild_id = ? ORDER BY position`

	rows, err := s.DB.Query(query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messageIDs []string
	for rows.Next() {
		var messageID string
		if err := rows.Scan(&messageID); err != nil {
			return nil, err
		}
		messageIDs = append(messageIDs, messageID)
	}

	return messageIDs, rows.Err()
}

func (s *SQLite) SetListMessages(guildID string, messageIDs []string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM list_messages WHERE guild_id = ?`, guildID); err != nil {
		return err
	}

	const insert = `INSERT INTO list_messages (guild_id, position, message_id) VALUES (?, ?, ?)`
	for i, messageID := range messageIDs {
		if _, err := tx.Exec(insert, guildID, i, messageID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLite) DeleteListMessages(guildID string) error {
	_, err := s.DB.Exec(`DELETE FROM list_messages WHERE guild_id = ?`, guildID)
	return err
}

func (s *SQLite) GetEmojiSnapshot(guildID string) ([]Emoji, error) {
	const query = `SELECT guild_id, emoji_id, name, animated FROM emoji_snapshots WHERE guild_id = ?`

	rows, err := s.DB.Query(query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEmojis(rows)
}

func (s *SQLite) SetEmojiSnapshot(guildID string, emojis []Emoji) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM emoji_snapshots WHERE guild_id = ?`, guildID); err != nil {
		return err
	}

	const insert = `INSERT INTO emoji_snapshots (guild_id, emoji_id, name, animated) VALUES (?, ?, ?, ?)`
	for _, emoji := range emojis {
		if _, err := tx.Exec(insert, guildID, emoji.ID, emoji.Name, emoji.Animated); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLite) FindEmojisByName(name string) ([]Emoji, error) {
	const query = `SELECT guild_id, emoji_id, name, animated FROM emoji_snapshots WHERE name = ?`

	rows, err := s.DB.Query(query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEmojis(rows)
}

func (s *SQLite) GetStickerSnapshot(guildID string) ([]Sticker, error) {
	const query = `SELECT guild_id, sticker_id, name, description FROM sticker_snapshots WHERE guild_id = ?`

	rows, err := s.DB.Query(query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stickers []Sticker
	for rows.Next() {
		var sticker Sticker
		if err := rows.Scan(&sticker.GuildID, &sticker.ID, &sticker.Name, &sticker.Description); err != nil {
			return nil, err
		}
		stickers = append(stickers, sticker)
	}

	return stickers, rows.Err()
}

func (s *SQLite) SetStickerSnapshot(guildID string, stickers []Sticker) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sticker_snapshots WHERE guild_id = ?`, guildID); err != nil {
		return err
	}

	const insert = `INSERT INTO sticker_snapshots (guild_id, sticker_id, name, description) VALUES (?, ?, ?, ?)`
	for _, sticker := range stickers {
		if _, err := tx.Exec(insert, guildID, sticker.ID, sticker.Name, sticker.Description); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func scanEmojis(rows *sql.Rows) ([]Emoji, error) {
	var emojis []Emoji
	for rows.Next() {
		var emoji Emoji
		if err := rows.Scan(&emoji.GuildID, &emoji.ID, &emoji.Name, &emoji.Animated); err != nil {
			return nil, err
		}
		emojis = append(emojis, emoji)
	}

	return emojis, rows.Err()
}
