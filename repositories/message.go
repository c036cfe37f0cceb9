package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-hub/domain"
)

// DiskMessage is the stored form of a message. The room is kept as a
// reference only; MessagesForRoom resolves it back into a full record.
type DiskMessage struct {
	ID             uuid.UUID `json:"id"`
	RoomID         uuid.UUID `json:"room_id"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MessageRepository persists messages in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the UUID as a collision disconnector
//     if two messages arrive at the same nanosecond.
type MessageRepository struct {
	db    *badger.DB
	rooms *RoomRepository
	log   *slog.Logger
}

func NewMessageRepository(db *badger.DB, rooms *RoomRepository, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, rooms: rooms, log: log}
}

// Create resolves the target room, stamps the draft, and persists it.
// The returned message carries the resolved room and author.
func (m *MessageRepository) Create(ctx context.Context, draft domain.MessageDraft, author domain.Identity) (domain.Message, error) {
	room, err := m.rooms.GetRoom(ctx, draft.RoomID)
	if err != nil {
		return domain.Message{}, err
	}

	now := time.Now().UTC()
	message := domain.Message{
		ID:        uuid.New(),
		Text:      draft.Text,
		Author:    author,
		Room:      room,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(toDiskMessage(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal failed: %w", err)
	}

	key := fmt.Sprintf("msg:%s:%019d:%s", room.ID, now.UnixNano(), message.ID)
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// MessagesForRoom serves one page of a room's history, newest first.
// Thanks to the padded timestamp in the key, a reverse prefix scan
// yields messages already sorted by time; only the keys inside the
// requested window have their values decoded.
func (m *MessageRepository) MessagesForRoom(ctx context.Context, roomID uuid.UUID, pr domain.PageRequest) (domain.Page[domain.Message], error) {
	room, err := m.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Page[domain.Message]{}, err
	}

	prefixStr := fmt.Sprintf("msg:%s:", roomID)
	prefix := []byte(prefixStr)

	var keys [][]byte
	err = m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key for this room, then walk back
		seekKey := append([]byte(prefixStr), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return domain.Page[domain.Message]{}, err
	}

	total := len(keys)
	meta := domain.PageMeta{
		TotalItems:   total,
		ItemsPerPage: pr.Limit,
		CurrentPage:  pr.Page,
	}
	if pr.Limit <= 0 {
		return domain.Page[domain.Message]{Items: []domain.Message{}, Meta: meta}, nil
	}
	meta.TotalPages = (total + pr.Limit - 1) / pr.Limit

	page := pr.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pr.Limit
	if start >= total {
		return domain.Page[domain.Message]{Items: []domain.Message{}, Meta: meta}, nil
	}
	end := start + pr.Limit
	if end > total {
		end = total
	}

	var diskMessages []DiskMessage
	err = m.db.View(func(txn *badger.Txn) error {
		for _, key := range keys[start:end] {
			item, err := txn.Get(key)
			if err != nil {
				return err
			}
			var dm DiskMessage
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &dm)
			})
			if err != nil {
				return err
			}
			diskMessages = append(diskMessages, dm)
		}
		return nil
	})
	if err != nil {
		return domain.Page[domain.Message]{}, err
	}

	items := lo.Map(diskMessages, func(dm DiskMessage, _ int) domain.Message {
		return fromDiskMessage(dm, room)
	})
	meta.ItemCount = len(items)
	return domain.Page[domain.Message]{Items: items, Meta: meta}, nil
}

func toDiskMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:             message.ID,
		RoomID:         message.Room.ID,
		AuthorID:       message.Author.ID,
		AuthorUsername: message.Author.Username,
		Text:           message.Text,
		CreatedAt:      message.CreatedAt,
		UpdatedAt:      message.UpdatedAt,
	}
}

func fromDiskMessage(dm DiskMessage, room domain.Room) domain.Message {
	return domain.Message{
		ID:        dm.ID,
		Text:      dm.Text,
		Author:    domain.Identity{ID: dm.AuthorID, Username: dm.AuthorUsername},
		Room:      room,
		CreatedAt: dm.CreatedAt,
		UpdatedAt: dm.UpdatedAt,
	}
}
