package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-hub/domain"
	"chat-hub/errors"
)

// RoomRepository is the room directory: it owns rooms and their durable
// membership lists.
//
// Key layout:
//  1. "room:{room_id}" holds the room record with its member list.
//  2. "member:{identity_id}:{room_id}" is an index entry per membership,
//     so "rooms for user" is a single prefix scan.
type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) *RoomRepository {
	return &RoomRepository{db: db, log: log}
}

// CreateRoom persists a room with the creator appended to the member
// list. The room record and one index entry per member are written in
// a single transaction.
func (r *RoomRepository) CreateRoom(_ context.Context, draft domain.RoomDraft, creator domain.Identity) (domain.Room, error) {
	now := time.Now().UTC()
	room := domain.Room{
		ID:          uuid.New(),
		Name:        draft.Name,
		Description: draft.Description,
		Members:     dedupeMembers(append(draft.Members, creator)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data, err := json.Marshal(room)
	if err != nil {
		return domain.Room{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(roomKey(room.ID), data); err != nil {
			return err
		}
		for _, member := range room.Members {
			if err := txn.Set(memberKey(member.ID, room.ID), []byte(room.ID.String())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}

	r.log.Info("Room created", "room", room.ID, "name", room.Name, "members", len(room.Members))
	return room, nil
}

// RoomsForIdentity scans the membership index for one identity and
// returns the requested page, newest rooms first. The page request is
// applied as received; clamping is the caller's concern.
func (r *RoomRepository) RoomsForIdentity(_ context.Context, identityID uuid.UUID, pr domain.PageRequest) (domain.Page[domain.Room], error) {
	var roomIDs []uuid.UUID
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("member:" + identityID.String() + ":")
		options := badger.DefaultIteratorOptions
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				roomID, err := uuid.Parse(string(val))
				if err != nil {
					return err
				}
				roomIDs = append(roomIDs, roomID)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Page[domain.Room]{}, err
	}

	rooms := make([]domain.Room, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		room, err := r.GetRoom(context.Background(), roomID)
		if err != nil {
			// Index entry without a room record: skip, keep serving
			r.log.Warn("Dangling membership index entry", "room", roomID, "error", err)
			continue
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].UpdatedAt.After(rooms[j].UpdatedAt)
	})

	return domain.NewPage(rooms, pr), nil
}

func (r *RoomRepository) GetRoom(_ context.Context, roomID uuid.UUID) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(roomID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &room)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func roomKey(roomID uuid.UUID) []byte {
	return []byte("room:" + roomID.String())
}

func memberKey(identityID, roomID uuid.UUID) []byte {
	return []byte("member:" + identityID.String() + ":" + roomID.String())
}

func dedupeMembers(members []domain.Identity) []domain.Identity {
	seen := make(map[uuid.UUID]struct{}, len(members))
	out := make([]domain.Identity, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
