package repositories

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-hub/domain"
	"chat-hub/errors"
)

func newMessageFixture(t *testing.T) (*MessageRepository, domain.Room, domain.Identity) {
	t.Helper()
	req := require.New(t)
	db := openTestDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	repository := NewMessageRepository(db, rooms, slog.Default())

	alice := domain.Identity{ID: uuid.New(), Username: "alice"}
	room, err := rooms.CreateRoom(context.Background(), domain.RoomDraft{Name: "general"}, alice)
	req.NoError(err)
	return repository, room, alice
}

func Test_Create_Message_Resolves_Room_And_Author(t *testing.T) {
	req := require.New(t)
	repository, room, alice := newMessageFixture(t)

	created, err := repository.Create(context.Background(), domain.MessageDraft{
		Text:   "hello everyone",
		RoomID: room.ID,
	}, alice)
	req.NoError(err)
	req.NotEqual(uuid.Nil, created.ID)
	req.Equal("hello everyone", created.Text)
	req.Equal(alice, created.Author)
	req.Equal(room.ID, created.Room.ID)
}

func Test_Create_Message_For_Unknown_Room(t *testing.T) {
	req := require.New(t)
	repository, _, alice := newMessageFixture(t)

	_, err := repository.Create(context.Background(), domain.MessageDraft{
		Text:   "lost",
		RoomID: uuid.New(),
	}, alice)
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Messages_For_Room_Newest_First(t *testing.T) {
	req := require.New(t)
	repository, room, alice := newMessageFixture(t)
	ctx := context.Background()

	texts := []string{"one", "two", "three"}
	for _, text := range texts {
		_, err := repository.Create(ctx, domain.MessageDraft{Text: text, RoomID: room.ID}, alice)
		req.NoError(err)
		// Distinct nanosecond stamps keep the key order deterministic
		time.Sleep(time.Millisecond)
	}

	page, err := repository.MessagesForRoom(ctx, room.ID, domain.DefaultPageRequest)
	req.NoError(err)
	req.Len(page.Items, 3)
	req.Equal("three", page.Items[0].Text)
	req.Equal("two", page.Items[1].Text)
	req.Equal("one", page.Items[2].Text)
	req.Equal(3, page.Meta.TotalItems)
}

func Test_Messages_For_Room_Pagination_Window(t *testing.T) {
	req := require.New(t)
	repository, room, alice := newMessageFixture(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three", "four", "five"} {
		_, err := repository.Create(ctx, domain.MessageDraft{Text: text, RoomID: room.ID}, alice)
		req.NoError(err)
		time.Sleep(time.Millisecond)
	}

	page, err := repository.MessagesForRoom(ctx, room.ID, domain.PageRequest{Page: 2, Limit: 2})
	req.NoError(err)
	req.Len(page.Items, 2)
	req.Equal("three", page.Items[0].Text)
	req.Equal("two", page.Items[1].Text)
	req.Equal(5, page.Meta.TotalItems)
	req.Equal(3, page.Meta.TotalPages)
	req.Equal(2, page.Meta.CurrentPage)
}

func Test_Messages_For_Room_Does_Not_Leak_Across_Rooms(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	repository := NewMessageRepository(db, rooms, slog.Default())
	ctx := context.Background()
	alice := domain.Identity{ID: uuid.New(), Username: "alice"}

	general, err := rooms.CreateRoom(ctx, domain.RoomDraft{Name: "general"}, alice)
	req.NoError(err)
	random, err := rooms.CreateRoom(ctx, domain.RoomDraft{Name: "random"}, alice)
	req.NoError(err)

	_, err = repository.Create(ctx, domain.MessageDraft{Text: "in general", RoomID: general.ID}, alice)
	req.NoError(err)
	_, err = repository.Create(ctx, domain.MessageDraft{Text: "in random", RoomID: random.ID}, alice)
	req.NoError(err)

	page, err := repository.MessagesForRoom(ctx, general.ID, domain.DefaultPageRequest)
	req.NoError(err)
	req.Len(page.Items, 1)
	req.Equal("in general", page.Items[0].Text)
}

func Test_Messages_For_Empty_Room(t *testing.T) {
	req := require.New(t)
	repository, room, _ := newMessageFixture(t)

	page, err := repository.MessagesForRoom(context.Background(), room.ID, domain.DefaultPageRequest)
	req.NoError(err)
	req.Empty(page.Items)
	req.Equal(0, page.Meta.TotalItems)
}
