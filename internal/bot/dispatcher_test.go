package bot

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owobot-dev/owobot/internal/bot/handlers"
	"github.com/owobot-dev/owobot/internal/counter"
	"github.com/owobot-dev/owobot/internal/domain"
	"github.com/owobot-dev/owobot/internal/i18n"
	"github.com/owobot-dev/owobot/internal/profile"
	"github.com/owobot-dev/owobot/internal/repository"
	"github.com/owobot-dev/owobot/internal/transport"
)

type sentText struct {
	chatID int64
	text   string
}

type fakeClient struct {
	mu     sync.Mutex
	me     string
	admins []int64
	texts  []sentText
	photos []string
}

func (f *fakeClient) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.texts = append(f.texts, sentText{chatID: chatID, text: text})
	return nil
}

func (f *fakeClient) SendPhoto(_ context.Context, _ int64, url, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.photos = append(f.photos, url)
	return nil
}

func (f *fakeClient) ChatAdmins(context.Context, int64) ([]int64, error) {
	return f.admins, nil
}

func (f *fakeClient) Me() string { return f.me }

func (f *fakeClient) Typing(context.Context, int64) error { return nil }

type memUserRepo struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func (m *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	copied := *user
	return &copied, nil
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		copied := *user
		m.users[user.ID] = &copied
	}
	return nil
}

func (m *memUserRepo) SetNsfw(_ context.Context, id int64, nsfw bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[id].Nsfw = nsfw
	return nil
}

func (m *memUserRepo) SetLanguage(_ context.Context, id int64, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[id].Language = language
	return nil
}

type memChatRepo struct {
	mu    sync.Mutex
	chats map[int64]*domain.Chat
}

func (m *memChatRepo) FindByID(_ context.Context, id int64) (*domain.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	chat, ok := m.chats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	copied := *chat
	return &copied, nil
}

func (m *memChatRepo) Create(_ context.Context, chat *domain.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.chats[chat.ID]; !ok {
		copied := *chat
		m.chats[chat.ID] = &copied
	}
	return nil
}

func (m *memChatRepo) SetNsfw(_ context.Context, id int64, nsfw bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chats[id].Nsfw = nsfw
	return nil
}

func newTestDispatcher(t *testing.T, client *fakeClient) (*Dispatcher, *counter.Store, *memUserRepo, *memChatRepo) {
	t.Helper()

	catalog, err := i18n.LoadFromDir("../../translations")
	require.NoError(t, err)

	ctr, err := counter.NewStore(filepath.Join(t.TempDir(), "total.txt"), nil)
	require.NoError(t, err)

	users := &memUserRepo{users: make(map[int64]*domain.User)}
	chats := &memChatRepo{chats: make(map[int64]*domain.Chat)}
	resolver := profile.NewResolver(users, chats)

	set := handlers.New(handlers.Deps{
		Client:  client,
		Catalog: catalog,
		Users:   users,
		Chats:   chats,
		Counter: ctr,
		Version: "test",
	})

	return NewDispatcher(client, resolver, ctr, set, nil), ctr, users, chats
}

func TestPrivateCommandRepliesAndCounts(t *testing.T) {
	client := &fakeClient{me: "owobot"}
	dispatcher, ctr, _, _ := newTestDispatcher(t, client)

	err := dispatcher.Dispatch(context.Background(), transport.Message{
		ChatID: 7, SenderID: 7, FirstName: "Sam", Text: "/start",
	})
	require.NoError(t, err)

	require.Len(t, client.texts, 1)
	assert.Contains(t, client.texts[0].text, "owobot")
	assert.Contains(t, client.texts[0].text, "Sam")

	err = dispatcher.Dispatch(context.Background(), transport.Message{
		ChatID: 8, SenderID: 8, Text: "/start",
	})
	require.NoError(t, err)
	assert.Contains(t, client.texts[1].text, "User")

	total, err := ctr.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGroupBareCommandWithoutMentionIsSilent(t *testing.T) {
	client := &fakeClient{me: "owobot"}
	dispatcher, ctr, _, _ := newTestDispatcher(t, client)

	for _, text := range []string{"/start", "/info", "/status", "/language", "/get", "/nsfw", "/random_reddit"} {
		err := dispatcher.Dispatch(context.Background(), transport.Message{
			ChatID: -100, SenderID: 7, Text: text,
		})
		require.NoError(t, err)
	}

	assert.Empty(t, client.texts)

	total, err := ctr.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestGroupCommandWithMentionIsActioned(t *testing.T) {
	client := &fakeClient{me: "owobot"}
	dispatcher, ctr, _, _ := newTestDispatcher(t, client)

	err := dispatcher.Dispatch(context.Background(), transport.Message{
		ChatID: -100, SenderID: 7, Username: "sam", Text: "/status@owobot",
	})
	require.NoError(t, err)

	require.Len(t, client.texts, 1)

	total, err := ctr.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestEchoSwapsWordAndDoesNotCount(t *testing.T) {
	client := &fakeClient{me: "owobot"}
	dispatcher, ctr, _, _ := newTestDispatcher(t, client)

	err := dispatcher.Dispatch(context.Background(), transport.Message{
		ChatID: 7, SenderID: 7, Text: "owo",
	})
	require.NoError(t, err)

	err = dispatcher.Dispatch(context.Background(), transport.Message{
		ChatID: 7, SenderID: 7, Text: "uwu",
	})
	require.NoError(t, err)

	require.Len(t, client.texts, 2)
	assert.Equal(t, "uwu", client.texts[0].text)
	assert.Equal(t, "owo", client.texts[1].text)

	total, err := ctr.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestGroupNsfwToggleRequiresAdmin(t *testing.T) {
	client := &fakeClient{me: "owobot", admins: []int64{1}}
	dispatcher, _, _, chats := newTestDispatcher(t, client)
	ctx := context.Background()

	err := dispatcher.Dispatch(ctx, transport.Message{
		ChatID: -100, SenderID: 7, Username: "sam", Text: "/nsfw on",
	})
	require.NoError(t, err)

	require.Len(t, client.texts, 1)
	assert.Contains(t, client.texts[0].text, "administrators")
	assert.False(t, chats.chats[-100].Nsfw)

	err = dispatcher.Dispatch(ctx, transport.Message{
		ChatID: -100, SenderID: 1, Username: "admin", Text: "/nsfw on",
	})
	require.NoError(t, err)

	assert.True(t, chats.chats[-100].Nsfw)
}

func TestPrivateNsfwToggleAndStatus(t *testing.T) {
	client := &fakeClient{me: "owobot"}
	dispatcher, _, users, _ := newTestDispatcher(t, client)
	ctx := context.Background()

	err := dispatcher.Dispatch(ctx, transport.Message{ChatID: 7, SenderID: 7, Text: "/nsfw on"})
	require.NoError(t, err)
	assert.True(t, users.users[7].Nsfw)

	err = dispatcher.Dispatch(ctx, transport.Message{ChatID: 7, SenderID: 7, Text: "/nsfw"})
	require.NoError(t, err)

	require.Len(t, client.texts, 2)
	assert.Contains(t, client.texts[1].text, "on")
}

func TestLanguageSwitchChangesReplies(t *testing.T) {
	client := &fakeClient{me: "owobot"}
	dispatcher, _, users, _ := newTestDispatcher(t, client)
	ctx := context.Background()

	err := dispatcher.Dispatch(ctx, transport.Message{ChatID: 7, SenderID: 7, Text: "/language ru"})
	require.NoError(t, err)
	assert.Equal(t, "ru-RU", users.users[7].Language)

	err = dispatcher.Dispatch(ctx, transport.Message{ChatID: 7, SenderID: 7, Text: "/info"})
	require.NoError(t, err)

	require.Len(t, client.texts, 2)
	assert.Contains(t, client.texts[1].text, "умею")
}

func TestUnknownCommandGetsHint(t *testing.T) {
	client := &fakeClient{me: "owobot"}
	dispatcher, _, _, _ := newTestDispatcher(t, client)

	err := dispatcher.Dispatch(context.Background(), transport.Message{
		ChatID: 7, SenderID: 7, Text: "/frobnicate",
	})
	require.NoError(t, err)

	require.Len(t, client.texts, 1)
	assert.Contains(t, client.texts[0].text, "/info")
}
