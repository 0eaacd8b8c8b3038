// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpolyany/polyansky-bot/internal/config"
	"github.com/vpolyany/polyansky-bot/internal/directory"
	"github.com/vpolyany/polyansky-bot/internal/storage/sqlite"
	"github.com/vpolyany/polyansky-bot/internal/transit"
)

const (
	testUserID  = int64(42)
	testAdminID = int64(99)
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	stopped  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 8)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeAPI) pollingStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// sentTexts renders everything the bot sent or edited, for containment
// checks.
func (f *fakeAPI) sentTexts() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sb strings.Builder
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			sb.WriteString(m.Text)
			sb.WriteString(keyboardText(m.ReplyMarkup))
		case tgbotapi.EditMessageTextConfig:
			sb.WriteString(m.Text)
			if m.ReplyMarkup != nil {
				sb.WriteString(keyboardText(*m.ReplyMarkup))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *fakeAPI) alerts() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sb strings.Builder
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			sb.WriteString(cb.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (f *fakeAPI) locations() []tgbotapi.LocationConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.LocationConfig
	for _, c := range f.sent {
		if loc, ok := c.(tgbotapi.LocationConfig); ok {
			out = append(out, loc)
		}
	}
	return out
}

func keyboardText(markup any) string {
	kb, ok := markup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			sb.WriteByte('[')
			sb.WriteString(b.Text)
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

type fakeStops struct {
	display []transit.DisplayStop
	byCode  map[string]transit.Stop
	nearest []transit.StopDistance
}

func (f *fakeStops) DisplayStops(context.Context) ([]transit.DisplayStop, error) {
	return f.display, nil
}

func (f *fakeStops) Nearest(context.Context, float64, float64, int) ([]transit.StopDistance, error) {
	return f.nearest, nil
}

func (f *fakeStops) ByCode(_ context.Context, code string) (transit.Stop, error) {
	s, ok := f.byCode[code]
	if !ok {
		return transit.Stop{}, transit.ErrNotFound
	}
	return s, nil
}

type fakePlanner struct {
	journeys  []transit.Journey
	err       error
	panicWith any
	lastQuery transit.Query
}

func (f *fakePlanner) Find(_ context.Context, q transit.Query) ([]transit.Journey, error) {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	f.lastQuery = q
	return f.journeys, f.err
}

type recordedSearch struct {
	userID              int64
	origin, destination string
}

type fakeSearches struct {
	recorded []recordedSearch
	recent   []sqlite.RecentSearch
}

func (f *fakeSearches) Record(_ context.Context, userID int64, origin, destination string) error {
	f.recorded = append(f.recorded, recordedSearch{userID, origin, destination})
	return nil
}

func (f *fakeSearches) Recent(context.Context, int64, int) ([]sqlite.RecentSearch, error) {
	return f.recent, nil
}

type fakeOrgs struct {
	categories []directory.Category
	orgs       map[int64][]directory.Organization
	created    []directory.Organization
}

func (f *fakeOrgs) Categories(context.Context) ([]directory.Category, error) {
	return f.categories, nil
}

func (f *fakeOrgs) CategoryByID(_ context.Context, id int64) (directory.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return directory.Category{}, directory.ErrNotFound
}

func (f *fakeOrgs) CategoryByName(_ context.Context, name string) (directory.Category, error) {
	for _, c := range f.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return directory.Category{}, directory.ErrNotFound
}

func (f *fakeOrgs) CreateCategory(_ context.Context, name string) (directory.Category, error) {
	c := directory.Category{ID: int64(len(f.categories) + 1), Name: name}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeOrgs) OrgsByCategory(_ context.Context, categoryID int64, limit, offset int) ([]directory.Organization, error) {
	all := f.orgs[categoryID]
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeOrgs) CountByCategory(_ context.Context, categoryID int64) (int, error) {
	return len(f.orgs[categoryID]), nil
}

func (f *fakeOrgs) OrgByID(_ context.Context, id int64) (directory.Organization, error) {
	for _, orgs := range f.orgs {
		for _, o := range orgs {
			if o.ID == id {
				return o, nil
			}
		}
	}
	return directory.Organization{}, directory.ErrNotFound
}

func (f *fakeOrgs) CreateOrg(_ context.Context, o directory.Organization) (directory.Organization, error) {
	o.ID = int64(len(f.created) + 1)
	f.created = append(f.created, o)
	if f.orgs == nil {
		f.orgs = make(map[int64][]directory.Organization)
	}
	f.orgs[o.CategoryID] = append(f.orgs[o.CategoryID], o)
	return o, nil
}

type testBot struct {
	bot      *Bot
	api      *fakeAPI
	stops    *fakeStops
	planner  *fakePlanner
	searches *fakeSearches
	orgs     *fakeOrgs
	store    Store
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	cfg := config.Defaults()
	cfg.Token = "test-token"
	cfg.AdminIDs = []int64{testAdminID}

	api := newFakeAPI()
	stops := &fakeStops{
		display: []transit.DisplayStop{
			{Name: "Автовокзал", Search: "автовокзал"},
			{Name: "Больница", Search: "больница црб"},
			{Name: "улица Победы", Search: "улица победы"},
		},
		byCode: map[string]transit.Stop{
			"VP00001": {Code: "VP00001", Name: "Автовокзал", Latitude: 56.2281, Longitude: 51.0654, Active: true},
		},
		nearest: []transit.StopDistance{
			{Stop: transit.Stop{Code: "VP00001", Name: "Автовокзал", Active: true}, Distance: 0.25},
		},
	}
	planner := &fakePlanner{journeys: []transit.Journey{testJourney(t)}}
	searches := &fakeSearches{}
	orgs := &fakeOrgs{
		categories: []directory.Category{{ID: 1, Name: "Аптеки"}},
		orgs: map[int64][]directory.Organization{
			1: {{ID: 10, CategoryID: 1, Name: "Вита", Address: "ул. Ленина, 1", Phone: "+7 900 000-00-00"}},
		},
	}
	store := NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	b := New(Deps{
		API:      api,
		Config:   config.NewHolder("", cfg),
		States:   store,
		Stops:    stops,
		Planner:  planner,
		Searches: searches,
		Orgs:     orgs,
		Now: func() time.Time {
			return time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC) // Monday
		},
	})
	t.Cleanup(b.Close)

	return &testBot{bot: b, api: api, stops: stops, planner: planner, searches: searches, orgs: orgs, store: store}
}

func testJourney(t *testing.T) transit.Journey {
	t.Helper()
	dep, err := transit.ParseDayTime("07:00")
	require.NoError(t, err)
	arr, err := transit.ParseDayTime("07:20")
	require.NoError(t, err)

	seg := transit.Segment{
		RouteName: "1",
		From:      transit.StopTime{StopCode: "VP00001", StopName: "Автовокзал", Arrival: dep},
		To:        transit.StopTime{StopCode: "VP00003", StopName: "Больница", Arrival: arr},
		Duration:  20 * time.Minute,
	}
	return transit.Journey{
		Segments:  []transit.Segment{seg},
		Departure: dep,
		Arrival:   arr,
		Duration:  20 * time.Minute,
	}
}

func commandUpdate(userID int64, cmd string) tgbotapi.Update {
	text := "/" + cmd
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			Chat:      &tgbotapi.Chat{ID: userID},
			From:      &tgbotapi.User{ID: userID, FirstName: "Иван"},
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(text)},
			},
		},
	}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		Message: &tgbotapi.Message{
			MessageID: 2,
			Chat:      &tgbotapi.Chat{ID: userID},
			From:      &tgbotapi.User{ID: userID},
			Text:      text,
		},
	}
}

func locationUpdate(userID int64, lat, lon float64) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 3,
		Message: &tgbotapi.Message{
			MessageID: 3,
			Chat:      &tgbotapi.Chat{ID: userID},
			From:      &tgbotapi.User{ID: userID},
			Location:  &tgbotapi.Location{Latitude: lat, Longitude: lon},
		},
	}
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 4,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{
				MessageID: 10,
				Chat:      &tgbotapi.Chat{ID: userID},
			},
			Data: data,
		},
	}
}

func (tb *testBot) handle(t *testing.T, update tgbotapi.Update) {
	t.Helper()
	tb.bot.HandleUpdate(context.Background(), update)
}

func (tb *testBot) state(t *testing.T, chatID int64) Conversation {
	t.Helper()
	conv, err := tb.store.Get(context.Background(), chatID)
	require.NoError(t, err)
	return conv
}

func TestStartCommand(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, commandUpdate(testUserID, "start"))

	out := tb.api.sentTexts()
	assert.Contains(t, out, "Привет")
	assert.Contains(t, out, "Иван")
	assert.Contains(t, out, "[🚌 Автобусы]")
	assert.NotContains(t, out, "➕ Категория", "admin buttons hidden for regular users")
}

func TestStartCommandAdminButtons(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, commandUpdate(testAdminID, "start"))

	out := tb.api.sentTexts()
	assert.Contains(t, out, "[➕ Категория]")
	assert.Contains(t, out, "[➕ Организация]")
}

func TestHelpCommand(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, commandUpdate(testUserID, "help"))
	assert.Contains(t, tb.api.sentTexts(), "Справка")
}

func TestCancelCommandResetsState(t *testing.T) {
	tb := newTestBot(t)
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{State: StateOriginSearch}))

	tb.handle(t, commandUpdate(testUserID, "cancel"))

	assert.True(t, tb.state(t, testUserID).Idle())
	assert.Contains(t, tb.api.sentTexts(), "отменено")
}

func TestRoutePlanningFlow(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testUserID, "mn:a=bus"))
	assert.Equal(t, StateRouteMenu, tb.state(t, testUserID).State)
	assert.Contains(t, tb.api.sentTexts(), "Планирование маршрута")

	tb.handle(t, callbackUpdate(testUserID, "rt:a=o"))
	assert.Equal(t, StateOriginMethod, tb.state(t, testUserID).State)

	tb.handle(t, callbackUpdate(testUserID, "in:f=o;m=list"))
	assert.Equal(t, StateOriginList, tb.state(t, testUserID).State)
	assert.Contains(t, tb.api.sentTexts(), "Выберите остановку")

	tb.handle(t, callbackUpdate(testUserID, "st:f=o;i=0"))
	conv := tb.state(t, testUserID)
	assert.Equal(t, "Автовокзал", conv.Origin)
	assert.Equal(t, StateRouteMenu, conv.State)

	tb.handle(t, callbackUpdate(testUserID, "rt:a=d"))
	tb.handle(t, callbackUpdate(testUserID, "in:f=d;m=find"))
	assert.Equal(t, StateDestinationSearch, tb.state(t, testUserID).State)

	tb.handle(t, textUpdate(testUserID, "больн"))
	assert.Contains(t, tb.api.sentTexts(), "Результаты поиска")

	tb.handle(t, callbackUpdate(testUserID, "st:f=d;i=1"))
	conv = tb.state(t, testUserID)
	assert.Equal(t, "Больница", conv.Destination)

	tb.handle(t, callbackUpdate(testUserID, "rt:a=go"))

	out := tb.api.sentTexts()
	assert.Contains(t, out, "Найденные маршруты")
	assert.Contains(t, out, "Маршрут 1")
	assert.Contains(t, out, "Отправление: 07:00")
	assert.Contains(t, out, "Время в пути: 20 мин")

	assert.Equal(t, "Автовокзал", tb.planner.lastQuery.Origin)
	assert.Equal(t, "Больница", tb.planner.lastQuery.Destination)
	assert.Equal(t, time.Monday, tb.planner.lastQuery.Day)
	assert.Equal(t, "06:30", tb.planner.lastQuery.After.String())

	require.Len(t, tb.searches.recorded, 1)
	assert.Equal(t, recordedSearch{testUserID, "Автовокзал", "Больница"}, tb.searches.recorded[0])

	locs := tb.api.locations()
	require.Len(t, locs, 1, "boarding stop location shared")
	assert.InDelta(t, 56.2281, locs[0].Latitude, 1e-6)
}

func TestSearchRequiresBothStops(t *testing.T) {
	tb := newTestBot(t)
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{
		State:  StateRouteMenu,
		Origin: "Автовокзал",
	}))

	tb.handle(t, callbackUpdate(testUserID, "rt:a=go"))
	assert.Contains(t, tb.api.alerts(), textNeedBothStops)
	assert.Empty(t, tb.searches.recorded)
}

func TestSearchSameStops(t *testing.T) {
	tb := newTestBot(t)
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{
		State:       StateRouteMenu,
		Origin:      "Автовокзал",
		Destination: "Автовокзал",
	}))

	tb.handle(t, callbackUpdate(testUserID, "rt:a=go"))
	assert.Contains(t, tb.api.alerts(), textSameStops)
}

func TestSearchNoJourneys(t *testing.T) {
	tb := newTestBot(t)
	tb.planner.journeys = nil
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{
		State:       StateRouteMenu,
		Origin:      "Автовокзал",
		Destination: "Больница",
	}))

	tb.handle(t, callbackUpdate(testUserID, "rt:a=go"))
	assert.Contains(t, tb.api.sentTexts(), "Маршруты не найдены")
}

func TestCustomDepartureTime(t *testing.T) {
	tb := newTestBot(t)
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{
		State:       StateRouteMenu,
		Origin:      "Автовокзал",
		Destination: "Больница",
	}))

	tb.handle(t, callbackUpdate(testUserID, "rt:a=dep"))
	tb.handle(t, callbackUpdate(testUserID, "tm:f=dep;p=custom"))
	assert.Equal(t, StateDepartureTime, tb.state(t, testUserID).State)

	tb.handle(t, textUpdate(testUserID, "срочно"))
	assert.Contains(t, tb.api.sentTexts(), "Неверный формат времени")

	tb.handle(t, textUpdate(testUserID, "08:30"))
	conv := tb.state(t, testUserID)
	assert.Equal(t, "08:30", conv.Departure)
	assert.Equal(t, StateRouteMenu, conv.State)

	tb.handle(t, callbackUpdate(testUserID, "rt:a=go"))
	assert.Equal(t, "08:30", tb.planner.lastQuery.After.String())
	assert.False(t, tb.planner.lastQuery.ArriveBy)
}

func TestCustomArrivalTime(t *testing.T) {
	tb := newTestBot(t)
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{
		State:       StateRouteMenu,
		Origin:      "Автовокзал",
		Destination: "Больница",
	}))

	tb.handle(t, callbackUpdate(testUserID, "tm:f=arr;p=custom"))
	tb.handle(t, textUpdate(testUserID, "09:00"))
	tb.handle(t, callbackUpdate(testUserID, "rt:a=go"))

	assert.Equal(t, "09:00", tb.planner.lastQuery.After.String())
	assert.True(t, tb.planner.lastQuery.ArriveBy)
}

func TestLocationPicksNearestStop(t *testing.T) {
	tb := newTestBot(t)
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{State: StateOriginLocation}))

	tb.handle(t, locationUpdate(testUserID, 56.2281, 51.0654))

	conv := tb.state(t, testUserID)
	assert.Equal(t, "Автовокзал", conv.Origin)
	assert.Equal(t, StateRouteMenu, conv.State)
	assert.Contains(t, tb.api.sentTexts(), "Расстояние: 0.25 км")
}

func TestLocationNoNearbyStops(t *testing.T) {
	tb := newTestBot(t)
	tb.stops.nearest = nil
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{State: StateOriginLocation}))

	tb.handle(t, locationUpdate(testUserID, 0, 0))
	assert.Contains(t, tb.api.sentTexts(), "Не найдено остановок поблизости")
}

func TestOrganizationsBrowsing(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testUserID, "org:a=cats"))
	assert.Contains(t, tb.api.sentTexts(), "Выберите категорию")
	assert.Contains(t, tb.api.sentTexts(), "[Аптеки]")

	tb.handle(t, callbackUpdate(testUserID, "org:a=cat;id=1"))
	assert.Contains(t, tb.api.sentTexts(), "[Вита]")

	tb.handle(t, callbackUpdate(testUserID, "org:a=org;id=10"))
	out := tb.api.sentTexts()
	assert.Contains(t, out, "ул. Ленина, 1")
	assert.Contains(t, out, "+7 900 000-00-00")
	assert.Contains(t, out, "Аптеки")
}

func TestOrganizationNotFound(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testUserID, "org:a=org;id=777"))
	assert.Contains(t, tb.api.alerts(), textOrgNotFound)
}

func TestUnknownCallbackAnsweredStale(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testUserID, "zz:a=1"))
	assert.Contains(t, tb.api.alerts(), textStaleKeyboard)
}

func TestStaleStopIndex(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testUserID, "st:f=o;i=999"))
	assert.Contains(t, tb.api.alerts(), textStaleKeyboard)
}

func TestAdminCallbackUnauthorized(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testUserID, "adm:a=cat"))
	assert.Contains(t, tb.api.alerts(), textNoPermission)
	assert.True(t, tb.state(t, testUserID).Idle())
}

func TestAdminAddCategory(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testAdminID, "adm:a=cat"))
	assert.Equal(t, StateAdminAddCategory, tb.state(t, testAdminID).State)

	tb.handle(t, textUpdate(testAdminID, "Такси"))
	assert.Contains(t, tb.api.sentTexts(), "успешно добавлена")
	assert.True(t, tb.state(t, testAdminID).Idle())

	_, err := tb.orgs.CategoryByName(context.Background(), "Такси")
	assert.NoError(t, err)
}

func TestAdminAddCategoryDuplicate(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testAdminID, "adm:a=cat"))
	tb.handle(t, textUpdate(testAdminID, "Аптеки"))
	assert.Contains(t, tb.api.sentTexts(), "уже существует")
}

func TestAdminAddOrg(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testAdminID, "adm:a=org"))
	assert.Equal(t, StateAdminAddOrg, tb.state(t, testAdminID).State)

	tb.handle(t, textUpdate(testAdminID, "Апрель\n\nул. Мира, 5\n\n+7 900 111-22-33\n\nАптеки"))

	out := tb.api.sentTexts()
	assert.Contains(t, out, "Организация успешно добавлена")
	require.Len(t, tb.orgs.created, 1)
	assert.Equal(t, "Апрель", tb.orgs.created[0].Name)
	assert.Equal(t, "+7 900 111-22-33", tb.orgs.created[0].Phone)
	assert.Equal(t, int64(1), tb.orgs.created[0].CategoryID)
}

func TestAdminAddOrgWithoutPhone(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testAdminID, "adm:a=org"))
	tb.handle(t, textUpdate(testAdminID, "Апрель\n\nул. Мира, 5\n\nАптеки"))

	require.Len(t, tb.orgs.created, 1)
	assert.Empty(t, tb.orgs.created[0].Phone)
}

func TestAdminAddOrgBadFormat(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testAdminID, "adm:a=org"))
	tb.handle(t, textUpdate(testAdminID, "только название"))
	assert.Contains(t, tb.api.sentTexts(), "Неверный формат")
	assert.Empty(t, tb.orgs.created)
}

func TestAdminAddOrgUnknownCategory(t *testing.T) {
	tb := newTestBot(t)

	tb.handle(t, callbackUpdate(testAdminID, "adm:a=org"))
	tb.handle(t, textUpdate(testAdminID, "Апрель\n\nул. Мира, 5\n\nНет такой"))
	assert.Contains(t, tb.api.sentTexts(), "не найдена")
	assert.Empty(t, tb.orgs.created)
}

func TestRecentSearches(t *testing.T) {
	tb := newTestBot(t)
	tb.searches.recent = []sqlite.RecentSearch{
		{Origin: "Автовокзал", Destination: "Больница"},
	}

	tb.handle(t, callbackUpdate(testUserID, "mn:a=rec"))
	assert.Contains(t, tb.api.sentTexts(), "Автовокзал → Больница")

	tb.handle(t, callbackUpdate(testUserID, "mn:a=rerun;i=0"))
	assert.Equal(t, "Автовокзал", tb.planner.lastQuery.Origin)
	assert.Equal(t, "Больница", tb.planner.lastQuery.Destination)
}

func TestPanicRecovered(t *testing.T) {
	tb := newTestBot(t)
	tb.planner.panicWith = fmt.Errorf("boom")
	require.NoError(t, tb.store.Put(context.Background(), testUserID, Conversation{
		State:       StateRouteMenu,
		Origin:      "Автовокзал",
		Destination: "Больница",
	}))

	assert.NotPanics(t, func() {
		tb.handle(t, callbackUpdate(testUserID, "rt:a=go"))
	})
	assert.Contains(t, tb.api.sentTexts(), textInternal)
}
