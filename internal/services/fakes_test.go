package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"soravault/internal/models"
	"soravault/internal/notify"
	"soravault/internal/realtime"
	"soravault/internal/repositories"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recordedEvents) Publish(_ context.Context, ev realtime.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordedEvents) count(table, typ, userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Table == table && ev.Type == typ && ev.UserID == userID {
			n++
		}
	}
	return n
}

type fakeItems struct {
	ItemStore
	items  map[string]models.Item
	values []models.PricePoint
	seq    int
}

func newFakeItems(items ...models.Item) *fakeItems {
	f := &fakeItems{items: map[string]models.Item{}}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeItems) Create(_ context.Context, it models.Item) (models.Item, error) {
	f.seq++
	it.ID = fmt.Sprintf("item-%d", f.seq)
	f.items[it.ID] = it
	if it.CurrentValue != nil {
		f.values = append(f.values, models.PricePoint{ItemID: it.ID, Value: *it.CurrentValue, Source: models.PriceSourceManual})
	}
	return it, nil
}

func (f *fakeItems) Get(_ context.Context, userID, id string) (models.Item, error) {
	it, ok := f.items[id]
	if !ok || it.UserID != userID {
		return models.Item{}, models.ErrNotFound
	}
	return it, nil
}

func (f *fakeItems) Update(_ context.Context, it models.Item, value *float64) (models.Item, error) {
	cur, ok := f.items[it.ID]
	if !ok || cur.UserID != it.UserID {
		return models.Item{}, models.ErrNotFound
	}
	it.CurrentValue = cur.CurrentValue
	if value != nil {
		it.CurrentValue = value
		f.values = append(f.values, models.PricePoint{ItemID: it.ID, Value: *value, Source: models.PriceSourceManual})
	}
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeItems) SetValue(_ context.Context, userID, id string, value float64, source string) (models.Item, error) {
	it, ok := f.items[id]
	if !ok || it.UserID != userID {
		return models.Item{}, models.ErrNotFound
	}
	it.CurrentValue = &value
	f.items[id] = it
	f.values = append(f.values, models.PricePoint{ItemID: id, Value: value, Source: source})
	return it, nil
}

func (f *fakeItems) SetAIImage(_ context.Context, userID, id, url string) (models.Item, error) {
	it, ok := f.items[id]
	if !ok || it.UserID != userID {
		return models.Item{}, models.ErrNotFound
	}
	it.AIImageURL = &url
	f.items[id] = it
	return it, nil
}

func (f *fakeItems) ListMissingAIImage(_ context.Context, userID string, limit int) ([]models.Item, error) {
	var out []models.Item
	for _, it := range f.items {
		if it.UserID == userID && it.AIImageURL == nil && len(out) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

type fakeCollections struct {
	CollectionStore
	owned map[string]string
}

func (f *fakeCollections) Get(_ context.Context, userID, id string) (models.Collection, error) {
	if f.owned[id] != userID {
		return models.Collection{}, models.ErrNotFound
	}
	return models.Collection{ID: id, UserID: userID}, nil
}

// fakeWear keeps entries in memory and runs planners the way the
// repository does inside its transaction.
type fakeWear struct {
	WearStore
	entries map[string]models.WearEntry
	seq     int
}

func newFakeWear(entries ...models.WearEntry) *fakeWear {
	f := &fakeWear{entries: map[string]models.WearEntry{}}
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return f
}

func (f *fakeWear) day(userID string, day models.Date) []models.WearEntry {
	var out []models.WearEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.WornOn.Equal(day.Time) {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeWear) Save(_ context.Context, userID string, day models.Date, plan repositories.WearPlanner) (models.WearResult, error) {
	entry, adjustments, err := plan(f.day(userID, day))
	if err != nil {
		return models.WearResult{}, err
	}
	res := models.WearResult{Adjusted: []models.WearEntry{}}
	for _, adj := range adjustments {
		e := f.entries[adj.ID]
		e.Days = adj.To
		f.entries[adj.ID] = e
		res.Adjusted = append(res.Adjusted, e)
	}
	if entry.ID == "" {
		f.seq++
		entry.ID = fmt.Sprintf("wear-%d", f.seq)
	}
	entry.UserID = userID
	entry.WornOn = day
	f.entries[entry.ID] = entry
	res.Entry = entry
	return res, nil
}

func (f *fakeWear) Get(_ context.Context, userID, id string) (models.WearEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return models.WearEntry{}, models.ErrNotFound
	}
	return e, nil
}

func (f *fakeWear) Day(_ context.Context, userID string, day models.Date) ([]models.WearEntry, error) {
	return f.day(userID, day), nil
}

type fakeFriendships struct {
	FriendshipStore
	rows map[string]models.Friendship
	seq  int
}

func newFakeFriendships(rows ...models.Friendship) *fakeFriendships {
	f := &fakeFriendships{rows: map[string]models.Friendship{}}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeFriendships) Between(_ context.Context, a, b string) (models.Friendship, error) {
	for _, r := range f.rows {
		if (r.RequesterID == a && r.AddresseeID == b) || (r.RequesterID == b && r.AddresseeID == a) {
			return r, nil
		}
	}
	return models.Friendship{}, models.ErrNotFound
}

func (f *fakeFriendships) Get(_ context.Context, id string) (models.Friendship, error) {
	r, ok := f.rows[id]
	if !ok {
		return models.Friendship{}, models.ErrNotFound
	}
	return r, nil
}

func (f *fakeFriendships) Create(_ context.Context, requesterID, addresseeID string) (models.Friendship, error) {
	f.seq++
	r := models.Friendship{ID: fmt.Sprintf("fr-%d", f.seq), RequesterID: requesterID, AddresseeID: addresseeID, Status: models.FriendshipPending}
	f.rows[r.ID] = r
	return r, nil
}

func (f *fakeFriendships) Reopen(_ context.Context, id, requesterID, addresseeID string) (models.Friendship, error) {
	r := f.rows[id]
	r.RequesterID, r.AddresseeID, r.Status = requesterID, addresseeID, models.FriendshipPending
	f.rows[id] = r
	return r, nil
}

func (f *fakeFriendships) SetStatus(_ context.Context, id, status string) (models.Friendship, error) {
	r := f.rows[id]
	r.Status = status
	f.rows[id] = r
	return r, nil
}

func (f *fakeFriendships) AreFriends(ctx context.Context, a, b string) (bool, error) {
	r, err := f.Between(ctx, a, b)
	if err != nil {
		return false, nil
	}
	return r.Status == models.FriendshipAccepted, nil
}

type fakeProfiles struct {
	ProfileStore
	names map[string]string
}

func (f *fakeProfiles) Get(_ context.Context, id string) (models.Profile, error) {
	name, ok := f.names[id]
	if !ok {
		return models.Profile{}, models.ErrNotFound
	}
	return models.Profile{ID: id, Username: name, CreatedAt: time.Unix(0, 0)}, nil
}

type sentPush struct {
	userID string
	n      notify.Notification
}

type fakePush struct {
	mu   sync.Mutex
	sent []sentPush
}

func (f *fakePush) Notify(_ context.Context, userID string, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentPush{userID: userID, n: n})
	return nil
}
