package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/domain"
	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/store"
)

func setupListService(t *testing.T) (*ListService, *memPersister, *store.Store) {
	t.Helper()

	st := setupTestStore(t)
	p := newMemPersister()
	svc := NewListService(st, p, seed.MustLoad(), logger.Discard())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, svc.Load(context.Background()))
	return svc, p, st
}

func listIDs(lists []domain.TopTenList) []string {
	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	return ids
}

func TestListService_LoadMergesStarterLists(t *testing.T) {
	svc, p, _ := setupListService(t)

	sd := seed.MustLoad()
	lists := svc.Lists()
	require.Len(t, lists, len(sd.Lists))
	assert.Equal(t, sd.Lists[0].ID, lists[0].ID)
	assert.Equal(t, 1, p.count(store.KeyLists))
}

func TestListService_LoadKeepsStoredAndAppendsMissing(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	sd := seed.MustLoad()

	own := domain.TopTenList{ID: "list-own", Category: domain.CategoryBooks, Title: "Mine", IsCustom: true}
	starter := sd.Lists[0].ToList(time.Now())
	starter.Title = "Renamed by user"
	require.NoError(t, st.SaveLists(ctx, []domain.TopTenList{own, starter}))

	p := newMemPersister()
	svc := NewListService(st, p, sd, nil)
	require.NoError(t, svc.Load(ctx))

	lists := svc.Lists()
	require.Len(t, lists, 1+len(sd.Lists))
	assert.Equal(t, "list-own", lists[0].ID)
	assert.Equal(t, "Renamed by user", lists[1].Title, "stored starter list wins over seed")
	assert.NotNil(t, lists[0].Items)
}

func TestListService_LoadNothingToMerge(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	sd := seed.MustLoad()

	var all []domain.TopTenList
	for _, s := range sd.Lists {
		all = append(all, s.ToList(time.Now()))
	}
	require.NoError(t, st.SaveLists(ctx, all))

	p := newMemPersister()
	svc := NewListService(st, p, sd, nil)
	require.NoError(t, svc.Load(ctx))
	assert.Zero(t, p.count(store.KeyLists))
}

func TestListService_AddList(t *testing.T) {
	svc, p, _ := setupListService(t)
	before := svc.Lists()

	listID, err := svc.AddList(domain.CategoryMovies, "  Horror  ", "scary ones")
	require.NoError(t, err)

	assert.NotContains(t, listIDs(before), listID)
	assert.True(t, strings.HasPrefix(listID, "list-"))

	after := svc.Lists()
	require.Len(t, after, len(before)+1)

	added := after[len(after)-1]
	assert.Equal(t, listID, added.ID)
	assert.Equal(t, "Horror", added.Title)
	assert.Equal(t, domain.CategoryMovies.Meta().Icon, added.Icon)
	assert.True(t, added.IsCustom)
	assert.Empty(t, added.Items)

	var persisted []domain.TopTenList
	p.decode(t, store.KeyLists, &persisted)
	assert.Equal(t, listIDs(after), listIDs(persisted))
}

func TestListService_AddListUniqueIDs(t *testing.T) {
	svc, _, _ := setupListService(t)

	seen := map[string]bool{}
	for range 50 {
		n := len(svc.Lists())
		listID, err := svc.AddList(domain.CategoryBooks, "Same title", "")
		require.NoError(t, err)
		assert.False(t, seen[listID])
		seen[listID] = true
		assert.Len(t, svc.Lists(), n+1)
	}
}

func TestListService_AddListDefaults(t *testing.T) {
	svc, _, _ := setupListService(t)

	listID, err := svc.AddList(domain.CategoryVideoGames, "", "")
	require.NoError(t, err)

	list, err := svc.GetList(listID)
	require.NoError(t, err)
	assert.Equal(t, "My Top 10 "+domain.CategoryVideoGames.Meta().Label, list.Title)
}

func TestListService_AddListValidation(t *testing.T) {
	svc, _, _ := setupListService(t)

	_, err := svc.AddList(domain.Category("podcasts"), "x", "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.AddList(domain.CategoryBooks, "x", strings.Repeat("é", domain.MaxDescriptionLength+1))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.AddList(domain.CategoryBooks, "x", strings.Repeat("é", domain.MaxDescriptionLength))
	assert.NoError(t, err, "limit counts characters, not bytes")
}

func TestListService_UpdateItemsRoundTrip(t *testing.T) {
	svc, _, _ := setupListService(t)
	listID, err := svc.AddList(domain.CategoryMusic, "Songs", "")
	require.NoError(t, err)

	items := []domain.TopTenItem{
		{ID: "i3", Rank: 3, Title: "Hey Jude"},
		{ID: "i1", Rank: 1, Title: "Bohemian Rhapsody", ImageURL: "https://img/1.jpg"},
		{ID: "i10", Rank: 10, Title: "Imagine"},
	}
	_, err = svc.UpdateListItems(listID, items)
	require.NoError(t, err)

	list, err := svc.GetList(listID)
	require.NoError(t, err)
	if diff := cmp.Diff(items, list.Items); diff != "" {
		t.Errorf("items changed on round trip (-want +got):\n%s", diff)
	}
}

func TestListService_UpdateItemsDuplicateRankLastWins(t *testing.T) {
	svc, _, _ := setupListService(t)
	listID, err := svc.AddList(domain.CategoryMusic, "Songs", "")
	require.NoError(t, err)

	list, err := svc.UpdateListItems(listID, []domain.TopTenItem{
		{ID: "a", Rank: 1, Title: "First"},
		{ID: "b", Rank: 3, Title: "Loser"},
		{ID: "c", Rank: 2, Title: "Second"},
		{ID: "d", Rank: 3, Title: "Winner"},
	})
	require.NoError(t, err)

	want := []domain.TopTenItem{
		{ID: "a", Rank: 1, Title: "First"},
		{ID: "d", Rank: 3, Title: "Winner"},
		{ID: "c", Rank: 2, Title: "Second"},
	}
	assert.Equal(t, want, list.Items)
}

func TestListService_UpdateItemsValidation(t *testing.T) {
	svc, p, _ := setupListService(t)
	listID, err := svc.AddList(domain.CategoryMusic, "Songs", "")
	require.NoError(t, err)
	writes := p.count(store.KeyLists)

	_, err = svc.UpdateListItems(listID, []domain.TopTenItem{{Rank: 11, Title: "x"}})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.UpdateListItems(listID, []domain.TopTenItem{{Rank: 0, Title: "x"}})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.UpdateListItems(listID, []domain.TopTenItem{{Rank: 1, Title: "  "}})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.UpdateListItems("list-missing", nil)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	assert.Equal(t, writes, p.count(store.KeyLists), "rejected updates are not persisted")
}

func TestListService_UpdateItemsAssignsIDs(t *testing.T) {
	svc, _, _ := setupListService(t)
	listID, err := svc.AddList(domain.CategoryMusic, "Songs", "")
	require.NoError(t, err)

	list, err := svc.UpdateListItems(listID, []domain.TopTenItem{{Rank: 1, Title: "Yesterday"}})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.True(t, strings.HasPrefix(list.Items[0].ID, "item-"))
}

func TestListService_UpdateMeta(t *testing.T) {
	svc, _, _ := setupListService(t)
	listID, err := svc.AddList(domain.CategoryMovies, "Films", "")
	require.NoError(t, err)

	icon := "🎃"
	desc := "spooky"
	list, err := svc.UpdateListMeta(listID, domain.ListPatch{CustomIcon: &icon, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "spooky", list.Description)
	assert.Equal(t, "🎃", list.EffectiveIcon())
	assert.Equal(t, "Films", list.Title, "untouched fields stay")

	cat := domain.CategoryBooks
	list, err = svc.UpdateListMeta(listID, domain.ListPatch{Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryBooks, list.Category)
	assert.Equal(t, domain.CategoryBooks.Meta().Icon, list.Icon)
	assert.Equal(t, "🎃", list.EffectiveIcon(), "custom icon still preferred")

	empty := ""
	list, err = svc.UpdateListMeta(listID, domain.ListPatch{CustomIcon: &empty})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryBooks.Meta().Icon, list.EffectiveIcon())
}

func TestListService_UpdateMetaValidation(t *testing.T) {
	svc, _, _ := setupListService(t)
	listID, err := svc.AddList(domain.CategoryMovies, "Films", "")
	require.NoError(t, err)

	blank := "  "
	_, err = svc.UpdateListMeta(listID, domain.ListPatch{Title: &blank})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	long := strings.Repeat("x", domain.MaxDescriptionLength+1)
	_, err = svc.UpdateListMeta(listID, domain.ListPatch{Description: &long})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	bad := domain.Category("nope")
	_, err = svc.UpdateListMeta(listID, domain.ListPatch{Category: &bad})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.UpdateListMeta("list-missing", domain.ListPatch{})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListService_DeleteIdempotent(t *testing.T) {
	svc, p, _ := setupListService(t)
	listID, err := svc.AddList(domain.CategoryMovies, "Films", "")
	require.NoError(t, err)
	n := len(svc.Lists())

	svc.DeleteList(listID)
	assert.NotContains(t, listIDs(svc.Lists()), listID)
	assert.Len(t, svc.Lists(), n-1)
	_, err = svc.GetList(listID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	writes := p.count(store.KeyLists)
	svc.DeleteList(listID)
	assert.Len(t, svc.Lists(), n-1)
	assert.Equal(t, writes, p.count(store.KeyLists))
}

func TestListService_ReorderPreservesMembership(t *testing.T) {
	svc, p, _ := setupListService(t)
	_, err := svc.AddList(domain.CategoryMovies, "Films", "")
	require.NoError(t, err)

	ids := listIDs(svc.Lists())
	reversed := make([]string, len(ids))
	for i, v := range ids {
		reversed[len(ids)-1-i] = v
	}

	require.NoError(t, svc.ReorderLists(reversed))
	got := listIDs(svc.Lists())
	assert.Equal(t, reversed, got)
	assert.ElementsMatch(t, ids, got)

	var persisted []domain.TopTenList
	p.decode(t, store.KeyLists, &persisted)
	assert.Equal(t, reversed, listIDs(persisted))
}

func TestListService_ReorderRejectsNonPermutation(t *testing.T) {
	svc, _, _ := setupListService(t)
	ids := listIDs(svc.Lists())
	require.GreaterOrEqual(t, len(ids), 2)

	tests := map[string][]string{
		"missing id":  ids[1:],
		"unknown id":  append(append([]string{}, ids[1:]...), "list-unknown"),
		"repeated id": append(append([]string{}, ids[1:]...), ids[1]),
	}
	for name, order := range tests {
		t.Run(name, func(t *testing.T) {
			err := svc.ReorderLists(order)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
			assert.Equal(t, ids, listIDs(svc.Lists()))
		})
	}
}

func TestListService_MoveList(t *testing.T) {
	svc, _, _ := setupListService(t)
	ids := listIDs(svc.Lists())
	require.Len(t, ids, 3)

	require.NoError(t, svc.MoveList(ids[2], -1))
	assert.Equal(t, []string{ids[0], ids[2], ids[1]}, listIDs(svc.Lists()))

	require.NoError(t, svc.MoveList(ids[0], 10))
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, listIDs(svc.Lists()))

	require.NoError(t, svc.MoveList(ids[2], -1), "already first")
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, listIDs(svc.Lists()))

	assert.ErrorIs(t, svc.MoveList("list-missing", 1), domainerrors.ErrNotFound)
}

func TestListService_ReturnsCopies(t *testing.T) {
	svc, _, _ := setupListService(t)
	listID, err := svc.AddList(domain.CategoryMusic, "Songs", "")
	require.NoError(t, err)
	_, err = svc.UpdateListItems(listID, []domain.TopTenItem{{ID: "a", Rank: 1, Title: "A"}})
	require.NoError(t, err)

	list, err := svc.GetList(listID)
	require.NoError(t, err)
	list.Items[0].Title = "mutated"

	again, err := svc.GetList(listID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Items[0].Title)
}
