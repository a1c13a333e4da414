package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/domain"
	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/store"
)

func featuredIDs(lists []domain.FeaturedList) []string {
	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	return ids
}

func TestFeaturedService_ListAndGet(t *testing.T) {
	sd := seed.MustLoad()
	svc := NewFeaturedService(setupTestStore(t), newMemPersister(), sd, nil)
	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, featuredIDs(sd.Featured), featuredIDs(svc.List()))

	got, err := svc.Get(sd.Featured[0].ID)
	require.NoError(t, err)
	assert.Equal(t, sd.Featured[0].Title, got.Title)

	_, err = svc.Get("featured-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestFeaturedService_MarkViewed(t *testing.T) {
	sd := seed.MustLoad()
	p := newMemPersister()
	svc := NewFeaturedService(setupTestStore(t), p, sd, nil)
	require.NoError(t, svc.Load(context.Background()))

	first := sd.Featured[0].ID
	assert.Len(t, svc.Unviewed(), len(sd.Featured))
	assert.False(t, svc.Viewed(first))

	require.NoError(t, svc.MarkViewed(first))
	require.NoError(t, svc.MarkViewed(first))

	assert.True(t, svc.Viewed(first))
	assert.NotContains(t, featuredIDs(svc.Unviewed()), first)
	assert.Len(t, svc.Unviewed(), len(sd.Featured)-1)
	assert.Equal(t, 1, p.count(store.KeyFeaturedViewed))

	var viewed []string
	p.decode(t, store.KeyFeaturedViewed, &viewed)
	assert.Equal(t, []string{first}, viewed)

	assert.ErrorIs(t, svc.MarkViewed("featured-missing"), domainerrors.ErrNotFound)
}

func TestFeaturedService_LoadViewed(t *testing.T) {
	sd := seed.MustLoad()
	st := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, store.KeyFeaturedViewed, []byte(`["`+sd.Featured[1].ID+`"]`)))

	svc := NewFeaturedService(st, newMemPersister(), sd, nil)
	require.NoError(t, svc.Load(ctx))
	assert.True(t, svc.Viewed(sd.Featured[1].ID))
	assert.False(t, svc.Viewed(sd.Featured[0].ID))
}
