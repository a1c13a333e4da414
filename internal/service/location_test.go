package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/store"
)

type fakeLocator struct {
	calls atomic.Int32
	loc   *domain.DetectedLocation
	err   error
	gate  chan struct{}
}

func (f *fakeLocator) Locate(context.Context) (*domain.DetectedLocation, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	c := *f.loc
	return &c, nil
}

var testNow = time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)

func setupLocationService(t *testing.T, loc Locator, enabled bool) (*LocationService, *memPersister, *store.Store) {
	t.Helper()

	st := setupTestStore(t)
	p := newMemPersister()
	svc := NewLocationService(st, p, loc, nil, LocationOptions{Enabled: enabled})
	svc.now = func() time.Time { return testNow }
	return svc, p, st
}

func TestLocationService_DetectLooksUpAndCaches(t *testing.T) {
	f := &fakeLocator{loc: &domain.DetectedLocation{City: "Lisbon", CountryCode: "PT", DetectedAt: testNow}}
	svc, p, _ := setupLocationService(t, f, true)
	ctx := context.Background()

	loc, err := svc.Detect(ctx)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Lisbon", loc.City)

	loc, err = svc.Detect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", loc.City)
	assert.Equal(t, int32(1), f.calls.Load(), "fresh value reused")

	var persisted domain.DetectedLocation
	p.decode(t, store.KeyDetectedLocation, &persisted)
	assert.Equal(t, "PT", persisted.CountryCode)
}

func TestLocationService_StaleRefreshes(t *testing.T) {
	f := &fakeLocator{loc: &domain.DetectedLocation{City: "Porto", DetectedAt: testNow}}
	svc, _, st := setupLocationService(t, f, true)
	ctx := context.Background()

	old := domain.DetectedLocation{City: "Lisbon", DetectedAt: testNow.Add(-8 * 24 * time.Hour)}
	require.NoError(t, st.SaveDetectedLocation(ctx, old))
	require.NoError(t, svc.Load(ctx))

	loc, err := svc.Detect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Porto", loc.City)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestLocationService_FailureFallsBackToStale(t *testing.T) {
	f := &fakeLocator{err: errors.New("boom")}
	svc, p, st := setupLocationService(t, f, true)
	ctx := context.Background()

	old := domain.DetectedLocation{City: "Lisbon", DetectedAt: testNow.Add(-30 * 24 * time.Hour)}
	require.NoError(t, st.SaveDetectedLocation(ctx, old))
	require.NoError(t, svc.Load(ctx))

	loc, err := svc.Detect(ctx)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Lisbon", loc.City)
	assert.Zero(t, p.count(store.KeyDetectedLocation))
}

func TestLocationService_FailureWithoutCache(t *testing.T) {
	svc, _, _ := setupLocationService(t, &fakeLocator{err: errors.New("boom")}, true)

	loc, err := svc.Detect(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, loc)
}

func TestLocationService_Disabled(t *testing.T) {
	f := &fakeLocator{loc: &domain.DetectedLocation{City: "Porto"}}
	svc, _, _ := setupLocationService(t, f, false)

	loc, err := svc.Detect(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, loc)
	assert.Zero(t, f.calls.Load())
}

func TestLocationService_StampsDetectedAt(t *testing.T) {
	f := &fakeLocator{loc: &domain.DetectedLocation{City: "Porto"}}
	svc, _, _ := setupLocationService(t, f, true)

	loc, err := svc.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testNow, loc.DetectedAt)
	assert.Equal(t, testNow, svc.Cached().DetectedAt)
}

func TestLocationService_ConcurrentDetectCollapses(t *testing.T) {
	f := &fakeLocator{loc: &domain.DetectedLocation{City: "Porto", DetectedAt: testNow}, gate: make(chan struct{})}
	svc, _, _ := setupLocationService(t, f, true)

	var wg sync.WaitGroup
	for range 5 {
		wg.Go(func() {
			loc, err := svc.Detect(context.Background())
			assert.NoError(t, err)
			if assert.NotNil(t, loc) {
				assert.Equal(t, "Porto", loc.City)
			}
		})
	}
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
}
