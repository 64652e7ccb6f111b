package runs

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/openquantum/nanocell/internal/modules/nanobot"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db, zerolog.New(nil).Level(zerolog.Disabled))
	require.NoError(t, repo.InitSchema())
	return repo
}

func deliveryRun(id string, createdAt time.Time) Run {
	return Run{
		ID:        id,
		Kind:      KindDelivery,
		CreatedAt: createdAt,
		Params:    json.RawMessage(`{"size_nm":30,"payload":"mRNA","seed":42}`),
		Summary:   json.RawMessage(`{"steps":120,"target_reached":true}`),
		Samples: []nanobot.Sample{
			{Step: 0, Position: [3]float64{0, 0, 0}, Velocity: 0},
			{Step: 1, Position: [3]float64{0.1, 0.05, 0.02}, Velocity: 0.06},
		},
	}
}

func TestSaveAndGet_RoundTripsSamples(t *testing.T) {
	repo := testRepo(t)

	saved := deliveryRun("run-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Save(saved))

	got, err := repo.Get("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Kind, got.Kind)
	assert.Equal(t, saved.CreatedAt, got.CreatedAt)
	assert.JSONEq(t, string(saved.Params), string(got.Params))
	assert.Equal(t, saved.Samples, got.Samples)
}

func TestGet_NotFound(t *testing.T) {
	repo := testRepo(t)

	got, err := repo.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestList_FiltersByKindAndOrders(t *testing.T) {
	repo := testRepo(t)

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(deliveryRun("old", base.Add(-2*time.Hour))))
	require.NoError(t, repo.Save(deliveryRun("new", base)))
	require.NoError(t, repo.Save(Run{
		ID:        "quantum",
		Kind:      KindReprogramming,
		CreatedAt: base.Add(-time.Hour),
		Params:    json.RawMessage(`{}`),
		Summary:   json.RawMessage(`{"success_probability":0.93}`),
	}))

	all, err := repo.List("", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "quantum", all[1].ID)
	assert.Equal(t, "old", all[2].ID)

	deliveries, err := repo.List(KindDelivery, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	for _, info := range deliveries {
		assert.Equal(t, KindDelivery, info.Kind)
	}
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.Save(deliveryRun("run-1", time.Now().UTC())))

	deleted, err := repo.Delete("run-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete("run-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPurgeOlderThan(t *testing.T) {
	repo := testRepo(t)

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(deliveryRun("ancient", base.Add(-72*time.Hour))))
	require.NoError(t, repo.Save(deliveryRun("recent", base)))

	purged, err := repo.PurgeOlderThan(base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	remaining, err := repo.List("", 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].ID)
}
