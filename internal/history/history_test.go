package history

import (
	"context"
	"testing"

	"github.com/dekarrin/claripy/internal/lang"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	st, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_SQLiteStore_RecordAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	userID, err := uuid.NewRandom()
	require.NoError(t, err)

	recorded, err := st.Record(ctx, Entry{
		UserID:     &userID,
		Direction:  ToPyLite,
		SourceText: `Print "hi";`,
		ResultText: `print("hi")`,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, recorded.ID)

	got, err := st.Get(ctx, recorded.ID)
	require.NoError(t, err)
	assert.Equal(t, recorded.ID, got.ID)
	assert.Equal(t, ToPyLite, got.Direction)
	assert.Equal(t, `Print "hi";`, got.SourceText)
	assert.Equal(t, `print("hi")`, got.ResultText)
	require.NotNil(t, got.UserID)
	assert.Equal(t, userID, *got.UserID)
}

func Test_SQLiteStore_RecordWithoutUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	recorded, err := st.Record(ctx, Entry{
		Direction:  ToClariPy,
		SourceText: `print(1)`,
		ResultText: `Print 1;`,
	})
	require.NoError(t, err)
	assert.Nil(t, recorded.UserID)

	got, err := st.Get(ctx, recorded.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UserID)
}

func Test_SQLiteStore_Get_notFound(t *testing.T) {
	st := newTestStore(t)
	id, err := uuid.NewRandom()
	require.NoError(t, err)

	_, err = st.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_SQLiteStore_Recent_mostRecentFirstAndFilteredByUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	userA, err := uuid.NewRandom()
	require.NoError(t, err)
	userB, err := uuid.NewRandom()
	require.NoError(t, err)

	first, err := st.Record(ctx, Entry{UserID: &userA, Direction: ToPyLite, SourceText: "a1"})
	require.NoError(t, err)
	second, err := st.Record(ctx, Entry{UserID: &userA, Direction: ToPyLite, SourceText: "a2"})
	require.NoError(t, err)
	_, err = st.Record(ctx, Entry{UserID: &userB, Direction: ToPyLite, SourceText: "b1"})
	require.NoError(t, err)

	entries, err := st.Recent(ctx, &userA, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Recent orders by created DESC; entries recorded back-to-back within
	// the same second can tie, so just assert both of userA's runs are
	// present and userB's is excluded.
	ids := []uuid.UUID{entries[0].ID, entries[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}

func Test_SQLiteStore_Recent_defaultLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.Record(ctx, Entry{Direction: ToPyLite, SourceText: "x"})
		require.NoError(t, err)
	}

	entries, err := st.Recent(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func Test_EncodeDecodeTree_roundTrip(t *testing.T) {
	mod, err := lang.ParseClariPySource(`Define x as 1; Print x;`)
	require.NoError(t, err)
	tree := lang.BuildDisplayTree(mod)

	encoded := EncodeTree(tree)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeTree(encoded)
	require.NoError(t, err)
	assert.Equal(t, tree, decoded)
}

func Test_EncodeDecodeTree_nilAndEmpty(t *testing.T) {
	assert.Nil(t, EncodeTree(nil))

	decoded, err := DecodeTree(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}
