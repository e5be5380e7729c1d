package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "evidenzia.db"), store.Path())
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening reruns the migration loop against an up-to-date schema.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestDocStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocStore()

	ex := domain.Extraction{
		Highlights: []domain.HighlightSpan{
			{Filename: "a.docx", Type: "highlight", Color: "yellow", Text: "testo"},
		},
		Paragraphs: []domain.ParagraphRef{
			{Filename: "a.docx", ParaIndex: 0, Text: "testo completo"},
		},
	}
	require.NoError(t, docs.SaveDoc(ctx, "a.docx", ex))

	got, err := docs.GetDoc(ctx, "a.docx")
	require.NoError(t, err)
	assert.Equal(t, ex, got)

	require.NoError(t, docs.DeleteDoc(ctx, "a.docx"))
	_, err = docs.GetDoc(ctx, "a.docx")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocStore()

	first := domain.Extraction{Paragraphs: []domain.ParagraphRef{{Filename: "a.docx", Text: "vecchio"}}}
	second := domain.Extraction{Paragraphs: []domain.ParagraphRef{{Filename: "a.docx", Text: "nuovo"}}}

	require.NoError(t, docs.SaveDoc(ctx, "a.docx", first))
	require.NoError(t, docs.SaveDoc(ctx, "a.docx", second))

	got, err := docs.GetDoc(ctx, "a.docx")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestDocStore_ListFilenamesSorted(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocStore()

	require.NoError(t, docs.SaveDoc(ctx, "b.docx", domain.Extraction{}))
	require.NoError(t, docs.SaveDoc(ctx, "a.docx", domain.Extraction{}))

	names, err := docs.ListFilenames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.docx", "b.docx"}, names)
}

func TestDocStore_DeleteUnknownIsNoop(t *testing.T) {
	docs := newTestStore(t).DocStore()
	assert.NoError(t, docs.DeleteDoc(context.Background(), "ghost.docx"))
}

func TestStateStore_EmptyDatabase(t *testing.T) {
	states := newTestStore(t).StateStore()

	_, ok, err := states.LoadState(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	states := newTestStore(t).StateStore()

	state := domain.DefaultMappingState()
	state.ColorMap["yellow"] = "Territorio"
	state.CodeMap["CE_T"] = "Territorio"
	state.CatOverride["a.docx#3"] = "Didattica"
	state.Meta["a.docx"] = map[string]string{"tipo": "relazione"}
	state.ExtraCategories = []string{"XX_X", "YY_Y"}

	require.NoError(t, states.SaveState(ctx, state))

	got, ok, err := states.LoadState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state, got)
}

func TestStateStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	states := newTestStore(t).StateStore()

	first := domain.DefaultMappingState()
	first.ColorMap["yellow"] = "uno"
	require.NoError(t, states.SaveState(ctx, first))

	second := domain.DefaultMappingState()
	second.ColorMap["yellow"] = "due"
	require.NoError(t, states.SaveState(ctx, second))

	got, ok, err := states.LoadState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "due", got.ColorMap["yellow"])
}

func TestStateStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	state := domain.DefaultMappingState()
	state.CodeMap["CS_D"] = "Didattica"
	require.NoError(t, store.StateStore().SaveState(ctx, state))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	got, ok, err := store.StateStore().LoadState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Didattica", got.CodeMap["CS_D"])
}
