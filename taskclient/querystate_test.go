package taskclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
	"github.com/mub7865/Hackathone-2-sub003/taskclient"
)

func TestQueryStateStore_RestoreFromURL(t *testing.T) {
	store := taskclient.NewQueryStateStore("status=pending&search=milk&sort=title&order=asc", nil)
	q := store.Query()

	assert.Equal(t, taskquery.StatusPending, q.Status)
	assert.Equal(t, "milk", q.Search)
	assert.Equal(t, taskquery.SortTitle, q.Sort)
	assert.Equal(t, taskquery.OrderAsc, q.Order)
	// ページング状態はURLから復元しない
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, taskquery.DefaultLimit, q.Limit)
}

func TestQueryStateStore_BrokenURLFallsBackToDefaults(t *testing.T) {
	// 手で書き換えられた壊れたURLでも初期化は失敗しない
	store := taskclient.NewQueryStateStore("status=bogus&sort=%%%&offset=-3", nil)
	q := store.Query()

	assert.Equal(t, taskquery.StatusAll, q.Status)
	assert.Equal(t, taskquery.SortCreatedAt, q.Sort)
	assert.Equal(t, taskquery.OrderDesc, q.Order)
}

func TestQueryStateStore_URLOmitsDefaults(t *testing.T) {
	sink := &taskclient.MemoryURL{}
	store := taskclient.NewQueryStateStore("", sink)

	store.SetStatus(taskquery.StatusPending)
	assert.Equal(t, "status=pending", sink.RawQuery())

	// 既定値へ戻すとパラメータごと消える
	store.SetStatus(taskquery.StatusAll)
	assert.Equal(t, "", sink.RawQuery())
}

func TestQueryStateStore_URLRoundTrip(t *testing.T) {
	sink := &taskclient.MemoryURL{}
	store := taskclient.NewQueryStateStore("", sink)

	store.SetStatus(taskquery.StatusCompleted)
	store.SetSearch("  milk  ")
	store.SetSortAndOrder(taskquery.SortTitle, taskquery.OrderAsc)

	// URLに書かれた状態からストアを作り直すと同じ状態が復元される
	restored := taskclient.NewQueryStateStore(sink.RawQuery(), nil)
	assert.Equal(t, store.Query(), restored.Query())
	assert.Equal(t, "milk", restored.Query().Search)
}

func TestQueryStateStore_RapidChangesKeepFinalState(t *testing.T) {
	sink := &taskclient.MemoryURL{}
	store := taskclient.NewQueryStateStore("", sink)

	// タイプ中の連続変更。URLは常に最後の状態だけを反映する
	for _, text := range []string{"m", "mi", "mil", "milk"} {
		store.SetSearch(text)
	}
	assert.Equal(t, "search=milk", sink.RawQuery())
	assert.Equal(t, "milk", store.Query().Search)
}

func TestQueryStateStore_OnChangeReceivesNewState(t *testing.T) {
	store := taskclient.NewQueryStateStore("", nil)

	var got []taskquery.Query
	store.OnChange(func(q taskquery.Query) {
		got = append(got, q)
	})

	store.SetStatus(taskquery.StatusPending)
	store.SetSearch("milk")

	require.Len(t, got, 2)
	assert.Equal(t, taskquery.StatusPending, got[0].Status)
	assert.Equal(t, "milk", got[1].Search)
	assert.Equal(t, taskquery.StatusPending, got[1].Status)
}
