package taskclient

import (
	"net/url"
	"strings"
	"sync"

	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
)

// URLSink はクエリ状態の書き込み先（ブラウザのアドレスバー相当）です。
// 既定値のパラメータは省略されたクエリ文字列を受け取ります。
type URLSink interface {
	ReplaceQuery(rawQuery string)
}

// MemoryURL はURLSinkの単純な実装です。テストや組み込み用。
type MemoryURL struct {
	mu       sync.Mutex
	rawQuery string
}

// ReplaceQuery は保持しているクエリ文字列を置き換えます。
func (m *MemoryURL) ReplaceQuery(rawQuery string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawQuery = rawQuery
}

// RawQuery は現在のクエリ文字列を返します。
func (m *MemoryURL) RawQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rawQuery
}

// QueryStateStore は {status, search, sort, order} の正準状態を保持します。
// 状態の変更とURLの書き換えは同じクリティカルセクション内で行われるため、
// 連続した変更でもURLは常に最後の状態だけを反映します。
// offset/limit はリストコントローラが管理し、URLには載せません。
type QueryStateStore struct {
	mu       sync.Mutex
	state    taskquery.Query
	sink     URLSink
	onChange func(taskquery.Query)
}

// NewQueryStateStore はURLのクエリ文字列から初期状態を復元します。
// 不足・不正なパラメータは既定値に落とします（リロードしても壊れない）。
func NewQueryStateStore(rawQuery string, sink URLSink) *QueryStateStore {
	values, _ := url.ParseQuery(rawQuery)
	q := taskquery.ParseLenient(values)
	// ページング状態はURLに持たせない
	q.Offset = 0
	q.Limit = taskquery.DefaultLimit
	return &QueryStateStore{state: q, sink: sink}
}

// OnChange は状態変更時のコールバックを登録します。
// コールバックはロック中に呼ばれるため、このストアへ再入してはいけません。
// 再取得の起動は非同期に行ってください。
func (s *QueryStateStore) OnChange(fn func(taskquery.Query)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Query は現在の状態のコピーを返します。
func (s *QueryStateStore) Query() taskquery.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// update は状態変更・URL書き換え・変更通知を1つのロック区間で行います。
func (s *QueryStateStore) update(mutate func(*taskquery.Query)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.state)
	if s.sink != nil {
		s.sink.ReplaceQuery(s.state.Encode().Encode())
	}
	if s.onChange != nil {
		s.onChange(s.state)
	}
}

// SetStatus はステータスフィルタを変更します。
func (s *QueryStateStore) SetStatus(f taskquery.StatusFilter) {
	s.update(func(q *taskquery.Query) { q.Status = f })
}

// SetSearch は検索文字列を変更します。空白のみは「検索なし」になります。
func (s *QueryStateStore) SetSearch(text string) {
	s.update(func(q *taskquery.Query) { q.Search = strings.TrimSpace(text) })
}

// SetSortAndOrder はソートキーと順序を同時に変更します。
func (s *QueryStateStore) SetSortAndOrder(field taskquery.SortField, order taskquery.SortOrder) {
	s.update(func(q *taskquery.Query) {
		q.Sort = field
		q.Order = order
	})
}
