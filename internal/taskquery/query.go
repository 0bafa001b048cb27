// Package taskqueryはタスク一覧クエリの検証・正規化とURLエンコードを提供します。
// サーバー側のバリデーションとクライアント側のURL同期が同じ実装を共有するため、
// Parse(Encode(q)) == q が常に成立します。
package taskquery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ページングの既定値と上限。
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// StatusFilter は status パラメータの列挙値です。
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// SortField は sort パラメータの列挙値です。
type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortTitle     SortField = "title"
)

// SortOrder は order パラメータの列挙値です。
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Query は検証済みのクエリ条件です。ゼロ値ではなく Default() から作ります。
type Query struct {
	Status StatusFilter
	Search string
	Sort   SortField
	Order  SortOrder
	Offset int
	Limit  int
}

// Default はすべて既定値のQueryを返します。
// status=all, sort=created_at, order=desc, offset=0, limit=20。
func Default() Query {
	return Query{
		Status: StatusAll,
		Sort:   SortCreatedAt,
		Order:  OrderDesc,
		Offset: 0,
		Limit:  DefaultLimit,
	}
}

// FieldError はどのパラメータが不正だったかを表すバリデーションエラーです。
type FieldError struct {
	Field  string
	Detail string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Field, e.Detail)
}

// Parse は生のクエリパラメータを検証し、正規化されたQueryを返します。
// 列挙外の値や数値でない offset/limit は *FieldError で拒否します。
// 空・空白のみの search は「検索なし」として扱います。
func Parse(values url.Values) (Query, error) {
	q := Default()

	if v := values.Get("status"); v != "" {
		switch StatusFilter(v) {
		case StatusAll, StatusPending, StatusCompleted:
			q.Status = StatusFilter(v)
		default:
			return Query{}, &FieldError{Field: "status", Detail: "must be one of all, pending, completed"}
		}
	}

	q.Search = strings.TrimSpace(values.Get("search"))

	if v := values.Get("sort"); v != "" {
		switch SortField(v) {
		case SortCreatedAt, SortTitle:
			q.Sort = SortField(v)
		default:
			return Query{}, &FieldError{Field: "sort", Detail: "must be one of created_at, title"}
		}
	}

	if v := values.Get("order"); v != "" {
		switch SortOrder(v) {
		case OrderAsc, OrderDesc:
			q.Order = SortOrder(v)
		default:
			return Query{}, &FieldError{Field: "order", Detail: "must be one of asc, desc"}
		}
	}

	if v := values.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Query{}, &FieldError{Field: "offset", Detail: "must be a non-negative integer"}
		}
		q.Offset = n
	}

	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return Query{}, &FieldError{Field: "limit", Detail: fmt.Sprintf("must be an integer between 1 and %d", MaxLimit)}
		}
		q.Limit = n
	}

	return q, nil
}

// ParseLenient はクライアントのURL復元用です。不正な値は既定値に置き換え、
// エラーを返しません（リロード時にURLが壊れていても表示は既定状態で続行する）。
func ParseLenient(values url.Values) Query {
	q := Default()

	switch StatusFilter(values.Get("status")) {
	case StatusPending:
		q.Status = StatusPending
	case StatusCompleted:
		q.Status = StatusCompleted
	}

	q.Search = strings.TrimSpace(values.Get("search"))

	if SortField(values.Get("sort")) == SortTitle {
		q.Sort = SortTitle
	}
	if SortOrder(values.Get("order")) == OrderAsc {
		q.Order = OrderAsc
	}

	if n, err := strconv.Atoi(values.Get("offset")); err == nil && n >= 0 {
		q.Offset = n
	}
	if n, err := strconv.Atoi(values.Get("limit")); err == nil && n >= 1 && n <= MaxLimit {
		q.Limit = n
	}

	return q
}

// Encode はQueryをURLクエリに変換します。既定値のままのパラメータは
// URLに載せません（共有しやすい短いURLを保つ）。
func (q Query) Encode() url.Values {
	v := url.Values{}
	if q.Status != StatusAll {
		v.Set("status", string(q.Status))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != SortCreatedAt {
		v.Set("sort", string(q.Sort))
	}
	if q.Order != OrderDesc {
		v.Set("order", string(q.Order))
	}
	if q.Offset != 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit != DefaultLimit {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
