package taskquery_test

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
)

func TestParse_Defaults(t *testing.T) {
	q, err := taskquery.Parse(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, taskquery.StatusAll, q.Status)
	assert.Equal(t, "", q.Search)
	assert.Equal(t, taskquery.SortCreatedAt, q.Sort)
	assert.Equal(t, taskquery.OrderDesc, q.Order)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, taskquery.DefaultLimit, q.Limit)
}

func TestParse_ValidValues(t *testing.T) {
	values := url.Values{}
	values.Set("status", "completed")
	values.Set("search", "milk")
	values.Set("sort", "title")
	values.Set("order", "asc")
	values.Set("offset", "40")
	values.Set("limit", "10")

	q, err := taskquery.Parse(values)
	require.NoError(t, err)

	assert.Equal(t, taskquery.StatusCompleted, q.Status)
	assert.Equal(t, "milk", q.Search)
	assert.Equal(t, taskquery.SortTitle, q.Sort)
	assert.Equal(t, taskquery.OrderAsc, q.Order)
	assert.Equal(t, 40, q.Offset)
	assert.Equal(t, 10, q.Limit)
}

func TestParse_WhitespaceSearchMeansNoSearch(t *testing.T) {
	values := url.Values{}
	values.Set("search", "   ")

	q, err := taskquery.Parse(values)
	require.NoError(t, err)
	assert.Equal(t, "", q.Search)
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"unknown status", "status", "archived", "status"},
		{"unknown sort field", "sort", "updated_at", "sort"},
		{"unknown order", "order", "descending", "order"},
		{"negative offset", "offset", "-1", "offset"},
		{"non-numeric offset", "offset", "abc", "offset"},
		{"zero limit", "limit", "0", "limit"},
		{"limit above max", "limit", "101", "limit"},
		{"non-numeric limit", "limit", "ten", "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			values.Set(tt.key, tt.value)

			_, err := taskquery.Parse(values)
			require.Error(t, err)

			var fieldErr *taskquery.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestEncode_OmitsDefaults(t *testing.T) {
	// すべて既定値ならURLは空になる
	assert.Equal(t, "", taskquery.Default().Encode().Encode())

	q := taskquery.Default()
	q.Status = taskquery.StatusPending
	encoded := q.Encode()
	assert.Equal(t, "pending", encoded.Get("status"))
	assert.Empty(t, encoded.Get("sort"))
	assert.Empty(t, encoded.Get("order"))
	assert.Empty(t, encoded.Get("offset"))
	assert.Empty(t, encoded.Get("limit"))
}

func TestEncodeParse_RoundTrip(t *testing.T) {
	statuses := []taskquery.StatusFilter{taskquery.StatusAll, taskquery.StatusPending, taskquery.StatusCompleted}
	sorts := []taskquery.SortField{taskquery.SortCreatedAt, taskquery.SortTitle}
	orders := []taskquery.SortOrder{taskquery.OrderAsc, taskquery.OrderDesc}
	searches := []string{"", "milk", "Buy Milk"}

	for _, status := range statuses {
		for _, sort := range sorts {
			for _, order := range orders {
				for _, search := range searches {
					q := taskquery.Query{
						Status: status,
						Search: search,
						Sort:   sort,
						Order:  order,
						Offset: 40,
						Limit:  10,
					}
					name := fmt.Sprintf("%s_%s_%s_%q", status, sort, order, search)
					t.Run(name, func(t *testing.T) {
						parsed, err := taskquery.Parse(q.Encode())
						require.NoError(t, err)
						assert.Equal(t, q, parsed)
					})
				}
			}
		}
	}
}

func TestParseLenient_FallsBackToDefaults(t *testing.T) {
	values := url.Values{}
	values.Set("status", "bogus")
	values.Set("sort", "bogus")
	values.Set("order", "bogus")
	values.Set("offset", "-5")
	values.Set("limit", "9999")
	values.Set("search", "  milk  ")

	q := taskquery.ParseLenient(values)

	assert.Equal(t, taskquery.StatusAll, q.Status)
	assert.Equal(t, taskquery.SortCreatedAt, q.Sort)
	assert.Equal(t, taskquery.OrderDesc, q.Order)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, taskquery.DefaultLimit, q.Limit)
	assert.Equal(t, "milk", q.Search)
}
