package activity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"inventory-backend/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) UserName(ctx context.Context, id uint) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockDirectory) ProductName(ctx context.Context, id uint) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func uintPtr(v uint) *uint { return &v }

func TestTimeAgo(t *testing.T) {
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "0s ago"},
		{30 * time.Second, "30s ago"},
		{59 * time.Second, "59s ago"},
		{90 * time.Second, "1m ago"},
		{3599 * time.Second, "59m ago"},
		{3700 * time.Second, "1h ago"},
		{23*time.Hour + 59*time.Minute, "23h ago"},
		{90000 * time.Second, "1d ago"},
		{400 * 24 * time.Hour, "400d ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TimeAgo(now.Add(-tc.ago), now), tc.ago.String())
	}
}

func TestTimeAgo_FutureClampsToZero(t *testing.T) {
	assert.Equal(t, "0s ago", TimeAgo(now.Add(5*time.Second), now))
}

func TestParseMeta(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		m, err := ParseMeta([]byte(`{"product_id": 4, "product_name": "Widget", "qty": 7, "status": "done"}`))
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, uint(4), *m.ProductID)
		assert.Equal(t, "Widget", *m.ProductName)
		assert.Equal(t, 7.0, *m.Qty)
		assert.Equal(t, "done", *m.Status)
	})

	t.Run("double encoded", func(t *testing.T) {
		m, err := ParseMeta([]byte(`"{\"qty\":\"2.5\",\"product_id\":\"12\"}"`))
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, 2.5, *m.Qty)
		assert.Equal(t, uint(12), *m.ProductID)
		assert.Nil(t, m.ProductName)
	})

	t.Run("empty and null", func(t *testing.T) {
		for _, raw := range []string{"", "  ", "null", `"null"`, `""`} {
			m, err := ParseMeta([]byte(raw))
			assert.NoError(t, err, raw)
			assert.Nil(t, m, raw)
		}
	})

	t.Run("unusable fields are dropped", func(t *testing.T) {
		m, err := ParseMeta([]byte(`{"product_id": 0, "product_name": "", "qty": "lots", "status": 3}`))
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Nil(t, m.ProductID)
		assert.Nil(t, m.ProductName)
		assert.Nil(t, m.Qty)
		assert.Nil(t, m.Status)
	})

	t.Run("null qty is absent, zero qty is kept", func(t *testing.T) {
		m, err := ParseMeta([]byte(`{"qty": null}`))
		require.NoError(t, err)
		assert.Nil(t, m.Qty)

		m, err = ParseMeta([]byte(`{"qty": 0}`))
		require.NoError(t, err)
		require.NotNil(t, m.Qty)
		assert.Equal(t, 0.0, *m.Qty)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, raw := range []string{`{not json`, `[1,2]`, `42`, `"{broken"`} {
			_, err := ParseMeta([]byte(raw))
			assert.Error(t, err, raw)
		}
	})
}

func TestMeta_RoundTripThroughWriterEncoding(t *testing.T) {
	name := "Widget"
	qty := 3.0
	b, err := json.Marshal(&Meta{ProductName: &name, Qty: &qty})
	require.NoError(t, err)
	assert.JSONEq(t, `{"product_name":"Widget","qty":3}`, string(b))
}

func TestEnrich_ExplicitProductNameWins(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("UserName", mock.Anything, uint(1)).Return("Ada", nil).Once()

	e := NewEnricher(dir, zerolog.Nop())
	rows := []models.ActivityLog{{
		ID:        10,
		UserID:    uintPtr(1),
		Action:    "stock.adjusted",
		Meta:      datatypes.JSON(`{"product_id": 4, "product_name": "Widget", "qty": 7}`),
		CreatedAt: now.Add(-30 * time.Second),
	}}

	out := e.Enrich(context.Background(), rows, now)

	require.Len(t, out, 1)
	rec := out[0]
	assert.Equal(t, uint(10), rec.ID)
	require.NotNil(t, rec.Product)
	assert.Equal(t, "Widget", *rec.Product)
	require.NotNil(t, rec.Qty)
	assert.Equal(t, 7.0, *rec.Qty)
	assert.Equal(t, "Ada", *rec.User)
	assert.Equal(t, "30s ago", *rec.TimeAgo)
	assert.Equal(t, "stock.adjusted", *rec.Status)
	dir.AssertNotCalled(t, "ProductName", mock.Anything, mock.Anything)
	dir.AssertExpectations(t)
}

func TestEnrich_ProductLookupAndStatusOverride(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("ProductName", mock.Anything, uint(4)).Return("Bolt M6", nil).Once()

	e := NewEnricher(dir, zerolog.Nop())
	rows := []models.ActivityLog{{
		ID:        11,
		Action:    "receipt.validated",
		Meta:      datatypes.JSON(`{"product_id": "4", "status": "done"}`),
		CreatedAt: now.Add(-3700 * time.Second),
	}}

	rec := e.Enrich(context.Background(), rows, now)[0]

	assert.Equal(t, "Bolt M6", *rec.Product)
	assert.Nil(t, rec.Qty)
	assert.Nil(t, rec.User)
	assert.Equal(t, "done", *rec.Status)
	assert.Equal(t, "1h ago", *rec.TimeAgo)
	dir.AssertExpectations(t)
}

func TestEnrich_MalformedMetadataKeepsRow(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("UserName", mock.Anything, uint(2)).Return("Grace", nil).Once()

	e := NewEnricher(dir, zerolog.Nop())
	rows := []models.ActivityLog{{
		ID:        12,
		UserID:    uintPtr(2),
		Action:    "product.updated",
		Meta:      datatypes.JSON(`{"product_id": 4,`),
		CreatedAt: now.Add(-90 * time.Second),
	}}

	out := e.Enrich(context.Background(), rows, now)

	require.Len(t, out, 1)
	rec := out[0]
	assert.Equal(t, uint(12), rec.ID)
	assert.Equal(t, "Grace", *rec.User)
	assert.Equal(t, "1m ago", *rec.TimeAgo)
	assert.Nil(t, rec.Product)
	assert.Nil(t, rec.Qty)
	assert.Equal(t, "product.updated", *rec.Status)
	dir.AssertNotCalled(t, "ProductName", mock.Anything, mock.Anything)
}

func TestEnrich_LookupFailuresDegradeToNil(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("UserName", mock.Anything, uint(3)).Return("", errors.New("record not found")).Once()
	dir.On("ProductName", mock.Anything, uint(99)).Return("", errors.New("connection reset")).Once()

	e := NewEnricher(dir, zerolog.Nop())
	rows := []models.ActivityLog{{
		ID:        13,
		UserID:    uintPtr(3),
		Meta:      datatypes.JSON(`{"product_id": 99, "qty": "4"}`),
		CreatedAt: now.Add(-90000 * time.Second),
	}}

	rec := e.Enrich(context.Background(), rows, now)[0]

	assert.Nil(t, rec.User)
	assert.Nil(t, rec.Product)
	assert.Nil(t, rec.Status)
	require.NotNil(t, rec.Qty)
	assert.Equal(t, 4.0, *rec.Qty)
	assert.Equal(t, "1d ago", *rec.TimeAgo)
	dir.AssertExpectations(t)
}

func TestEnrich_PreservesOrderAndHandlesBareRows(t *testing.T) {
	dir := new(mockDirectory)
	e := NewEnricher(dir, zerolog.Nop())

	rows := []models.ActivityLog{
		{ID: 3, Action: "a"},
		{ID: 1, Action: "b"},
		{ID: 2},
	}

	out := e.Enrich(context.Background(), rows, now)

	require.Len(t, out, 3)
	assert.Equal(t, []uint{3, 1, 2}, []uint{out[0].ID, out[1].ID, out[2].ID})
	assert.Nil(t, out[2].TimeAgo)
	assert.Nil(t, out[2].Status)
	dir.AssertNotCalled(t, "UserName", mock.Anything, mock.Anything)
}

func TestParseMeta_CategoryKeys(t *testing.T) {
	m, err := ParseMeta([]byte(`{"category_id":"12","category_name":"Tools","product_id":0}`))
	require.NoError(t, err)

	require.NotNil(t, m.CategoryID)
	assert.Equal(t, uint(12), *m.CategoryID)
	assert.Equal(t, "Tools", *m.CategoryName)
	assert.Nil(t, m.ProductID)
}

func TestParseMeta_NonFiniteNumbersAreDropped(t *testing.T) {
	for _, raw := range []string{`{"qty":"NaN"}`, `{"qty":"Inf"}`, `{"qty":"-Infinity"}`, `{"product_id":"+Inf"}`} {
		m, err := ParseMeta([]byte(raw))
		require.NoError(t, err, raw)
		require.NotNil(t, m, raw)
		assert.Nil(t, m.Qty, raw)
		assert.Nil(t, m.ProductID, raw)
	}
}

func TestEnrich_NonFiniteQtyStillEncodes(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("UserName", mock.Anything, uint(5)).Return("Linus", nil).Once()

	e := NewEnricher(dir, zerolog.Nop())
	rows := []models.ActivityLog{{
		ID:        21,
		UserID:    uintPtr(5),
		Action:    "stock.adjusted",
		Meta:      datatypes.JSON(`{"product_name":"Bolt","qty":"NaN"}`),
		CreatedAt: now.Add(-5 * time.Minute),
	}}

	out := e.Enrich(context.Background(), rows, now)

	require.Len(t, out, 1)
	rec := out[0]
	assert.Equal(t, uint(21), rec.ID)
	assert.Equal(t, "Linus", *rec.User)
	assert.Equal(t, "5m ago", *rec.TimeAgo)
	assert.Equal(t, "Bolt", *rec.Product)
	assert.Nil(t, rec.Qty)

	_, err := json.Marshal(out)
	assert.NoError(t, err)
	dir.AssertExpectations(t)
}
