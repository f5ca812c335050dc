package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoRowIndex() []time.Time {
	return []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
}

// TestTable_SetColumn は列の追加・置換と長さ不一致の検出を検証します。
func TestTable_SetColumn(t *testing.T) {
	t.Parallel()

	tbl := NewTable(twoRowIndex())
	require.NoError(t, tbl.SetColumn(ColClose, []float64{1, 2}))
	require.NoError(t, tbl.SetColumn(ColOpen, []float64{3, 4}))
	// 置換しても列順は変わらない
	require.NoError(t, tbl.SetColumn(ColClose, []float64{5, 6}))

	assert.Equal(t, []string{ColClose, ColOpen}, tbl.Columns())
	v, ok := tbl.Column(ColClose)
	require.True(t, ok)
	assert.Equal(t, []float64{5, 6}, v)

	err := tbl.SetColumn(ColHigh, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.False(t, tbl.Has(ColHigh))
}

// TestTable_Select は列の抽出と欠損列のエラーを検証します。
func TestTable_Select(t *testing.T) {
	t.Parallel()

	tbl := NewTable(twoRowIndex())
	require.NoError(t, tbl.SetColumn(ColOpen, []float64{1, 2}))
	require.NoError(t, tbl.SetColumn(ColClose, []float64{3, 4}))
	require.NoError(t, tbl.SetColumn("sma_2", []float64{0, 3.5}))

	sel, err := tbl.Select(ColClose, ColOpen)
	require.NoError(t, err)
	assert.Equal(t, []string{ColClose, ColOpen}, sel.Columns())
	assert.False(t, sel.Has("sma_2"))
	assert.Equal(t, 2, sel.Len())

	// 抽出しても元のテーブルは変わらない
	require.NoError(t, sel.SetColumn("extra", []float64{0, 0}))
	assert.False(t, tbl.Has("extra"))

	_, err = tbl.Select(ColHigh)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

// TestTable_Clone はCloneが深いコピーであることを検証します。
func TestTable_Clone(t *testing.T) {
	t.Parallel()

	tbl := NewTable(twoRowIndex())
	require.NoError(t, tbl.SetColumn(ColClose, []float64{1, 2}))

	c := tbl.Clone()
	cv, _ := c.Column(ColClose)
	cv[0] = 99
	c.Index[0] = time.Time{}
	require.NoError(t, c.SetColumn(ColTrueRange, []float64{0, 0}))

	v, _ := tbl.Column(ColClose)
	assert.Equal(t, []float64{1, 2}, v)
	assert.Equal(t, twoRowIndex()[0], tbl.Index[0])
	assert.False(t, tbl.Has(ColTrueRange))
}

// TestTable_NilSafe はnilテーブルに対する読み取り系メソッドがパニックしないことを検証します。
func TestTable_NilSafe(t *testing.T) {
	t.Parallel()

	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.True(t, tbl.Empty())
	assert.Nil(t, tbl.Columns())
	assert.False(t, tbl.Has(ColClose))
	assert.False(t, tbl.HasAll(RequiredDerivedColumns...))
	_, ok := tbl.Column(ColClose)
	assert.False(t, ok)
}

// TestTable_HasAll は複数列の存在判定を検証します。
func TestTable_HasAll(t *testing.T) {
	t.Parallel()

	tbl := NewTable(twoRowIndex())
	require.NoError(t, tbl.SetColumn(ColTrueRange, []float64{1, 2}))
	assert.False(t, tbl.HasAll(RequiredDerivedColumns...))

	require.NoError(t, tbl.SetColumn(ColTrueRangeDelta, []float64{1, 2}))
	assert.True(t, tbl.HasAll(RequiredDerivedColumns...))
	assert.True(t, tbl.HasAll())
}
