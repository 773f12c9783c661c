package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeatLayout(t *testing.T) {
	layout := GenerateSeatLayout(10, 12, PriceTable{})

	require.Len(t, layout, 10)
	for i, row := range layout {
		require.Len(t, row, 12)
		assert.Equal(t, string(rowLabels[i]), row[0].Row)
		assert.Equal(t, 1, row[0].Number)
		assert.Equal(t, 12, row[11].Number)
	}

	assert.Equal(t, SeatTypeVIP, layout[0][0].Type)
	assert.Equal(t, SeatTypeVIP, layout[2][5].Type)
	assert.Equal(t, SeatTypeStandard, layout[3][0].Type)
	assert.Equal(t, SeatTypeStandard, layout[7][0].Type)
	assert.Equal(t, SeatTypeCouple, layout[8][0].Type)
	assert.Equal(t, SeatTypeCouple, layout[9][11].Type)

	assert.Equal(t, int64(150000), layout[0][0].Price)
	assert.Equal(t, int64(100000), layout[5][0].Price)
	assert.Equal(t, int64(200000), layout[9][0].Price)
}

func TestGenerateSeatLayout_UsesPriceTable(t *testing.T) {
	layout := GenerateSeatLayout(6, 4, PriceTable{Standard: 80000, VIP: 120000})

	assert.Equal(t, int64(120000), layout[0][0].Price)
	assert.Equal(t, int64(80000), layout[3][0].Price)
	assert.Equal(t, int64(200000), layout[5][0].Price, "unset prices fall back to defaults")
}

func TestGenerateSeatLayout_FallsBackToDefaultGrid(t *testing.T) {
	layout := GenerateSeatLayout(0, -1, DefaultPriceTable())

	assert.Len(t, layout, DefaultLayoutRows)
	assert.Len(t, layout[0], DefaultLayoutCols)
}

func TestSeatTypeForRow_SmallRoomHasNoCoupleRows(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.NotEqual(t, SeatTypeCouple, SeatTypeForRow(i, 5))
	}
}

func TestParseSeatKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SeatKey
		wantErr bool
	}{
		{input: "A:1", want: SeatKey{Row: "A", Number: 1}},
		{input: "J:12", want: SeatKey{Row: "J", Number: 12}},
		{input: "A1", wantErr: true},
		{input: ":1", wantErr: true},
		{input: "A:0", wantErr: true},
		{input: "A:12abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeatKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.Member())
		})
	}
}

func TestShowtime_SeatAt(t *testing.T) {
	seat, ok := testShowtime.SeatAt(SeatKey{Row: "J", Number: 3})
	require.True(t, ok)
	assert.Equal(t, SeatTypeCouple, seat.Type)
	assert.Equal(t, int64(200000), seat.Price)

	_, ok = testShowtime.SeatAt(SeatKey{Row: "J", Number: 13})
	assert.False(t, ok)

	_, ok = testShowtime.SeatAt(SeatKey{Row: "Q", Number: 1})
	assert.False(t, ok)
}
