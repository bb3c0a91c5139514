package shoppinglist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/database/databasetest"
	"github.com/matt-dz/foodgram/internal/env"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  string
	}{
		{
			name:  "empty cart",
			lines: nil,
			want:  "Shopping list\n",
		},
		{
			name: "aggregated lines",
			lines: []Line{
				{Name: "Flour", MeasurementUnit: "g", Total: 500},
				{Name: "Salt", MeasurementUnit: "g", Total: 8},
				{Name: "Salt", MeasurementUnit: "pinch", Total: 1},
			},
			want: "Shopping list\nFlour 500 g\nSalt 8 g\nSalt 1 pinch\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := Render(&b, tt.lines); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, b.String())
			}
		})
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		rows    []database.GetShoppingListRow
		dbErr   error
		want    []Line
		wantErr bool
	}{
		{
			name: "keeps query order",
			rows: []database.GetShoppingListRow{
				{Name: "Pepper", MeasurementUnit: "g", TotalAmount: 2},
				{Name: "Salt", MeasurementUnit: "g", TotalAmount: 8},
			},
			want: []Line{
				{Name: "Pepper", MeasurementUnit: "g", Total: 2},
				{Name: "Salt", MeasurementUnit: "g", Total: 8},
			},
		},
		{
			name: "empty cart",
			rows: nil,
			want: []Line{},
		},
		{
			name:    "query fails",
			dbErr:   errors.New("db down"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockQuerier(ctrl)
			e := env.Null()
			e.Database, _ = databasetest.New(mockDB)

			mockDB.EXPECT().GetShoppingList(gomock.Any(), int64(4)).Return(tt.rows, tt.dbErr)

			got, err := Build(context.Background(), e, 4)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d lines, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}
