package grid_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/TsubasaBE/go-xlsx2csv/grid"
)

func TestSetBounds(t *testing.T) {
	g := grid.New()
	if g.Len() != 0 || g.MaxRow() != 0 || g.MaxCol() != 0 {
		t.Fatalf("empty grid: Len=%d MaxRow=%d MaxCol=%d", g.Len(), g.MaxRow(), g.MaxCol())
	}

	g.Set(2, 3, "x")
	if g.MaxRow() != 2 || g.MaxCol() != 3 {
		t.Errorf("bounds = (%d, %d), want (2, 3)", g.MaxRow(), g.MaxCol())
	}

	// Bounds are monotonic: a smaller address never shrinks them.
	g.Set(0, 0, "y")
	if g.MaxRow() != 2 || g.MaxCol() != 3 {
		t.Errorf("bounds shrank to (%d, %d)", g.MaxRow(), g.MaxCol())
	}
}

func TestSetBlankDiscarded(t *testing.T) {
	g := grid.New()
	g.Set(0, 0, "keep")

	// A blank cell, however large its address, is never stored and never
	// extends the bounds.
	g.Set(999999, 500, "")
	g.Set(999999, 500, "   ")
	g.Set(999999, 500, "\t\n")

	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
	if g.MaxRow() != 0 || g.MaxCol() != 0 {
		t.Errorf("bounds = (%d, %d), want (0, 0)", g.MaxRow(), g.MaxCol())
	}
}

func TestSetTrims(t *testing.T) {
	g := grid.New()
	g.Set(0, 0, "  Alice  ")
	if got := g.Get(0, 0); got != "Alice" {
		t.Errorf("Get(0, 0) = %q, want %q", got, "Alice")
	}
	if got := g.Get(5, 5); got != "" {
		t.Errorf("Get(5, 5) = %q, want \"\"", got)
	}
}

func TestRows(t *testing.T) {
	tests := []struct {
		name string
		fill func(g *grid.Grid)
		want [][]string
	}{
		{
			name: "empty grid yields nil",
			fill: func(g *grid.Grid) {},
			want: nil,
		},
		{
			name: "dense block",
			fill: func(g *grid.Grid) {
				g.Set(0, 0, "Name")
				g.Set(0, 1, "Age")
				g.Set(1, 0, "Alice")
				g.Set(1, 1, "30")
			},
			want: [][]string{{"Name", "Age"}, {"Alice", "30"}},
		},
		{
			name: "gap cells default to empty string",
			fill: func(g *grid.Grid) {
				g.Set(0, 0, "a")
				g.Set(0, 2, "c")
			},
			want: [][]string{{"a", "", "c"}},
		},
		{
			name: "fully blank row is dropped",
			fill: func(g *grid.Grid) {
				g.Set(0, 0, "top")
				g.Set(2, 0, "bottom")
			},
			want: [][]string{{"top"}, {"bottom"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := grid.New()
			tc.fill(g)
			got := g.Rows()
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Rows() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	g := grid.New()
	g.Set(0, 0, "Name")
	g.Set(0, 1, "Age")
	g.Set(1, 0, "Alice")
	g.Set(1, 1, "30")

	var buf bytes.Buffer
	if err := g.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := "Name,Age\nAlice,30\n"
	if buf.String() != want {
		t.Errorf("WriteCSV output = %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVQuoting(t *testing.T) {
	g := grid.New()
	g.Set(0, 0, `say "hi"`)
	g.Set(0, 1, "a,b")
	g.Set(0, 2, "line\nbreak")

	var buf bytes.Buffer
	if err := g.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := "\"say \"\"hi\"\"\",\"a,b\",\"line\nbreak\"\n"
	if buf.String() != want {
		t.Errorf("WriteCSV output = %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVEmptyGrid(t *testing.T) {
	var buf bytes.Buffer
	if err := grid.New().WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty grid wrote %q", buf.String())
	}
}
