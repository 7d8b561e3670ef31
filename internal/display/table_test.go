package display

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestTable(t *testing.T) {
	tests := map[string]struct {
		headers []string
		rows    [][]string
		maxCol  int
		exp     string
	}{
		"fits": {
			headers: []string{"ID", "NAME"},
			rows:    [][]string{{"1", "Ada"}, {"22", "Bartholomew"}},
			maxCol:  DefaultMaxColumn,
			exp: "ID  NAME\n" +
				"--  -----------\n" +
				"1   Ada\n" +
				"22  Bartholomew\n",
		},
		"truncated": {
			headers: []string{"ID", "NAME"},
			rows:    [][]string{{"1", "Bartholomew"}, {"2", "Bartho"}},
			maxCol:  6,
			exp: "ID  NAME\n" +
				"--  ------\n" +
				"1   Barth~\n" +
				"2   Bartho\n",
		},
		"short row": {
			headers: []string{"ID", "TASK", "OWNER"},
			rows:    [][]string{{"7", "dig"}},
			maxCol:  DefaultMaxColumn,
			exp: "ID  TASK  OWNER\n" +
				"--  ----  -----\n" +
				"7   dig\n",
		},
		"no rows": {
			headers: []string{"ID"},
			maxCol:  DefaultMaxColumn,
			exp:     "ID\n--\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "table", Table(tt.headers, tt.rows, tt.maxCol), tt.exp)
		})
	}
}

func TestList(t *testing.T) {
	tests := map[string]struct {
		label string
		items []string
		width int
		exp   string
	}{
		"single line": {
			label: "Stockpile",
			items: []string{"stone 3", "wood 5"},
			width: DefaultWidth,
			exp:   "Stockpile: stone 3, wood 5",
		},
		"wrapped under first item": {
			label: "Tags",
			items: []string{"alpha", "beta", "gamma"},
			width: 16,
			exp: "Tags: alpha,\n" +
				"      beta,\n" +
				"      gamma",
		},
		"empty": {
			label: "Stockpile",
			width: DefaultWidth,
			exp:   "Stockpile: ",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "list", List(tt.label, tt.items, tt.width), tt.exp)
		})
	}
}
