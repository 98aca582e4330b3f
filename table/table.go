package table

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/t-800m101/spothinta-go/prices"
)

// Row is one price slot ready for layout: preformatted date and hour
// labels, the raw price, and optionally the quarter extremes for the
// min/max bar markers.
type Row struct {
	Date  string
	Label string
	Price float64
	Sub   *Range
}

// Range holds the lowest and highest 15-minute price within an hour.
type Range struct {
	Min float64
	Max float64
}

// Column is one rendered table column. With SuppressRepeat set,
// consecutive identical values are blanked after the first.
type Column struct {
	Header         string
	Values         []string
	SuppressRepeat bool
}

type Headers struct {
	Date  string
	Hour  string
	Price string
	Bar   string
}

// Table owns the four display columns of one block. All columns always
// have the same length; Validate checks the invariant before render.
type Table struct {
	Date  Column
	Hour  Column
	Price Column
	Bar   Column
}

type Order int

const (
	LeftToRight Order = iota
	RightToLeft
)

type Options struct {
	BarWidth       int
	SplitThreshold int // 0 disables splitting
	SplitOrder     Order
	Headers        Headers
}

// Build lays rows out into one table block, or two side-by-side blocks
// when the row count exceeds the split threshold. The bar scale is
// shared across blocks so bars stay comparable.
func Build(rows []Row, opts Options) ([]*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("price table has no rows")
	}

	rounded := lo.Map(rows, func(r Row, _ int) Row {
		r.Price = prices.Round2(r.Price)
		return r
	})

	maxPrice := lo.MaxBy(rounded, func(a, b Row) bool { return a.Price > b.Price }).Price
	scale := ScaleFor(maxPrice, opts.BarWidth)

	blocks := split(rounded, opts.SplitThreshold)
	if opts.SplitOrder == RightToLeft {
		for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
			blocks[i], blocks[j] = blocks[j], blocks[i]
		}
	}

	tables := make([]*Table, 0, len(blocks))
	for _, block := range blocks {
		tables = append(tables, buildBlock(block, scale, opts.Headers))
	}
	return tables, nil
}

// split cuts rows into two blocks of roughly equal length, the second
// starting at ceil(n/2). Below the threshold everything stays in one.
func split(rows []Row, threshold int) [][]Row {
	n := len(rows)
	if threshold <= 0 || n <= threshold {
		return [][]Row{rows}
	}
	cut := (n + 1) / 2
	return [][]Row{rows[:cut], rows[cut:]}
}

func buildBlock(rows []Row, scale float64, headers Headers) *Table {
	dates := make([]string, len(rows))
	hourLabels := make([]string, len(rows))
	priceStrs := make([]string, len(rows))
	bars := make([]string, len(rows))

	for i, r := range rows {
		dates[i] = r.Date
		hourLabels[i] = r.Label
		priceStrs[i] = prices.Format(r.Price)
		if r.Sub != nil {
			bars[i] = renderBarWithRange(r.Price, r.Sub.Min, r.Sub.Max, scale)
		} else {
			bars[i] = renderBar(r.Price, scale)
		}
	}

	return &Table{
		Date:  Column{Header: headers.Date, Values: suppressRepeats(dates), SuppressRepeat: true},
		Hour:  Column{Header: headers.Hour, Values: suppressRepeats(hourLabels), SuppressRepeat: true},
		Price: Column{Header: headers.Price, Values: priceStrs},
		Bar:   Column{Header: headers.Bar, Values: bars},
	}
}

// suppressRepeats blanks consecutive duplicates so a date or hour only
// shows on the first row of its run.
func suppressRepeats(values []string) []string {
	out := make([]string, len(values))
	prev := ""
	for i, v := range values {
		if v != prev {
			out[i] = v
			prev = v
		}
	}
	return out
}

func (t *Table) Len() int {
	return len(t.Date.Values)
}

func (t *Table) Validate() error {
	n := t.Len()
	for _, c := range []Column{t.Hour, t.Price, t.Bar} {
		if len(c.Values) != n {
			return fmt.Errorf("column %q has %d values, expected %d", c.Header, len(c.Values), n)
		}
	}
	if n == 0 {
		return fmt.Errorf("price table has no rows")
	}
	return nil
}

// RenderedRow is one table row zipped back together for templating.
type RenderedRow struct {
	Date  string
	Hour  string
	Price string
	Bar   string
}

func (t *Table) Rows() []RenderedRow {
	rows := make([]RenderedRow, t.Len())
	for i := range rows {
		rows[i] = RenderedRow{
			Date:  t.Date.Values[i],
			Hour:  t.Hour.Values[i],
			Price: t.Price.Values[i],
			Bar:   t.Bar.Values[i],
		}
	}
	return rows
}

func (t *Table) Headers() [4]string {
	return [4]string{t.Date.Header, t.Hour.Header, t.Price.Header, t.Bar.Header}
}
