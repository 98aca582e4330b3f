package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/t-800m101/spothinta-go/archive"
	"github.com/t-800m101/spothinta-go/cache"
	"github.com/t-800m101/spothinta-go/chart"
	"github.com/t-800m101/spothinta-go/config"
	"github.com/t-800m101/spothinta-go/hours"
	"github.com/t-800m101/spothinta-go/porssisahko"
	"github.com/t-800m101/spothinta-go/prices"
	"github.com/t-800m101/spothinta-go/table"
	"github.com/t-800m101/spothinta-go/www"
)

// Generator runs the whole pipeline once: load prices per resolution,
// lay them out, render every page variant, write the files. Any fatal
// condition aborts the run before a single page is written.
type Generator struct {
	logger *slog.Logger
	cnfg   *config.AppConfig
	client *porssisahko.Client
	store  *cache.Store
	arch   *archive.Archive // nil when archiving is disabled
	tm     *www.TemplateManager
	now    func() time.Time
}

func NewGenerator(
	logger *slog.Logger,
	cnfg *config.AppConfig,
	client *porssisahko.Client,
	store *cache.Store,
	arch *archive.Archive,
	tm *www.TemplateManager,
) *Generator {
	return &Generator{
		logger: logger,
		cnfg:   cnfg,
		client: client,
		store:  store,
		arch:   arch,
		tm:     tm,
		now:    time.Now,
	}
}

// SetClock overrides the generator's clock. Tests use this to pin the
// output to a fixed moment.
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

func (g *Generator) Run(ctx context.Context) error {
	now := hours.TruncateToHour(hours.LocationHelsinki(g.now()))

	hourly, err := g.load(ctx, prices.Hourly, now)
	if err != nil {
		return fmt.Errorf("loading hourly prices: %w", err)
	}
	quarter, err := g.load(ctx, prices.Quarter, now)
	if err != nil {
		return fmt.Errorf("loading quarter prices: %w", err)
	}

	pages, err := g.renderAll(hourly, quarter, now)
	if err != nil {
		return err
	}

	if err := www.WritePages(g.logger, g.cnfg.Pages.OutputDir, pages); err != nil {
		return err
	}

	g.logger.Info("generation done",
		slog.Int("pages", len(pages)),
		slog.String("now", hours.FormatStamp(now)))
	return nil
}

// load returns the price records for one resolution, from the cache
// when it is fresh enough, otherwise from the feed. A fetched body
// overwrites the cache verbatim and goes into the archive.
func (g *Generator) load(ctx context.Context, res prices.Resolution, now time.Time) ([]prices.Record, error) {
	freshness := cache.Freshness{
		RefreshAfterHour: g.cnfg.Cache.GetRefreshAfterHour(),
		MinHorizon:       g.cnfg.Cache.GetMinHorizon(),
	}

	needFetch := true
	var records []prices.Record

	if body, ok := g.store.Load(res); ok {
		parsed, err := prices.Parse(body)
		if err != nil {
			g.logger.Warn("cached payload is corrupt, will fetch",
				slog.String("resolution", string(res)), slog.Any("error", err))
		} else if freshness.IsStale(parsed, now) {
			g.logger.Info("cached prices are stale, will fetch",
				slog.String("resolution", string(res)))
		} else {
			records = parsed
			needFetch = false
		}
	}

	if !needFetch {
		return records, nil
	}

	g.logger.Info("fetching spot prices", slog.String("resolution", string(res)))
	body, err := g.client.FetchLatest(ctx, res)
	if err != nil {
		return nil, err
	}

	records, err = prices.Parse(body)
	if err != nil {
		return nil, err
	}

	if err := g.store.Save(res, body); err != nil {
		g.logger.Warn("failed to save price cache", slog.Any("error", err))
	}

	if g.arch != nil {
		if err := g.arch.SavePrices(ctx, res, records, g.now()); err != nil {
			g.logger.Warn("failed to archive prices", slog.Any("error", err))
		}
	}

	return records, nil
}

func (g *Generator) renderAll(hourly, quarter []prices.Record, now time.Time) (map[string][]byte, error) {
	showHistory := g.cnfg.Pages.ShowHistory
	hourlyWindow := prices.FilterFrom(hourly, now, showHistory)
	quarterWindow := prices.FilterFrom(quarter, now, showHistory)

	// the quarter extremes per hour drive the min/max markers on the
	// hourly bars
	groups, err := prices.GroupByHour(quarterWindow)
	if err != nil {
		return nil, err
	}
	rangeByHour := make(map[int64]table.Range, len(groups))
	for _, grp := range groups {
		rangeByHour[grp.Start.Unix()] = table.Range{Min: grp.Min, Max: grp.Max}
	}

	updatedAt := hours.FormatStamp(now)
	pages := make(map[string][]byte)

	for _, v := range www.AllVariants() {
		var rows []table.Row
		if v.Resolution == prices.Hourly {
			rows = hourlyRows(hourlyWindow, rangeByHour)
		} else {
			rows = quarterRows(quarterWindow)
		}

		order := table.LeftToRight
		if v.Orientation == www.Horizontal {
			order = table.RightToLeft
		}

		tables, err := table.Build(rows, table.Options{
			BarWidth:       g.cnfg.Pages.GetBarWidth(),
			SplitThreshold: g.cnfg.Pages.GetSplitThreshold(),
			SplitOrder:     order,
			Headers:        www.TableHeaders(v.Resolution),
		})
		if err != nil {
			return nil, fmt.Errorf("building %s table: %w", v.Resolution, err)
		}

		buf, err := www.RenderPage(g.tm, v, tables, navFor(v), updatedAt)
		if err != nil {
			return nil, err
		}
		pages[v.FileName()] = buf.Bytes()
	}

	chartBuf, err := chart.Generate(hourlyWindow, prices.Hourly)
	if err != nil {
		return nil, err
	}
	pages[chart.FileName] = chartBuf.Bytes()

	pages["index.html"] = pages[www.DefaultVariant.FileName()]
	return pages, nil
}

func hourlyRows(records []prices.Record, rangeByHour map[int64]table.Range) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		row := table.Row{
			Date:  hours.DayFi(r.Start),
			Label: hours.HourLabel(r.Start),
			Price: r.Price,
		}
		if sub, ok := rangeByHour[hourKey(r.Start)]; ok {
			row.Sub = &sub
		}
		rows = append(rows, row)
	}
	return rows
}

func quarterRows(records []prices.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			Date:  hours.DayFi(r.Start),
			Label: hours.QuarterLabel(r.Start),
			Price: r.Price,
		})
	}
	return rows
}

// hourKey collapses a timestamp to its hour start as epoch seconds,
// so lookups work across payloads with different zone representations.
func hourKey(t time.Time) int64 {
	u := t.Unix()
	return u - u%3600
}

func navFor(v www.Variant) []www.NavLink {
	orientationLabel := "Vaaka"
	if v.Orientation == www.Horizontal {
		orientationLabel = "Pysty"
	}
	themeLabel := "Tumma"
	if v.Theme == www.Dark {
		themeLabel = "Vaalea"
	}
	resolutionLabel := "15 min"
	if v.Resolution == prices.Quarter {
		resolutionLabel = "Tunti"
	}

	return []www.NavLink{
		{Href: v.AltOrientation().FileName(), Label: orientationLabel},
		{Href: v.AltTheme().FileName(), Label: themeLabel},
		{Href: v.AltResolution().FileName(), Label: resolutionLabel},
		{Href: chart.FileName, Label: "Kaavio"},
	}
}
