package www

import (
	"bytes"
	"fmt"

	"github.com/t-800m101/spothinta-go/prices"
	"github.com/t-800m101/spothinta-go/table"
)

// Palette is the color set one theme injects into the page CSS.
type Palette struct {
	Background string
	Text       string
	Bar        string
	ButtonBg   string
	ButtonText string
	Shadow     string
}

var palettes = map[Theme]Palette{
	Light: {
		Background: "#f9f9f9",
		Text:       "#101010",
		Bar:        "#1a5fb4",
		ButtonBg:   "#efefef",
		ButtonText: "#101010",
		Shadow:     "#101010",
	},
	Dark: {
		Background: "#1d1d20",
		Text:       "#d8d8d8",
		Bar:        "#62a0ea",
		ButtonBg:   "#2c2c30",
		ButtonText: "#d8d8d8",
		Shadow:     "#000000",
	},
}

type NavLink struct {
	Href  string
	Label string
}

type blockView struct {
	Headers [4]string
	Rows    []table.RenderedRow
}

type pageData struct {
	Title        string
	Description  string
	IsHorizontal bool
	Palette      Palette
	Blocks       []blockView
	Nav          []NavLink
	UpdatedAt    string
	SelfName     string
}

// RenderPage renders one page variant into a byte buffer. Pure apart
// from template lookup: same inputs, same bytes.
func RenderPage(tm *TemplateManager, v Variant, tables []*table.Table, nav []NavLink, updatedAt string) (bytes.Buffer, error) {
	blocks := make([]blockView, 0, len(tables))
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return bytes.Buffer{}, fmt.Errorf("refusing to render inconsistent table: %w", err)
		}
		blocks = append(blocks, blockView{Headers: t.Headers(), Rows: t.Rows()})
	}

	data := pageData{
		Title:        "Sähkön hinta nyt",
		Description:  "Sähkön spot-hinta nykyhetkestä eteenpäin yksinkertaisessa taulukossa ilman mainoksia.",
		IsHorizontal: v.Orientation == Horizontal,
		Palette:      palettes[v.Theme],
		Blocks:       blocks,
		Nav:          nav,
		UpdatedAt:    updatedAt,
		SelfName:     v.FileName(),
	}

	return tm.Execute("table.html", data)
}

// TableHeaders returns the Finnish column headers for a resolution.
// The bar column header doubles as the unit note, like the original
// one-page table did.
func TableHeaders(res prices.Resolution) table.Headers {
	h := table.Headers{
		Date:  "Päivä",
		Hour:  "Tunti",
		Price: "Hinta",
		Bar:   "(snt/kWh, sis. alv)",
	}
	if res == prices.Quarter {
		h.Hour = "Aika"
	}
	return h
}
