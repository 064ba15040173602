package http

import (
	"strconv"

	"financas/internal/core"
	"financas/internal/ledger"
)

// Chart geometry in SVG user units.
const (
	chartPlotHeight = 160
	chartBarWidth   = 18
	chartBarGap     = 2
	chartGroupGap   = 16
	chartMargin     = 8
	chartLabelSpace = 20
)

type chartBar struct {
	X      int
	Y      int
	Width  int
	Height int
	Class  string
	Title  string
}

type chartGroup struct {
	Label  string
	LabelX int
	Bars   []chartBar
}

type chartLegendEntry struct {
	Label string
	Class string
}

// barChart is a grouped bar chart laid out for the SVG template.
type barChart struct {
	Width     int
	Height    int
	BaselineY int
	Groups    []chartGroup
	Legend    []chartLegendEntry
}

// newBarChart lays out one group of bars per label and one bar per series
// inside each group. values[g][s] holds cents. Bar heights are proportional
// to the largest value, which spans the full plot height.
func newBarChart(labels, series []string, values [][]int64) barChart {
	var max int64
	for _, row := range values {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}

	groupWidth := len(series)*(chartBarWidth+chartBarGap) + chartGroupGap
	c := barChart{
		Width:     2*chartMargin + len(labels)*groupWidth,
		Height:    chartMargin + chartPlotHeight + chartLabelSpace,
		BaselineY: chartMargin + chartPlotHeight,
	}
	for i, s := range series {
		c.Legend = append(c.Legend, chartLegendEntry{Label: s, Class: seriesClass(i)})
	}

	for g, label := range labels {
		x := chartMargin + g*groupWidth
		group := chartGroup{Label: label, LabelX: x + (groupWidth-chartGroupGap)/2}
		for s, name := range series {
			var v int64
			if s < len(values[g]) {
				v = values[g][s]
			}
			h := barHeight(v, max)
			group.Bars = append(group.Bars, chartBar{
				X:      x + s*(chartBarWidth+chartBarGap),
				Y:      c.BaselineY - h,
				Width:  chartBarWidth,
				Height: h,
				Class:  seriesClass(s),
				Title:  name + ": " + formatReais(v),
			})
		}
		c.Groups = append(c.Groups, group)
	}
	return c
}

func barHeight(v, max int64) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	return int(v * chartPlotHeight / max)
}

func seriesClass(i int) string {
	return "series-" + strconv.Itoa(i)
}

// typeChart plots the monthly income and expense totals.
func typeChart(s ledger.TypeSummary) barChart {
	types := core.Types()
	series := make([]string, len(types))
	for i, t := range types {
		series[i] = t.String()
	}

	periods := s.Periods()
	labels := make([]string, len(periods))
	values := make([][]int64, len(periods))
	for g, p := range periods {
		labels[g] = periodLabel(p)
		for _, t := range types {
			values[g] = append(values[g], s.Get(p, t).Cents)
		}
	}
	return newBarChart(labels, series, values)
}

// categoryChart plots the monthly totals of every (type, category) pair that
// has at least one entry.
func categoryChart(s ledger.CategorySummary) barChart {
	periods := s.Periods()
	amounts := make([][]core.CategoryAmount, len(periods))
	seen := map[ledger.CategoryKey]bool{}
	for g, p := range periods {
		amounts[g] = s.Amounts(p)
		for _, a := range amounts[g] {
			seen[ledger.CategoryKey{Type: a.Type, Category: a.Category}] = true
		}
	}

	var series []string
	index := map[ledger.CategoryKey]int{}
	for _, t := range core.Types() {
		for _, c := range core.AllowedCategories[t] {
			k := ledger.CategoryKey{Type: t, Category: c}
			if seen[k] {
				index[k] = len(series)
				series = append(series, t.String()+" / "+c.String())
			}
		}
	}

	labels := make([]string, len(periods))
	values := make([][]int64, len(periods))
	for g, p := range periods {
		labels[g] = periodLabel(p)
		values[g] = make([]int64, len(series))
		for _, a := range amounts[g] {
			values[g][index[ledger.CategoryKey{Type: a.Type, Category: a.Category}]] = a.Amount.Cents
		}
	}
	return newBarChart(labels, series, values)
}

// balanceChart plots the cumulative balance at the end of each month. Bars
// show the magnitude; months that end below zero get the negative class.
func balanceChart(series []ledger.PeriodBalance) barChart {
	const name = "Saldo acumulado"
	labels := make([]string, len(series))
	values := make([][]int64, len(series))
	for g, pb := range series {
		labels[g] = periodLabel(pb.Period)
		v := pb.Balance.Cents
		if v < 0 {
			v = -v
		}
		values[g] = []int64{v}
	}

	c := newBarChart(labels, []string{name}, values)
	for g, pb := range series {
		bar := &c.Groups[g].Bars[0]
		bar.Title = name + ": " + formatReais(pb.Balance.Cents)
		if pb.Balance.Cents < 0 {
			bar.Class = "negative"
		}
	}
	return c
}
