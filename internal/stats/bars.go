package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/classboard/internal/chart"
	"github.com/verte-zerg/classboard/internal/order"
)

const (
	barRune     = '█'
	minBarWidth = 10
)

// FormatLabel renders a chart key for display.
func FormatLabel(key any) string {
	if v, ok := order.Of(key); ok {
		return v.String()
	}
	return fmt.Sprint(key)
}

// WeekdayLabel renders a numeric weekday key as "Mon".
func WeekdayLabel(key any) string {
	v, ok := order.Of(key)
	if !ok || v.Kind() != order.KindNumber {
		return FormatLabel(key)
	}
	n, err := strconv.Atoi(v.String())
	if err != nil || n < 0 || n > 6 {
		return FormatLabel(key)
	}
	return time.Weekday(n).String()[:3]
}

// RenderBars prints one horizontal bar per label and series. Gaps render
// as "-".
func RenderBars(w io.Writer, title string, a chart.Aligned, labelFn func(any) string, totalWidth int, forceColor bool) error {
	if a.Empty() || len(a.Series) == 0 {
		return nil
	}
	if labelFn == nil {
		labelFn = FormatLabel
	}
	labels := make([]string, len(a.Labels))
	labelWidth := 0
	for i, l := range a.Labels {
		labels[i] = labelFn(l)
		labelWidth = max(labelWidth, runewidth.StringWidth(labels[i]))
	}
	nameWidth := 0
	maxVal := 0.0
	valueWidth := 1
	for _, s := range a.Series {
		nameWidth = max(nameWidth, runewidth.StringWidth(s.Name))
		for _, v := range s.Values {
			if !v.Valid {
				continue
			}
			maxVal = math.Max(maxVal, v.Float)
			valueWidth = max(valueWidth, len(formatBarValue(v.Float)))
		}
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	barWidth := totalWidth - labelWidth - nameWidth - valueWidth - 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	useColor := shouldUseColor(w, forceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, label := range labels {
		for si, s := range a.Series {
			head := ""
			if si == 0 {
				head = label
			}
			var b strings.Builder
			b.WriteString(padCell(head, labelWidth, false))
			b.WriteByte(' ')
			b.WriteString(padCell(s.Name, nameWidth, false))
			b.WriteByte(' ')
			v := s.Values[i]
			if !v.Valid {
				b.WriteString("-")
			} else {
				n := 0
				if maxVal > 0 && v.Float > 0 {
					n = int(math.Round(v.Float / maxVal * float64(barWidth)))
				}
				bar := strings.Repeat(string(barRune), n)
				if useColor && n > 0 {
					bar = colorPalette[si%len(colorPalette)].code + bar + colorReset
				}
				b.WriteString(bar)
				if n > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(formatBarValue(v.Float))
			}
			if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatBarValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
