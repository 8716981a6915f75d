package lunar

import (
	"container/list"
	"fmt"
	"time"

	"github.com/6tail/lunar-go/calendar"
)

// LunarGoConverter converts dates with github.com/6tail/lunar-go
type LunarGoConverter struct{}

// Convert implements Converter
func (LunarGoConverter) Convert(t time.Time) (*Date, error) {
	l := calendar.NewLunarFromDate(t)
	if l == nil {
		return nil, fmt.Errorf("no lunar date for %s", t.Format(time.DateOnly))
	}

	festivals := appendList(nil, l.GetFestivals())
	festivals = appendList(festivals, l.GetOtherFestivals())

	return &Date{
		MonthLabel: l.GetMonthInChinese(),
		DayLabel:   l.GetDayInChinese(),
		Month:      l.GetMonth(),
		Day:        l.GetDay(),
		YearGanZhi: l.GetYearInGanZhi(),
		SolarTerm:  l.GetJieQi(),
		Festivals:  festivals,
	}, nil
}

func appendList(dst []string, l *list.List) []string {
	if l == nil {
		return dst
	}
	for e := l.Front(); e != nil; e = e.Next() {
		if s, ok := e.Value.(string); ok && s != "" {
			dst = append(dst, s)
		}
	}
	return dst
}
