package lunar

import (
	"fmt"
	"log/slog"
	"time"
)

// Season labels
const (
	Spring = "春季"
	Summer = "夏季"
	Autumn = "秋季"
	Winter = "冬季"
)

// UnknownDate is shown in place of the lunar date when conversion fails
const UnknownDate = "未知"

// Date is the lunar representation of a solar date
type Date struct {
	MonthLabel string
	DayLabel   string
	Month      int
	Day        int
	YearGanZhi string
	SolarTerm  string
	Festivals  []string
}

// Converter turns a solar date into its lunar representation
type Converter interface {
	Convert(t time.Time) (*Date, error)
}

// Context is the calendar information used to steer recommendations
type Context struct {
	LunarDate string   `json:"lunar_date"`
	Festivals []string `json:"festival"`
	SolarTerm string   `json:"solar_term"`
	Year      string   `json:"year"`
	Month     int      `json:"month"`
	Day       int      `json:"day"`
	Season    string   `json:"season"`

	// Solar is the instant the context was computed for
	Solar time.Time `json:"-"`
}

// SolarDateLabel formats the solar date as 2006年01月02日
func (c Context) SolarDateLabel() string {
	return c.Solar.Format("2006年01月02日")
}

// HasFestival reports whether any festival is active
func (c Context) HasFestival() bool {
	return len(c.Festivals) > 0
}

// Provider computes the calendar context for the current day
type Provider struct {
	converter Converter
	now       func() time.Time
}

// Option configures a Provider
type Option func(*Provider)

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// NewProvider creates a Provider. A nil converter always yields the placeholder context.
func NewProvider(converter Converter, opts ...Option) *Provider {
	p := &Provider{
		converter: converter,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Today returns the calendar context for the current day. Conversion failures,
// including panics inside the converter, produce a placeholder context.
func (p *Provider) Today() Context {
	return p.At(p.now())
}

// At returns the calendar context for t
func (p *Provider) At(t time.Time) (ctx Context) {
	ctx = placeholder(t)

	if p.converter == nil {
		return ctx
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("lunar conversion panicked", "date", t.Format(time.DateOnly), "panic", fmt.Sprint(r))
			ctx = placeholder(t)
		}
	}()

	d, err := p.converter.Convert(t)
	if err != nil || d == nil {
		slog.Warn("lunar conversion failed", "date", t.Format(time.DateOnly), "error", err)
		return ctx
	}

	festivals := d.Festivals
	if festivals == nil {
		festivals = []string{}
	}

	return Context{
		LunarDate: d.MonthLabel + "月" + d.DayLabel,
		Festivals: festivals,
		SolarTerm: d.SolarTerm,
		Year:      d.YearGanZhi,
		Month:     d.Month,
		Day:       d.Day,
		Season:    SeasonForMonth(t.Month()),
		Solar:     t,
	}
}

func placeholder(t time.Time) Context {
	return Context{
		LunarDate: UnknownDate,
		Festivals: []string{},
		Season:    SeasonForMonth(t.Month()),
		Solar:     t,
	}
}

// SeasonForMonth buckets a solar month into one of the four seasons
func SeasonForMonth(m time.Month) string {
	switch m {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Autumn
	default:
		return Winter
	}
}

// SeasonalIngredients lists common vegetables for each season
var SeasonalIngredients = map[string][]string{
	Spring: {"韭菜", "菠菜", "春笋", "荠菜", "豌豆"},
	Summer: {"黄瓜", "番茄", "茄子", "豆角", "空心菜"},
	Autumn: {"南瓜", "红薯", "莲藕", "芋头", "白菜"},
	Winter: {"白菜", "萝卜", "土豆", "山药", "菠菜"},
}

// CommonVegetables returns the de-duplicated union of all seasonal vegetables
func CommonVegetables() []string {
	seen := make(map[string]bool)
	var out []string
	for _, season := range []string{Spring, Summer, Autumn, Winter} {
		for _, v := range SeasonalIngredients[season] {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
