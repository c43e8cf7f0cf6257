// Package stay описывает период проживания как полуоткрытый интервал дат
// [CheckIn, CheckOut): номер занят с даты заезда до утра даты выезда.
package stay

import (
	"errors"
	"fmt"
	"time"
)

// Layout формат дат во всех запросах и ответах API.
const Layout = "2006-01-02"

// ErrInvalidRange возвращается для пустых и перевёрнутых периодов.
var ErrInvalidRange = errors.New("check-out must be after check-in")

// ErrBadDate возвращается для дат не в формате Layout.
var ErrBadDate = errors.New("dates must be in YYYY-MM-DD format")

// Range период проживания. Обе даты хранятся как полночь UTC.
type Range struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Day приводит момент времени к полуночи UTC того же календарного дня.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New создаёт период и проверяет, что в нём есть хотя бы одна ночь.
func New(checkIn, checkOut time.Time) (Range, error) {
	r := Range{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if !r.CheckIn.Before(r.CheckOut) {
		return Range{}, ErrInvalidRange
	}
	return r, nil
}

// Parse разбирает даты в формате 2006-01-02.
func Parse(checkIn, checkOut string) (Range, error) {
	const op = "stay.Parse"
	in, err := time.Parse(Layout, checkIn)
	if err != nil {
		return Range{}, fmt.Errorf("%s: check-in %q: %w", op, checkIn, ErrBadDate)
	}
	out, err := time.Parse(Layout, checkOut)
	if err != nil {
		return Range{}, fmt.Errorf("%s: check-out %q: %w", op, checkOut, ErrBadDate)
	}
	return New(in, out)
}

// Window возвращает период из n дней начиная со start.
func Window(start time.Time, n int) (Range, error) {
	if n <= 0 {
		return Range{}, ErrInvalidRange
	}
	start = Day(start)
	return New(start, start.AddDate(0, 0, n))
}

// Nights количество ночей в периоде.
func (r Range) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Days возвращает каждую ночь периода, без даты выезда.
func (r Range) Days() []time.Time {
	days := make([]time.Time, 0, r.Nights())
	for d := r.CheckIn; d.Before(r.CheckOut); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains сообщает, занята ли ночь day: CheckIn <= day < CheckOut.
func (r Range) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(r.CheckIn) && day.Before(r.CheckOut)
}

// Overlaps сообщает, пересекаются ли два периода хотя бы одной ночью.
func (r Range) Overlaps(other Range) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// String форматирует период как "2006-01-02 - 2006-01-02".
func (r Range) String() string {
	return r.CheckIn.Format(Layout) + " - " + r.CheckOut.Format(Layout)
}
