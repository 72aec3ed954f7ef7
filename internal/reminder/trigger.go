package reminder

import "time"

// Trigger computes the next fire time strictly after the given instant.
type Trigger interface {
	Next(after time.Time) time.Time
}

type every time.Duration

// Every fires on multiples of d counted from local midnight. Replicas agree on
// the fire times and two consecutive fires are never more than d apart, also
// across a DST change.
func Every(d time.Duration) Trigger {
	if d <= 0 {
		d = time.Minute
	}
	return every(d)
}

func (e every) Next(after time.Time) time.Time {
	d := time.Duration(e)
	day := time.Date(after.Year(), after.Month(), after.Day(), 0, 0, 0, 0, after.Location())
	t := day.Add((after.Sub(day)/d + 1) * d)

	tomorrow := time.Date(after.Year(), after.Month(), after.Day()+1, 0, 0, 0, 0, after.Location())
	if t.After(tomorrow) {
		t = tomorrow
	}
	return t
}

type dailyAt struct {
	hour, minute int
}

// DailyAt fires once a day at hour:minute in the location of the instant
// passed to Next.
func DailyAt(hour, minute int) Trigger {
	return dailyAt{hour: hour, minute: minute}
}

func (d dailyAt) Next(after time.Time) time.Time {
	t := time.Date(after.Year(), after.Month(), after.Day(), d.hour, d.minute, 0, 0, after.Location())
	if !t.After(after) {
		t = time.Date(after.Year(), after.Month(), after.Day()+1, d.hour, d.minute, 0, 0, after.Location())
	}
	return t
}

type weeklyAt struct {
	weekday      time.Weekday
	hour, minute int
}

func WeeklyAt(weekday time.Weekday, hour, minute int) Trigger {
	return weeklyAt{weekday: weekday, hour: hour, minute: minute}
}

func (w weeklyAt) Next(after time.Time) time.Time {
	days := (int(w.weekday) - int(after.Weekday()) + 7) % 7
	t := time.Date(after.Year(), after.Month(), after.Day()+days, w.hour, w.minute, 0, 0, after.Location())
	if !t.After(after) {
		t = time.Date(t.Year(), t.Month(), t.Day()+7, w.hour, w.minute, 0, 0, after.Location())
	}
	return t
}
