package reminder

import "time"

// RegisterDefaults wires the standard job set on its production schedule.
func RegisterDefaults(s *Scheduler, env Env) {
	s.Register(NewReminder24h(env), Every(time.Hour))
	s.Register(NewReminder2h(env), Every(30*time.Minute))
	s.Register(NewDayBefore(env), DailyAt(18, 0))
	s.Register(NewFollowUp(env), WeeklyAt(time.Monday, 10, 0))
	s.Register(NewCleanup(env), DailyAt(3, 0))
}
