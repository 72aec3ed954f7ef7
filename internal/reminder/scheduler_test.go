package reminder

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggers(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		after   time.Time
		want    time.Time
	}{
		{"every", Every(30 * time.Minute), monday, monday.Add(30 * time.Minute)},
		{"every aligns to the interval", Every(time.Hour), monday.Add(7 * time.Minute), monday.Add(time.Hour)},
		{"every stops at midnight", Every(7 * time.Hour), time.Date(2026, 3, 9, 22, 0, 0, 0, newYork), time.Date(2026, 3, 10, 0, 0, 0, 0, newYork)},
		{"daily later today", DailyAt(18, 0), monday, time.Date(2026, 3, 9, 18, 0, 0, 0, newYork)},
		{"daily at exact time rolls over", DailyAt(9, 0), monday, time.Date(2026, 3, 10, 9, 0, 0, 0, newYork)},
		{"weekly same day passed", WeeklyAt(time.Monday, 8, 0), monday, time.Date(2026, 3, 16, 8, 0, 0, 0, newYork)},
		{"weekly same day ahead", WeeklyAt(time.Monday, 10, 0), monday, time.Date(2026, 3, 9, 10, 0, 0, 0, newYork)},
		{"weekly later in week", WeeklyAt(time.Friday, 7, 30), monday, time.Date(2026, 3, 13, 7, 30, 0, 0, newYork)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.trigger.Next(tt.after)), "got %s", tt.trigger.Next(tt.after))
		})
	}
}

func TestDailyAt_AcrossDST(t *testing.T) {
	// clocks spring forward on 2026-03-08 in New York
	sat := time.Date(2026, 3, 7, 4, 0, 0, 0, newYork)
	next := DailyAt(3, 0).Next(sat)
	assert.Equal(t, 8, next.Day())
	assert.Equal(t, 3, next.Hour())
}

func TestEvery_AcrossDST(t *testing.T) {
	// 02:00 does not exist on 2026-03-08; the hour after 01:30 EST is 03:00 EDT
	before := time.Date(2026, 3, 8, 1, 30, 0, 0, newYork)
	next := Every(time.Hour).Next(before)
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 30*time.Minute, next.Sub(before))
}

// slowJob records the clock it is handed and takes a while to finish.
type slowJob struct {
	took  time.Duration
	times chan time.Time
}

func (j *slowJob) Name() string { return "slow" }

func (j *slowJob) Run(_ context.Context, now time.Time) (Report, error) {
	time.Sleep(j.took)
	j.times <- now
	return Report{}, nil
}

func TestScheduler_RunDurationDoesNotShiftSchedule(t *testing.T) {
	s := NewScheduler(Config{Location: newYork}, nil, nil, zerolog.Nop())
	job := &slowJob{took: 40 * time.Millisecond, times: make(chan time.Time, 16)}
	s.Register(job, Every(100*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	var fires []time.Time
	for len(fires) < 4 {
		select {
		case at := <-job.times:
			fires = append(fires, at)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler stopped firing")
		}
	}
	cancel()
	<-done

	for i := 1; i < len(fires); i++ {
		assert.Equal(t, 100*time.Millisecond, fires[i].Sub(fires[i-1]), "fire %d", i)
	}
}

func TestScheduler_CatchesUpOnceAfterOverrun(t *testing.T) {
	s := NewScheduler(Config{Location: newYork}, nil, nil, zerolog.Nop())
	s.now = func() time.Time { return monday.Add(3*time.Hour + 10*time.Minute) }

	// the 09:00 run finished after 12:10; only the 12:00 fire is still worth running
	next := s.following(Every(time.Hour), monday)
	assert.True(t, monday.Add(3*time.Hour).Equal(next), "got %s", next)

	s.now = func() time.Time { return monday.Add(10 * time.Minute) }
	next = s.following(Every(time.Hour), monday)
	assert.True(t, monday.Add(time.Hour).Equal(next), "got %s", next)
}

type blockingJob struct {
	started chan struct{}
	release chan struct{}
	runs    atomic.Int32
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Run(ctx context.Context, _ time.Time) (Report, error) {
	j.runs.Add(1)
	close(j.started)
	select {
	case <-j.release:
	case <-ctx.Done():
	}
	return Report{Notified: 1}, nil
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := NewScheduler(Config{Location: newYork}, nil, nil, zerolog.Nop())
	_, err := s.RunNow(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestRunNow_SkipsOverlappingRun(t *testing.T) {
	s := NewScheduler(Config{Location: newYork}, nil, nil, zerolog.Nop())
	job := &blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	s.Register(job, Every(time.Hour))

	done := make(chan Report)
	go func() {
		rep, _ := s.RunNow(context.Background(), "blocking")
		done <- rep
	}()
	<-job.started

	_, err := s.RunNow(context.Background(), "blocking")
	assert.ErrorIs(t, err, ErrJobRunning)

	close(job.release)
	assert.Equal(t, 1, (<-done).Notified)
	assert.EqualValues(t, 1, job.runs.Load())
}

func TestRegisterDefaults(t *testing.T) {
	s := NewScheduler(Config{Location: newYork}, NopLocker{}, nil, zerolog.Nop())
	RegisterDefaults(s, newEnv(nil, &fakeNotifier{}))

	assert.Equal(t, []string{"day_before", "follow_up", "reminder_24h", "reminder_2h", "reminder_cleanup"}, s.Jobs())
}

func TestRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	a := NewRedisLocker(rdb, "")
	b := NewRedisLocker(rdb, "")

	release, ok, err := a.Acquire(ctx, "job:reminder_24h", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = b.Acquire(ctx, "job:reminder_24h", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second replica must not get the lock")

	release()
	assert.False(t, mr.Exists("detailing:lock:job:reminder_24h"))

	_, ok, err = b.Acquire(ctx, "job:reminder_24h", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLocker_ReleaseKeepsForeignLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	l := NewRedisLocker(rdb, "test:")

	release, ok, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// the TTL lapses and another holder takes over
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("test:k", "someone-else"))

	release()
	got, err := mr.Get("test:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestScheduler_SkipsWhenLockHeldElsewhere(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, mr.Set("detailing:lock:job:blocking", "other-replica"))

	s := NewScheduler(Config{Location: newYork}, NewRedisLocker(rdb, ""), nil, zerolog.Nop())
	job := &blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	s.Register(job, Every(time.Hour))

	_, err := s.RunNow(context.Background(), "blocking")
	assert.ErrorIs(t, err, ErrJobRunning)
	assert.EqualValues(t, 0, job.runs.Load())
}
