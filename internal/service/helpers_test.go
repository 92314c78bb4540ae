package service

import (
	"errors"
	"io"
	"time"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/logging"
	"alcyxob/trainingsplan/internal/testutil"
)

var discard = logging.Discard()

func schedulingOn(day string) Scheduling {
	return Scheduling{MaxTrainingWeeks: 12, Location: time.UTC, Clock: testutil.FixedClock(day)}
}

// fakeDecoder returns a canned activity, or err when set.
type fakeDecoder struct {
	sport string
	date  time.Time
	err   error
}

func (d fakeDecoder) Decode(r io.Reader) (*domain.CompletedTraining, error) {
	if d.err != nil {
		return nil, d.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	return &domain.CompletedTraining{Sport: d.sport, TrainingDate: d.date}, nil
}

var errGarbage = errors.New("not a fit file")

// sequenceRand replays picks in order, wrapping each into range.
type sequenceRand struct {
	picks []int
	calls int
}

func (r *sequenceRand) Intn(n int) int {
	v := r.picks[r.calls%len(r.picks)]
	r.calls++
	return v % n
}
