// Package fixture generates a deterministic sample dataset. It stands in
// for a real export when the configured report cannot be read.
package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// DefaultSeed and DefaultDays produce the dataset served on fallback
const (
	DefaultSeed = 42
	DefaultDays = 14
)

// Start is the first sample day, a Monday
var Start = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("monti/analytics/fixture"))

// QueueWeight pairs a queue with its operators and a relative weight
type QueueWeight struct {
	Queue     string
	Weight    float64
	Operators []string
}

var defaultQueues = []QueueWeight{
	{Queue: "Suporte", Weight: 4, Operators: []string{"Ana Souza", "Bruno Lima", "Carla Dias"}},
	{Queue: "Comercial", Weight: 3, Operators: []string{"Diego Alves", "Elisa Rocha"}},
	{Queue: "Financeiro", Weight: 3, Operators: []string{"Fabio Melo", "Gabriela Reis"}},
	{Queue: "Retenção", Weight: 2, Operators: []string{"Helena Costa"}},
}

// hourWeights shapes traffic over the day with late morning and mid
// afternoon peaks
var hourWeights = [24]float64{
	0, 0, 0, 0, 0, 0, 0.5, 1, 3, 5, 5, 4, 2, 3, 4, 5, 4, 2, 1, 0.5, 0, 0, 0, 0,
}

var areaCodes = []string{"11", "21", "31", "41", "51", "61", "71", "81", "85", "92"}

const (
	weekdayContacts  = 60
	saturdayContacts = 20
)

// Sample returns the records of days consecutive days from Start. The same
// seed and days always give identical records, ids included.
func Sample(seed int64, days int) []types.Record {
	rng := rand.New(rand.NewSource(seed))
	records := make([]types.Record, 0, days*weekdayContacts)

	for d := 0; d < days; d++ {
		day := Start.AddDate(0, 0, d)
		n := contactsOn(day.Weekday())
		for i := 0; i < n; i++ {
			records = append(records, contact(rng, seed, day, len(records)))
		}
	}
	return records
}

// NewDataset wraps Sample in a dataset
func NewDataset(seed int64, days int, fallback bool) *dataset.Dataset {
	records := Sample(seed, days)
	diag := types.Diagnostics{
		Source:    types.SourceSample,
		TotalRows: len(records),
		Parsed:    len(records),
		HeaderRow: -1,
	}
	return dataset.New(dataset.Options{
		Source:   types.SourceSample,
		Name:     fmt.Sprintf("sample-%d-%dd", seed, days),
		Fallback: fallback,
	}, records, nil, diag)
}

func contactsOn(wd time.Weekday) int {
	switch wd {
	case time.Sunday:
		return 0
	case time.Saturday:
		return saturdayContacts
	default:
		return weekdayContacts
	}
}

func contact(rng *rand.Rand, seed int64, day time.Time, n int) types.Record {
	q := pickQueue(rng, defaultQueues)
	started := day.Add(time.Duration(pickHour(rng))*time.Hour + time.Duration(rng.Intn(3600))*time.Second)

	rec := types.Record{
		ID:        uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%d/%d", seed, n))).String(),
		Queue:     q.Queue,
		Phone:     fmt.Sprintf("(%s) 9%04d-%04d", areaCodes[rng.Intn(len(areaCodes))], rng.Intn(10000), rng.Intn(10000)),
		StartedAt: &started,
		Channel:   types.ChannelPhone,
	}

	switch r := rng.Float64(); {
	case r < 0.14:
		rec.Outcome = types.OutcomeAbandoned
		rec.WaitSeconds = 30 + rng.Intn(240)
	case r < 0.20:
		rec.Outcome = types.OutcomeTransferred
		rec.WaitSeconds = 5 + rng.Intn(60)
		rec.HandleSeconds = 30 + rng.Intn(120)
		rec.Operator = q.Operators[rng.Intn(len(q.Operators))]
	default:
		rec.Outcome = types.OutcomeAnswered
		rec.WaitSeconds = rng.Intn(45)
		rec.HandleSeconds = 60 + rng.Intn(540)
		rec.Operator = q.Operators[rng.Intn(len(q.Operators))]
	}
	return rec
}

// pickQueue selects a queue based on the configured weights
func pickQueue(rng *rand.Rand, queues []QueueWeight) QueueWeight {
	var total float64
	for _, q := range queues {
		total += q.Weight
	}

	r := rng.Float64() * total
	for _, q := range queues {
		r -= q.Weight
		if r <= 0 {
			return q
		}
	}
	return queues[len(queues)-1]
}

func pickHour(rng *rand.Rand) int {
	var total float64
	for _, w := range hourWeights {
		total += w
	}

	r := rng.Float64() * total
	for h, w := range hourWeights {
		if w == 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return h
		}
	}
	return 17
}
