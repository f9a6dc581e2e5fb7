package aggregator

import (
	"sort"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

type operatorAcc struct {
	name       string
	answered   int
	wait       meanAccumulator
	handle     meanAccumulator
	queues     map[string]int
	queueOrder []string
	days       map[string]struct{}
}

// busiestQueue returns the queue with the most contacts; ties go to the
// queue seen first
func (o *operatorAcc) busiestQueue() string {
	best, bestCount := "", 0
	for _, q := range o.queueOrder {
		if c := o.queues[q]; c > bestCount {
			best, bestCount = q, c
		}
	}
	return best
}

// ComputeOperatorRollups ranks operators by answered contacts. Only answered
// records with an operator count. PerDay divides by the distinct dates the
// operator answered on and is 0 when none of their records is dated.
func ComputeOperatorRollups(records []types.Record) []types.OperatorRollup {
	accs := make(map[string]*operatorAcc)
	var order []string

	for _, r := range records {
		if r.Outcome != types.OutcomeAnswered || r.Operator == "" {
			continue
		}
		acc, ok := accs[r.Operator]
		if !ok {
			acc = &operatorAcc{name: r.Operator, queues: make(map[string]int), days: make(map[string]struct{})}
			accs[r.Operator] = acc
			order = append(order, r.Operator)
		}
		acc.answered++
		acc.wait.add(r.WaitSeconds)
		acc.handle.add(r.HandleSeconds)
		if _, seen := acc.queues[r.Queue]; !seen {
			acc.queueOrder = append(acc.queueOrder, r.Queue)
		}
		acc.queues[r.Queue]++
		if day := r.DateKey(); day != "" {
			acc.days[day] = struct{}{}
		}
	}

	out := make([]types.OperatorRollup, 0, len(order))
	for _, name := range order {
		acc := accs[name]
		perDay := 0.0
		if len(acc.days) > 0 {
			perDay = round2(float64(acc.answered) / float64(len(acc.days)))
		}
		out = append(out, types.OperatorRollup{
			Operator:         name,
			Answered:         acc.answered,
			AvgHandleSeconds: acc.handle.seconds(),
			AvgHandle:        acc.handle.clock(),
			AvgWaitSeconds:   acc.wait.seconds(),
			AvgWait:          acc.wait.clock(),
			BusiestQueue:     acc.busiestQueue(),
			PerDay:           perDay,
			ActiveDays:       len(acc.days),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Answered > out[j].Answered
	})
	return out
}

type queueAcc struct {
	rollup types.QueueRollup
	wait   meanAccumulator
	handle meanAccumulator
}

// ComputeQueueRollups breaks records down by queue, busiest first. Queues
// with equal totals keep the order they first appeared in.
func ComputeQueueRollups(records []types.Record) []types.QueueRollup {
	accs := make(map[string]*queueAcc)
	var order []string

	for _, r := range records {
		acc, ok := accs[r.Queue]
		if !ok {
			acc = &queueAcc{rollup: types.QueueRollup{Queue: r.Queue}}
			accs[r.Queue] = acc
			order = append(order, r.Queue)
		}
		acc.rollup.Total++
		switch r.Outcome {
		case types.OutcomeAnswered:
			acc.rollup.Answered++
		case types.OutcomeAbandoned:
			acc.rollup.Abandoned++
		case types.OutcomeTransferred:
			acc.rollup.Transferred++
		}
		acc.wait.add(r.WaitSeconds)
		acc.handle.add(r.HandleSeconds)
	}

	out := make([]types.QueueRollup, 0, len(order))
	for _, q := range order {
		acc := accs[q]
		row := acc.rollup
		row.AbandonRate = percent(row.Abandoned, row.Total)
		row.AvgWaitSeconds = acc.wait.seconds()
		row.AvgWait = acc.wait.clock()
		row.AvgHandleSeconds = acc.handle.seconds()
		row.AvgHandle = acc.handle.clock()
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}
