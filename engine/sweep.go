package engine

import (
	"sync"

	"github.com/apexquant/apexbt/config"
	"github.com/apexquant/apexbt/eventhandlers/portfolio"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/apexquant/apexbt/statistics"
)

// SweepResult holds the outcome of one run within a sweep. Err is set when
// that run failed, the other runs are unaffected
type SweepResult struct {
	RunID     string
	Nickname  string
	Report    *statistics.Report
	EquityLog []portfolio.EquityEntry
	FillLog   []fill.Event
	Err       error
}

// Sweep executes one isolated run per config concurrently. Runs share
// nothing, so identical configs produce identical equity and fill logs.
// Results are returned in config order regardless of completion order
func Sweep(cfgs []*config.Config, workers int) ([]SweepResult, error) {
	if len(cfgs) == 0 {
		return nil, errNoSweepConfigs
	}
	if workers <= 0 {
		workers = 1
	}
	results := make([]SweepResult, len(cfgs))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runOne(cfgs[i])
			}
		}()
	}
	for i := range cfgs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results, nil
}

func runOne(cfg *config.Config) SweepResult {
	bt, err := NewFromConfig(cfg)
	if err != nil {
		return SweepResult{Err: err}
	}
	res := SweepResult{RunID: bt.RunID, Nickname: bt.Nickname}
	if res.Err = bt.Run(); res.Err != nil {
		return res
	}
	res.EquityLog = bt.Portfolio.EquityLog()
	res.FillLog = bt.Portfolio.FillLog()
	res.Report, res.Err = bt.GenerateReport()
	return res
}
