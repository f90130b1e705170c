package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"bulb_meter/internal/billing"
	"bulb_meter/internal/estimator"
	"bulb_meter/internal/logparse"
)

type options struct {
	ratedPowerW float64
	strict      bool
	sortLog     bool
}

func main() {
	power := flag.Float64("power", estimator.DefaultRatedPowerW, "rated power in watts per unit of brightness")
	tariff := flag.String("tariff", "", "price per kWh as a decimal string; empty disables the cost line")
	strict := flag.Bool("strict", false, "abort on the first malformed line instead of skipping it")
	sortLog := flag.Bool("sort", false, "sort events by timestamp before estimating")
	places := flag.Int("places", 1, "decimal places in the printed total")
	flag.Parse()

	total, err := runEstimate(os.Stdin, options{
		ratedPowerW: *power,
		strict:      *strict,
		sortLog:     *sortLog,
	})
	if err != nil {
		log.Fatalf("Estimation failed: %v", err)
	}

	fmt.Printf("Estimated energy used: %s Wh\n", billing.FormatWh(total, int32(*places)))

	if *tariff != "" {
		stmt, err := billing.NewStatement(total, *tariff)
		if err != nil {
			log.Fatalf("Invalid tariff: %v", err)
		}
		fmt.Printf("Estimated cost: %s (at %s per kWh)\n", stmt.Cost.Round(4), stmt.TariffPerKWh)
	}
}

// runEstimate reads log lines from r until the EOF marker or stream end and
// returns the accumulated watt-hour total.
func runEstimate(r io.Reader, opts options) (float64, error) {
	reader := &logparse.LogReader{SkipInvalid: !opts.strict}
	events, err := reader.Parse(r)
	if err != nil {
		return 0, err
	}

	if opts.sortLog {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Timestamp < events[j].Timestamp
		})
	}

	est := estimator.Estimator{RatedPowerW: opts.ratedPowerW}
	return est.Accumulate(events)
}
