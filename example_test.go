package quartzcron_test

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"
	clocktesting "k8s.io/utils/clock/testing"

	quartzcron "github.com/netresearch/go-quartzcron"
)

func ExampleParse() {
	m, err := quartzcron.Parse("0 15 10 ? * MON-FRI")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m)
	fmt.Println(m.DayOfWeek.Mode, m.DayOfWeek.Start, m.DayOfWeek.End)
	// Output:
	// 0 15 10 ? * 2-6 *
	// range 2 6
}

func ExampleParseExpression() {
	res := quartzcron.ParseExpression("0 0 25 32 * ?")
	fmt.Println(res.Valid())
	for _, f := range res.Errors.Ordered() {
		fmt.Println(f, res.Errors[f])
	}
	// Output:
	// false
	// hours OUT_OF_RANGE
	// dayOfMonth OUT_OF_RANGE
}

func ExampleNextN() {
	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, t := range quartzcron.NextN(after, quartzcron.MustParse("0 0 0 L * ?"), 3) {
		fmt.Println(t.Format("2006-01-02"))
	}
	// Output:
	// 2025-01-31
	// 2025-02-28
	// 2025-03-31
}

func ExampleFormat() {
	m := quartzcron.DefaultModel()
	m.Seconds = quartzcron.List(0)
	m.Minutes = quartzcron.Step(0, 15)
	m.Hours = quartzcron.List(9, 17)
	m.SetDayOfWeek(quartzcron.Range(2, 6))

	s, err := quartzcron.Format(m)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s)
	// Output: 0 0/15 9,17 ? * 2-6 *
}

func ExampleAnalyze() {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := quartzcron.Analyze("0 0 0 30 * ?", from, 2)
	fmt.Println(a.Valid, len(a.Warnings) > 0)
	for _, t := range a.NextRuns {
		fmt.Println(t.Format("2006-01-02"))
	}
	// Output:
	// true true
	// 2025-01-30
	// 2025-03-30
}

func ExampleBetween() {
	s, err := quartzcron.ParseSchedule("TZ=UTC 0 0 12 ? * 2#1")
	if err != nil {
		log.Fatal(err)
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, t := range quartzcron.Between(s, start, start.AddDate(0, 3, 0), 0) {
		fmt.Println(t.Format(time.RFC3339))
	}
	// Output:
	// 2025-01-06T12:00:00Z
	// 2025-02-03T12:00:00Z
	// 2025-03-03T12:00:00Z
}

func ExampleExpression() {
	var config struct {
		Jobs map[string]quartzcron.Expression `yaml:"jobs"`
	}
	err := yaml.Unmarshal([]byte("jobs:\n  report: 0 0 6 ? * MON\n  cleanup: 0 0 3 L * ?\n"), &config)
	if err != nil {
		log.Fatal(err)
	}
	m, err := config.Jobs["report"].Model()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m)
	// Output: 0 0 6 ? * 2 *
}

func ExampleNew() {
	c := quartzcron.New(quartzcron.WithLocation(time.UTC))
	if _, err := c.AddFunc("0 30 8 ? * MON-FRI", func() { fmt.Println("good morning") }); err != nil {
		log.Fatal(err)
	}
	if _, err := c.AddFunc("TZ=Asia/Tokyo 0 0 9 L * ?", func() { fmt.Println("month end in Tokyo") }); err != nil {
		log.Fatal(err)
	}
	c.Start()
	defer c.StopAndWait()
}

func ExampleWithClock() {
	fc := clocktesting.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	c := quartzcron.New(quartzcron.WithClock(fc), quartzcron.WithLocation(time.UTC))

	done := make(chan struct{})
	_, err := c.AddFunc("0 0 12 * * ?", func() {
		fmt.Println("ran at", fc.Now().Format(time.RFC3339))
		close(done)
	})
	if err != nil {
		log.Fatal(err)
	}

	c.Start()
	for !fc.HasWaiters() {
		time.Sleep(time.Millisecond)
	}
	fc.Step(12 * time.Hour)
	<-done
	c.StopAndWait()
	// Output: ran at 2025-01-01T12:00:00Z
}

func ExampleWithChain() {
	logger := quartzcron.DefaultLogger
	c := quartzcron.New(quartzcron.WithChain(
		quartzcron.Recover(logger),
		quartzcron.SkipIfStillRunning(logger),
	))
	_, _ = c.AddFunc("*/10 * * * * ?", func() { time.Sleep(time.Minute) }, quartzcron.WithName("slow"))
	fmt.Println(c.EntryByName("slow").Valid())
	// Output: true
}

func ExampleNewPrometheusHooks() {
	reg := prometheus.NewRegistry()
	hooks, err := quartzcron.NewPrometheusHooks(reg)
	if err != nil {
		log.Fatal(err)
	}
	c := quartzcron.New(quartzcron.WithObservability(hooks))
	c.Start()
	defer c.StopAndWait()

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
