/*
Package quartzcron parses, formats and evaluates Quartz cron expressions, and
runs jobs on them.

# Installation

	go get github.com/netresearch/go-quartzcron

It requires Go 1.25 or later.

# Expression Format

A Quartz expression has 6 or 7 space-separated fields. When the year is
omitted it defaults to "*".

	Field name   | Allowed values  | Allowed special characters
	----------   | --------------  | --------------------------
	Seconds      | 0-59            | * / , -
	Minutes      | 0-59            | * / , -
	Hours        | 0-23            | * / , -
	Day of month | 1-31            | * / , - ? L L-N NW
	Month        | 1-12 or JAN-DEC | * / , -
	Day of week  | 1-7 or SUN-SAT  | * , - ? NL N#M
	Year         | 1970-2099       | * / , - ?

Day of week counts 1=Sunday through 7=Saturday. Month and weekday names are
case insensitive.

Exactly one of day of month and day of week may be constrained; the other
must be "?". "0 0 12 ? * 2-6" means noon on weekdays, "0 0 12 15 * ?" noon
on the 15th. Constraining both is rejected with DAY_WEEK_CONFLICT.

Asterisk ( * )

Matches every value of the field.

Hyphen ( - )

A range, both ends included. The start must be less than the end: "9-17".

Slash ( / )

"from/step" matches from, from+step, ... up to the field maximum. "*\/step"
starts at the field minimum for seconds, minutes and hours and at 0 for the
other fields, so "*\/5" in day of month means the 5th, 10th, 15th, ...

Comma ( , )

A list of values in strictly ascending order: "MON,WED,FRI".

Question mark ( ? )

Leaves day of month or day of week unconstrained.

L, L-N, NW ( day of month )

"L" is the last day of the month, "L-3" three days before it. "15W" is the
weekday (Monday to Friday) nearest to the 15th, without leaving the month.

NL, N#M ( day of week )

"6L" is the last Friday of the month. "6#3" is the third Friday; months
without a fifth occurrence are skipped by "N#5".

# Errors

Parsing never stops at the first problem. ParseExpression reports one
ErrorCode per failing field:

	res := quartzcron.ParseExpression("0 0 25 * * ? *")
	fmt.Println(res.Errors[quartzcron.Hours]) // OUT_OF_RANGE

Parse returns the same information as a *ParseError, which unwraps to one
*ValidationError per field, so errors.Is(err, quartzcron.ErrOutOfRange)
works.

# Evaluation

NextN and Model.Next compute activations strictly after a given instant, in
that instant's location:

	m := quartzcron.MustParse("0 0 0 L * ? *")
	runs := m.NextN(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	// 2025-01-31 00:00:00, 2025-02-28 00:00:00

A Schedule binds a model to a location; ParseSchedule accepts a
"TZ=Europe/Berlin " or "CRON_TZ=Europe/Berlin " prefix.

# Running jobs

Cron runs jobs on Quartz schedules:

	c := quartzcron.New(quartzcron.WithChain(quartzcron.Recover(logger)))
	c.AddFunc("0 0/15 9-17 ? * MON-FRI", func() { fmt.Println("quarter hour, office hours") })
	c.AddFunc("TZ=Asia/Tokyo 0 30 4 * * ?", func() { fmt.Println("04:30 in Tokyo") })
	c.Start()
	..
	c.Stop() // does not stop jobs already running

Entries whose schedule runs out of years never fire again and report a zero
Next.

# Time zones

Expressions without a prefix are evaluated in the runner's location
(time.Local unless WithLocation is used). Around daylight saving changes
the search works on wall-clock values: an activation inside a skipped hour
may be lost for that day, and a repeated hour is usually evaluated once.

# Observability

WithObservability installs hooks for job start, completion and scheduling.
NewPrometheusHooks returns hooks backed by Prometheus collectors.
*/
package quartzcron
