package domain

import "time"

// Days buckets events by weekday, each bucket in input order.
type Days map[time.Weekday][]Event

// PartitionReport counts what Partition kept and why it dropped the rest.
type PartitionReport struct {
	Kept             int `json:"kept"`
	SkippedWeekday   int `json:"skippedWeekday"`
	SkippedStartTime int `json:"skippedStartTime"`
}

// Skipped is the total number of dropped events.
func (r PartitionReport) Skipped() int {
	return r.SkippedWeekday + r.SkippedStartTime
}

// Partition places each event into its weekday bucket with StartMins/EndMins
// filled in. Events with an unknown weekday or an undecodable start time are
// dropped and counted; a bad row never fails the batch.
func Partition(events []Event) (Days, PartitionReport) {
	days := make(Days)
	var report PartitionReport

	for _, ev := range events {
		day, err := ParseWeekday(ev.Weekday)
		if err != nil {
			report.SkippedWeekday++
			continue
		}
		start, end, ok := EventMinutes(ev.StartTime, ev.EndTime)
		if !ok {
			report.SkippedStartTime++
			continue
		}
		ev.StartMins = start
		ev.EndMins = end
		days[day] = append(days[day], ev)
		report.Kept++
	}
	return days, report
}

// NormalizeAndPartition runs Normalize followed by Partition.
func NormalizeAndPartition(records []RawRecord) (Days, PartitionReport) {
	return Partition(Normalize(records))
}

// Events flattens all buckets, Sunday first.
func (d Days) Events() []Event {
	var out []Event
	for day := time.Sunday; day <= time.Saturday; day++ {
		out = append(out, d[day]...)
	}
	return out
}

// Anchors returns the agenda events of a bucket in order.
func Anchors(dayEvents []Event) []Event {
	var anchors []Event
	for _, ev := range dayEvents {
		if ev.Type.IsAgenda() {
			anchors = append(anchors, ev)
		}
	}
	return anchors
}
