// Package intent turns free text into structured operational deltas with
// keyword and pattern matching.
package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
)

var (
	dayPattern = regexp.MustCompile(`\b(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)s?\b`)

	dayRangePattern = regexp.MustCompile(`\b(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)\s*(?:through|thru|to|until|-)\s*(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)\b`)

	weekendPattern = regexp.MustCompile(`\bweekends?\b`)

	closedWordPattern = regexp.MustCompile(`\bclosed\b`)

	closeAnyPattern = regexp.MustCompile(`\bclosed?\b`)

	// "closed" (optionally "on", "every", "all", "the") right before a token
	closedPrefixPattern = regexp.MustCompile(`\bclosed?(?:\s+(?:on|every|all|the|for))*\s*$`)

	listGluePattern = regexp.MustCompile(`^(?:\s|,|&|/|\+|\band\b)*$`)

	timeRangePattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*(?:-|to|until|till)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
)

var dayAliases = map[string]types.Weekday{
	"monday": types.Monday, "mon": types.Monday,
	"tuesday": types.Tuesday, "tues": types.Tuesday, "tue": types.Tuesday,
	"wednesday": types.Wednesday, "wed": types.Wednesday,
	"thursday": types.Thursday, "thurs": types.Thursday, "thur": types.Thursday, "thu": types.Thursday,
	"friday": types.Friday, "fri": types.Friday,
	"saturday": types.Saturday, "sat": types.Saturday,
	"sunday": types.Sunday, "sun": types.Sunday,
}

// HoursParser extracts a BusinessHoursMap from free text.
//
// Rules run in order and a later rule overwrites an earlier one for the same
// day:
//  1. a sentence-wide "closed" together with day tokens marks every
//     mentioned day closed;
//  2. "<day> through <day>" with a time range (or "closed") covers the span;
//  3. "weekend" with a time range (or "closed") covers Saturday and Sunday;
//  4. each day token takes the first of "closed"/"close" or a time range
//     that follows it, and the last occurrence of a day wins.
//
// Rules 2-4 read a value only within the token's own clause, which ends at
// the next day, day range or weekend token. A "closed" written directly
// before a token ("closed Monday", "closed on weekends") belongs to that
// token, and tokens joined only by commas or "and" share a value. An explicit
// statement about a day is therefore never overridden by a neighbouring
// clause or by the sentence-wide closed of rule 1.
type HoursParser struct{}

// NewHoursParser returns a HoursParser.
func NewHoursParser() *HoursParser {
	return &HoursParser{}
}

// Parse returns the hours found in text. ok is false when no day-bearing
// pattern was recognized, which means "could not parse".
func (p *HoursParser) Parse(text string) (hours model.BusinessHoursMap, ok bool) {
	s := normalizeText(text)
	hours = model.BusinessHoursMap{}

	dayMatches := dayPattern.FindAllStringSubmatchIndex(s, -1)
	hasWeekend := weekendPattern.MatchString(s)

	// Rule 1
	if closedWordPattern.MatchString(s) {
		for _, m := range dayMatches {
			hours[dayAliases[s[m[2]:m[3]]]] = model.HoursClosed
		}
		if hasWeekend {
			for _, d := range types.Weekend() {
				hours[d] = model.HoursClosed
			}
		}
	}

	clauses := splitClauses(s)

	// Rule 2
	for i, a := range clauses.anchors {
		if a.kind != anchorDayRange {
			continue
		}
		if value, found := clauses.resolve(i); found {
			for _, d := range a.days {
				hours[d] = value
			}
		}
	}

	// Rule 3
	for i, a := range clauses.anchors {
		if a.kind != anchorWeekend {
			continue
		}
		value, found := clauses.resolve(i)
		if !found {
			value, found = firstRange(s)
		}
		if found {
			for _, d := range a.days {
				hours[d] = value
			}
		}
	}

	// Rule 4
	for i, a := range clauses.anchors {
		if a.kind != anchorDay {
			continue
		}
		if value, found := clauses.resolve(i); found {
			hours[a.days[0]] = value
		}
	}

	if len(hours) == 0 {
		return nil, false
	}
	return hours, true
}

func normalizeText(text string) string {
	s := strings.ToLower(text)
	return strings.NewReplacer(
		"–", "-", "—", "-", "−", "-",
		"a.m.", "am", "p.m.", "pm",
	).Replace(s)
}

type anchorKind int

const (
	anchorDay anchorKind = iota
	anchorDayRange
	anchorWeekend
)

// anchor is a day-bearing token. closedAt is the offset of a "closed"
// written directly before it, or -1.
type anchor struct {
	kind     anchorKind
	start    int
	end      int
	days     []types.Weekday
	closedAt int
}

type clauseSet struct {
	text    string
	anchors []anchor
}

// splitClauses finds every anchor in s, ordered by position. Day tokens
// inside a day range belong to the range.
func splitClauses(s string) *clauseSet {
	var anchors []anchor
	var ranges [][]int

	for _, m := range dayRangePattern.FindAllStringSubmatchIndex(s, -1) {
		from, to := dayAliases[s[m[2]:m[3]]], dayAliases[s[m[4]:m[5]]]
		anchors = append(anchors, anchor{kind: anchorDayRange, start: m[0], end: m[1], days: daySpan(from, to)})
		ranges = append(ranges, m)
	}
	for _, m := range weekendPattern.FindAllStringIndex(s, -1) {
		anchors = append(anchors, anchor{kind: anchorWeekend, start: m[0], end: m[1], days: types.Weekend()})
	}
	for _, m := range dayPattern.FindAllStringSubmatchIndex(s, -1) {
		inside := false
		for _, r := range ranges {
			if m[0] >= r[0] && m[1] <= r[1] {
				inside = true
				break
			}
		}
		if !inside {
			anchors = append(anchors, anchor{kind: anchorDay, start: m[0], end: m[1], days: []types.Weekday{dayAliases[s[m[2]:m[3]]]}})
		}
	}

	sort.Slice(anchors, func(i, j int) bool { return anchors[i].start < anchors[j].start })

	prevEnd := 0
	for i := range anchors {
		anchors[i].closedAt = -1
		if loc := closedPrefixPattern.FindStringIndex(s[prevEnd:anchors[i].start]); loc != nil {
			anchors[i].closedAt = prevEnd + loc[0]
		}
		prevEnd = anchors[i].end
	}

	return &clauseSet{text: s, anchors: anchors}
}

// clauseEnd is where the clause of anchor i stops: the next anchor, or the
// "closed" that belongs to it.
func (c *clauseSet) clauseEnd(i int) int {
	if i+1 >= len(c.anchors) {
		return len(c.text)
	}
	next := c.anchors[i+1]
	if next.closedAt >= 0 {
		return next.closedAt
	}
	return next.start
}

// joined reports whether anchors i and i+1 are separated only by list glue.
func (c *clauseSet) joined(i int) bool {
	if i+1 >= len(c.anchors) {
		return false
	}
	return listGluePattern.MatchString(c.text[c.anchors[i].end:c.anchors[i+1].start])
}

// resolve returns the value of anchor i: its own clause first, then a
// "closed" in front of its list, then the value of the list it leads into.
func (c *clauseSet) resolve(i int) (string, bool) {
	a := c.anchors[i]
	if end := c.clauseEnd(i); end > a.end {
		if value, found := valueIn(c.text[a.end:end]); found {
			return value, true
		}
	}

	for j := i; j >= 0; j-- {
		if c.anchors[j].closedAt >= 0 {
			return model.HoursClosed, true
		}
		if j == 0 || !c.joined(j-1) {
			break
		}
	}

	if c.joined(i) {
		return c.resolve(i + 1)
	}
	return "", false
}

// valueIn returns HoursClosed if "closed"/"close" comes before any valid
// time range in clause, or the normalized first range.
func valueIn(clause string) (string, bool) {
	closeIdx := -1
	if loc := closeAnyPattern.FindStringIndex(clause); loc != nil {
		closeIdx = loc[0]
	}

	for _, m := range timeRangePattern.FindAllStringSubmatchIndex(clause, -1) {
		if closeIdx >= 0 && closeIdx < m[0] {
			return model.HoursClosed, true
		}
		if value, valid := normalizeRange(clause, m); valid {
			return value, true
		}
	}

	if closeIdx >= 0 {
		return model.HoursClosed, true
	}
	return "", false
}

func firstRange(s string) (string, bool) {
	for _, m := range timeRangePattern.FindAllStringSubmatchIndex(s, -1) {
		if value, valid := normalizeRange(s, m); valid {
			return value, true
		}
	}
	return "", false
}

type clock struct {
	hour     int
	minute   int
	meridiem string
}

func group(s string, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}

func parseClock(hour, minute, meridiem string) clock {
	c := clock{}
	c.hour, _ = strconv.Atoi(hour)
	if minute != "" {
		c.minute, _ = strconv.Atoi(minute)
	}
	c.meridiem = meridiem
	return c
}

func (c clock) to24(meridiem string) int {
	h := c.hour
	switch meridiem {
	case "am":
		if h == 12 {
			return 0
		}
	case "pm":
		if h < 12 {
			return h + 12
		}
	}
	return h
}

// normalizeRange converts a time range match to "HH:MM-HH:MM".
//
// A missing meridiem is inferred from its partner: an end hour that does not
// come after a morning start is afternoon ("9-3", "9am-5"), and a bare start
// before a PM end is afternoon too when it precedes the end ("1-5pm"). Hours
// above 12 are taken as 24-hour clock.
func normalizeRange(s string, m []int) (string, bool) {
	start := parseClock(group(s, m, 1), group(s, m, 2), group(s, m, 3))
	end := parseClock(group(s, m, 4), group(s, m, 5), group(s, m, 6))

	if start.minute > 59 || end.minute > 59 || start.hour > 24 || end.hour > 24 {
		return "", false
	}
	if (start.meridiem != "" && (start.hour == 0 || start.hour > 12)) ||
		(end.meridiem != "" && (end.hour == 0 || end.hour > 12)) {
		return "", false
	}

	startMer, endMer := start.meridiem, end.meridiem

	if endMer == "" && end.hour <= 12 {
		switch {
		case startMer == "pm", start.hour > 12, end.hour == 12:
			endMer = "pm"
		case end.hour*60+end.minute <= (start.hour%12)*60+start.minute:
			endMer = "pm"
		}
	}

	if startMer == "" && start.hour <= 12 && start.hour != 12 {
		if endMer == "pm" && end.hour != 12 && start.hour*60+start.minute < end.hour*60+end.minute {
			startMer = "pm"
		}
	}

	open := start.to24(startMer)*60 + start.minute
	closeAt := end.to24(endMer)*60 + end.minute
	if endMer == "am" && end.hour == 12 && end.minute == 0 {
		closeAt = 24 * 60
	}

	if open >= closeAt || closeAt > 24*60 {
		return "", false
	}
	return model.FormatHoursRange(open/60, open%60, closeAt/60, closeAt%60), true
}

// daySpan returns the days from..to inclusive, wrapping past Sunday.
func daySpan(from, to types.Weekday) []types.Weekday {
	week := types.AllWeekdays()
	i, j := weekIndex(from), weekIndex(to)

	var span []types.Weekday
	for k := i; ; k = (k + 1) % len(week) {
		span = append(span, week[k])
		if k == j {
			break
		}
	}
	return span
}

func weekIndex(d types.Weekday) int {
	for i, w := range types.AllWeekdays() {
		if w == d {
			return i
		}
	}
	return 0
}
