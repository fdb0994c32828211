package stats

// Summary holds the most recent usable values extracted from an area's
// time series. It is replaced wholesale on every successful fetch,
// never merged.
type Summary struct {
	AreaName      string
	SevenDayCases int64
	HospitalCases int64
	TotalDeaths   int64
}

// Summarize extracts the current figures from records (most recent
// first). Each field is scanned independently from index 0 until a
// non-null value is found, since the provider publishes recent days
// with gaps. Records may legitimately omit hospital or death figures
// entirely (sub-national areas); those fields stay zero.
func Summarize(records []DailyRecord) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}
	s.AreaName = records[0].AreaName

	for _, r := range records {
		if r.CumDeaths != nil {
			s.TotalDeaths = *r.CumDeaths
			break
		}
	}
	for _, r := range records {
		if r.HospitalCases != nil {
			s.HospitalCases = *r.HospitalCases
			break
		}
	}
	s.SevenDayCases = SevenDaySum(records)
	return s
}

// SevenDaySum adds up the new-case counts for the seven-day window
// starting at the first record with a published value. A series that
// runs out inside the window contributes what it has.
func SevenDaySum(records []DailyRecord) int64 {
	start := 0
	for start < len(records) && records[start].NewCases == nil {
		start++
	}

	var sum int64
	for i := start; i < len(records) && i < start+7; i++ {
		if records[i].NewCases != nil {
			sum += *records[i].NewCases
		}
	}
	return sum
}
