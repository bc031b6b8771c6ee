package scan

// Stats tracks aggregate counters and byte totals across a scan.
type Stats struct {
	Scanned        int
	DirectPlay     int
	Transcode      int
	ProbeErrors    int
	ScannedBytes   int64
	TranscodeBytes int64
}

// Add folds one entry into the totals.
func (s *Stats) Add(e Entry) {
	s.Scanned++
	s.ScannedBytes += e.Size
	if e.Outcome.DirectPlay {
		s.DirectPlay++
		return
	}
	s.Transcode++
	s.TranscodeBytes += e.Size
	if e.Outcome.ProbeFailed() {
		s.ProbeErrors++
	}
}

// DirectPercent returns the share of scanned files that direct-play, in
// percent. Zero when nothing was scanned.
func (s Stats) DirectPercent() float64 {
	return percent(s.DirectPlay, s.Scanned)
}

// TranscodePercent returns the share of scanned files that need
// transcoding, in percent. Zero when nothing was scanned.
func (s Stats) TranscodePercent() float64 {
	return percent(s.Transcode, s.Scanned)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
