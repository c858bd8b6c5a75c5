package policy

import "strings"

// RiskSignals is the result of scanning an evaluation's free-text flags and
// concerns. Signals are additive: a note set can raise several at once, and
// the decision engines define the precedence between them.
type RiskSignals struct {
	// HardBlock means a disqualifying condition was named: the candidate
	// cannot proceed regardless of score.
	HardBlock bool

	// MissingTranscript means the notes claim the stage transcript was
	// absent or unusable.
	MissingTranscript bool

	// DataIncomplete means the notes claim other required inputs were
	// missing or unusable.
	DataIncomplete bool
}

// Incomplete reports whether any incompleteness signal was raised.
func (s RiskSignals) Incomplete() bool { return s.MissingTranscript || s.DataIncomplete }

// Keyword tables are matched case-insensitively as substrings. Matching on
// substrings is deliberate: model phrasing varies ("hard blocker",
// "ineligible per policy") and a false positive routes to a hold or a
// recorded reject reason a human will see, never a silent advance.
var (
	l1HardBlockKeywords  = []string{"hard block", "mandatory", "not eligible", "ineligible"}
	l1TranscriptKeywords = []string{"missing transcript", "no transcript"}
	l1IncompleteKeywords = []string{"data incomplete", "missing resume", "missing jd"}

	l2HardBlockKeywords  = []string{"hard block", "mandatory", "integrity", "ethics", "cheating", "fake"}
	l2TranscriptKeywords = []string{"missing transcript"}
	l2IncompleteKeywords = []string{"data incomplete", "missing info"}
)

// ScanL1Notes classifies first-pass flags and concerns into risk signals.
func ScanL1Notes(notes []string) RiskSignals {
	return scan(notes, l1HardBlockKeywords, l1TranscriptKeywords, l1IncompleteKeywords)
}

// ScanL2Notes classifies second-pass flags and concerns into risk signals.
func ScanL2Notes(notes []string) RiskSignals {
	return scan(notes, l2HardBlockKeywords, l2TranscriptKeywords, l2IncompleteKeywords)
}

func scan(notes []string, hardBlock, transcript, incomplete []string) RiskSignals {
	var s RiskSignals
	for _, note := range notes {
		lower := strings.ToLower(note)
		s.HardBlock = s.HardBlock || containsAny(lower, hardBlock)
		s.MissingTranscript = s.MissingTranscript || containsAny(lower, transcript)
		s.DataIncomplete = s.DataIncomplete || containsAny(lower, incomplete)
	}
	return s
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
