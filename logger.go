package particlefilter

import "log"

// Logf receives the filter's recoverable events: a Reweight whose likelihoods
// all came out zero and fell back to uniform weights, and a Resample whose index
// walk ran off the end of the population and was clamped. It writes through
// log.Printf until SetLogger replaces it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger routes those events to f. A nil f discards them.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
