package friction

// IsProblematic reports whether the previous renter's checkout delay exceeded
// the buffer scheduled before the next rental.
//
// A missing previous delay counts as no friction. A missing buffer never
// compares true either.
func IsProblematic(previousDelay, timeDelta *float64) bool {
	if previousDelay == nil || timeDelta == nil {
		return false
	}
	return *previousDelay > *timeDelta
}
