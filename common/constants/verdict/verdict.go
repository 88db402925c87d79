package verdict

type Verdict string

const (
	AC Verdict = "AC" // Accepted
	WA Verdict = "WA" // Wrong answer

	RT Verdict = "RT" // Runtime error
	ML Verdict = "ML" // Memory limit exceed
	TL Verdict = "TL" // Time limit exceed
	OL Verdict = "OL" // Output limit exceed

	CE Verdict = "CE" // Compile error
	FA Verdict = "FA" // Forbidden action
	SE Verdict = "SE" // System error

	PD Verdict = "PD" // Pending, not judged yet
)

func (v Verdict) IsAccepted() bool {
	return v == AC
}

// IsFinal reports whether the verdict is a grading outcome rather than a
// pending placeholder.
func (v Verdict) IsFinal() bool {
	return v != PD
}
