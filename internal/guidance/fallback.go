package guidance

// FallbackPackage is the pre-authored guidance delivered when the upstream
// cannot serve the session. The user must never see a silent screen during
// an emergency.
type FallbackPackage struct {
	Instructions []string
	Disclaimer   string
}

var fallbackInstructions = [...]string{
	"Stay calm. Take a slow, deep breath.",
	"Call emergency services right away if you have not already.",
	"If someone is hurt, do not move them unless they are in immediate danger.",
	"If there is bleeding, apply gentle pressure with a clean cloth.",
	"If someone is unconscious, check if they are breathing.",
	"If there is a fire, move away to a safe area immediately.",
	"Stay with the person and keep them warm and comfortable.",
	"Help is on the way. You are doing the right thing.",
}

const fallbackDisclaimer = "The AI connection was lost. These are general safety guidelines. " +
	"Please call your local emergency number for professional help."

// Fallback returns the fixed fallback package. The returned slice is a copy;
// the underlying content is read-only after process start.
func Fallback() FallbackPackage {
	instructions := make([]string, len(fallbackInstructions))
	copy(instructions, fallbackInstructions[:])
	return FallbackPackage{
		Instructions: instructions,
		Disclaimer:   fallbackDisclaimer,
	}
}
