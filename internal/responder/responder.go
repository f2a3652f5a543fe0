// Package responder produces supportive replies from keyword rules. It is the
// generation step the CLI wraps with retry and caching; it needs no network.
package responder

import (
	"context"
	"strings"
)

const (
	replyEmpty = "I'm here with you. Tell me what's on your mind."

	replyCrisis = "I'm really sorry you're feeling this way. You matter and you deserve support. " +
		"If you're in immediate danger, please contact local emergency services now. " +
		"You can also reach out to your local crisis line. If you're in the U.S., call or text 988 for the Suicide & Crisis Lifeline. " +
		"If you'd like, we can take a slow breath together: inhale for 4, hold for 4, exhale for 6."

	replyAnxious = "Anxiety can feel heavy. You're not alone. " +
		"Try a 4-7-8 breath: inhale 4s, hold 7s, exhale 8s. " +
		"What small, kind thing could you do for yourself in the next 10 minutes?"

	replySad = "I'm with you. Those feelings are valid. " +
		"If it helps, write down one worry and one thing you can control today. " +
		"A brief walk or a warm drink might offer a little relief."

	replyAngry = "It makes sense to feel upset. Your feelings matter. " +
		"Try a quick reset: unclench your jaw, drop your shoulders, exhale slowly. " +
		"Would you like a short grounding exercise?"

	replyDefault = "Thank you for sharing. I'm here to listen. " +
		"Could you tell me a bit more about what you're experiencing right now? " +
		"If you want, we can try a brief grounding exercise together."
)

type rule struct {
	name    string
	markers []string
	reply   string
}

// Checked in order; crisis must stay first.
var rules = []rule{
	{"crisis", []string{"suicide", "kill myself", "end my life", "hurt myself", "self harm", "harm myself"}, replyCrisis},
	{"anxious", []string{"anxious", "anxiety", "overwhelmed", "panic"}, replyAnxious},
	{"sad", []string{"sad", "down", "lonely", "depressed"}, replySad},
	{"angry", []string{"angry", "frustrated", "irritated", "mad"}, replyAngry},
}

// Responder is safe for concurrent use.
type Responder struct{}

func New() *Responder { return &Responder{} }

// Generate never fails; the error return lets it slot into retry.Wrap and
// replycache.Cached.
func (r *Responder) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	reply, _ := r.Classify(prompt)
	return reply, nil
}

// Classify returns the reply and the name of the rule that produced it
// ("empty" or "default" when no rule matched).
func (r *Responder) Classify(prompt string) (string, string) {
	msg := strings.TrimSpace(prompt)
	if msg == "" {
		return replyEmpty, "empty"
	}
	lowered := strings.ToLower(msg)
	for _, rl := range rules {
		for _, m := range rl.markers {
			if strings.Contains(lowered, m) {
				return rl.reply, rl.name
			}
		}
	}
	return replyDefault, "default"
}

// IsCrisis reports whether prompt carries a crisis marker. Callers use it to
// keep such replies out of the cache.
func IsCrisis(prompt string) bool {
	_, name := (&Responder{}).Classify(prompt)
	return name == "crisis"
}
