package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	// mention is the token that addresses the assistant in room chat.
	mention = "@lara"

	// PersonaQuestion is the chat source name for question answers.
	PersonaQuestion = "Lara"

	// PersonaSummary is the chat source name for meeting summaries.
	PersonaSummary = "Lara-Résumé"

	// defaultWindow is the lookback in minutes when a command names none,
	// and the fixed window for question commands.
	defaultWindow = 5

	minWindow = 1
	maxWindow = 60
)

// summaryRe matches "@lara summary" or "@lara résumé" with an optional
// minute count and unit, anchored to the whole (normalized) message.
var summaryRe = regexp.MustCompile(`^@lara (?:summary|résumé)(?:\s+(\d+)\s*(?:min(?:s|utes)?)?)?$`)

// mentionRe strips the assistant mention prefix from the original,
// un-normalized text of a question command.
var mentionRe = regexp.MustCompile(`(?i)^@lara\s*`)

// Broadcaster fans assistant output back into a room. The hub implements
// it; tests substitute an in-memory fake.
type Broadcaster interface {
	BroadcastChat(room, from, text string)
	BroadcastAudio(room, b64 string)
}

// Interceptor recognizes chat commands addressed to the assistant and turns
// them into inference service calls. The calls run in their own goroutine
// so the relay keeps processing other traffic while one is outstanding; the
// original command text is never relayed to the room, whatever the outcome.
type Interceptor struct {
	svc *Client
	out Broadcaster
	log zerolog.Logger

	// pending tracks outstanding inference calls for shutdown.
	pending sync.WaitGroup
}

func NewInterceptor(svc *Client, out Broadcaster, logger zerolog.Logger) *Interceptor {
	return &Interceptor{
		svc: svc,
		out: out,
		log: logger.With().Str("component", "interceptor").Logger(),
	}
}

// Intercept inspects one chat message. It returns true when the message is
// an assistant command and has been consumed; false means ordinary chat the
// caller should relay unchanged.
//
// Matching is on trimmed, case-folded text; the question text forwarded to
// the service keeps the sender's original casing.
func (i *Interceptor) Intercept(room, from, text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))

	if m := summaryRe.FindStringSubmatch(normalized); m != nil {
		window := defaultWindow
		if m[1] != "" {
			if n, err := strconv.Atoi(m[1]); err == nil {
				window = n
			}
		}
		window = clampWindow(window)

		i.pending.Add(1)
		go i.summarize(room, window)
		return true
	}

	if strings.HasPrefix(normalized, mention) {
		question := mentionRe.ReplaceAllString(strings.TrimSpace(text), "")

		i.pending.Add(1)
		go i.answer(room, question)
		return true
	}

	return false
}

// Wait blocks until all outstanding inference calls have completed. Used
// during shutdown.
func (i *Interceptor) Wait() {
	i.pending.Wait()
}

func (i *Interceptor) summarize(room string, window int) {
	defer i.pending.Done()

	reply, err := i.svc.Summary(window)
	if err != nil {
		i.log.Error().Err(err).Str("room", room).Int("window", window).Msg("summary failed")
		return
	}

	i.out.BroadcastChat(room, PersonaSummary, reply.Text)
	i.out.BroadcastAudio(room, reply.WavB64)
}

func (i *Interceptor) answer(room, question string) {
	defer i.pending.Done()

	reply, err := i.svc.Ask(question, defaultWindow)
	if err != nil {
		i.log.Error().Err(err).Str("room", room).Msg("question failed")
		return
	}

	i.out.BroadcastChat(room, PersonaQuestion, reply.Text)
	i.out.BroadcastAudio(room, reply.WavB64)
}

func clampWindow(n int) int {
	if n < minWindow {
		return minWindow
	}
	if n > maxWindow {
		return maxWindow
	}
	return n
}
