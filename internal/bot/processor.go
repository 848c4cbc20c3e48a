// Package bot is the dialogue layer on top of the NLU engine. It routes a
// classified message to an answer, renders the reply text and keeps one
// pending clarification per session.
package bot

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/garyellow/casmate/internal/ctxutil"
	"github.com/garyellow/casmate/internal/engine"
	"github.com/garyellow/casmate/internal/logger"
	"github.com/garyellow/casmate/internal/metrics"
	"github.com/garyellow/casmate/internal/nlu"
	"github.com/garyellow/casmate/internal/resolver"
	"github.com/garyellow/casmate/internal/stringutil"
)

// MaxMessageLength caps a question, in characters.
const MaxMessageLength = 1000

// Fixed reply texts.
const (
	FollowUpText    = "Anything else I can help with?"
	GoodbyeText     = "Thanks for chatting, take care!"
	NotReadyText    = "The course catalog is still loading. Please try again in a moment."
	EmptyText       = "Please type a question about a course or program."
	NoMatchText     = "Could not find a close enough match."
	ErrorText       = "Sorry, something went wrong while answering. Please try again."
	DefaultFinance  = "facebook.com/NWUFinance"
	financeTemplate = "For tuition, fees, and payments, please reach the NWU Finance Office: %s"
)

// Reply is the bot's answer to one message.
type Reply struct {
	Text        string                `json:"text"`
	Source      string                `json:"source,omitempty"`
	Intent      nlu.Intent            `json:"intent"`
	MatchType   string                `json:"match_type,omitempty"`
	Score       int                   `json:"score,omitempty"`
	Suggestions []resolver.Suggestion `json:"suggestions,omitempty"`
	Clarifying  bool                  `json:"awaiting_clarification"`
	FollowUp    string                `json:"follow_up,omitempty"`
	EndOfChat   bool                  `json:"end_of_chat,omitempty"`
	SessionID   string                `json:"session_id,omitempty"`

	pending *Pending
}

// Processor answers messages against the live engine.
type Processor struct {
	engines    *engine.Holder
	sessions   *SessionStore
	logger     *logger.Logger
	metrics    *metrics.Metrics
	financeURL string
	now        func() time.Time
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Engines          *engine.Holder
	Sessions         *SessionStore // nil disables clarification follow-ups
	Logger           *logger.Logger
	Metrics          *metrics.Metrics
	FinanceOfficeURL string
	Clock            func() time.Time // defaults to time.Now
}

// NewProcessor creates a new message processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	p := &Processor{
		engines:    cfg.Engines,
		sessions:   cfg.Sessions,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		financeURL: cfg.FinanceOfficeURL,
		now:        cfg.Clock,
	}
	if p.financeURL == "" {
		p.financeURL = DefaultFinance
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = logger.NewWithWriter("error", io.Discard)
	}
	return p
}

// turn is one message being answered.
type turn struct {
	ctx    context.Context
	e      *engine.Engine
	text   string
	ents   nlu.Entities
	intent nlu.Intent
}

// ProcessMessage answers one message of a session. It never fails: problems
// become reply text.
func (p *Processor) ProcessMessage(ctx context.Context, sessionID, text string) Reply {
	start := p.now()
	ctx = ctxutil.WithSessionID(ctx, sessionID)
	log := p.logger.WithSessionID(sessionID)
	if rid, ok := ctxutil.GetRequestID(ctx); ok && rid != "" {
		log = log.WithRequestID(rid)
	}

	reply := p.safeProcess(ctx, log, sessionID, strings.TrimSpace(text))
	reply.SessionID = sessionID

	if p.metrics != nil {
		p.metrics.RecordIntent(reply.Intent.String())
		p.metrics.RecordTurn(p.now().Sub(start).Seconds())
	}
	log.WithFields(map[string]any{
		"intent":     reply.Intent.String(),
		"match_type": reply.MatchType,
		"score":      reply.Score,
		"clarifying": reply.Clarifying,
	}).Debug("Turn answered")
	return reply
}

// safeProcess turns a panicking turn into an apology.
func (p *Processor) safeProcess(ctx context.Context, log *logger.Logger, sessionID, text string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).
				WithField("stack", string(debug.Stack())).
				Error("Turn panicked")
			p.clear(sessionID)
			reply = Reply{Text: ErrorText, Intent: nlu.IntentCourseInfo}
		}
	}()
	return p.process(ctx, sessionID, text)
}

func (p *Processor) process(ctx context.Context, sessionID, text string) Reply {
	if text == "" {
		return Reply{Text: EmptyText, Intent: nlu.IntentCourseInfo}
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return Reply{
			Text:   fmt.Sprintf("Your message is too long. Please keep questions under %d characters.", MaxMessageLength),
			Intent: nlu.IntentCourseInfo,
		}
	}

	e, err := p.engines.Current()
	if err != nil {
		return Reply{Text: NotReadyText, Intent: nlu.IntentCourseInfo}
	}

	intent := e.Classifier.Classify(text)
	if intent != nlu.IntentFinance && endsChat(text) {
		p.clear(sessionID)
		return Reply{Text: GoodbyeText, Intent: nlu.IntentGoodbye, EndOfChat: true}
	}

	if p.sessions != nil {
		if pend, ok := p.sessions.Pending(sessionID); ok {
			p.sessions.Clear(sessionID)
			if reply, ok := p.answerPending(ctx, e, pend, text); ok {
				return p.finish(sessionID, reply)
			}
		}
	}

	t := &turn{ctx: ctx, e: e, text: text, ents: e.Extractor.Extract(text), intent: intent}
	reply := p.route(t)
	reply.Intent = intent
	return p.finish(sessionID, reply)
}

// finish stores a new clarification or appends the follow-up prompt.
func (p *Processor) finish(sessionID string, reply Reply) Reply {
	if reply.pending != nil {
		reply.Clarifying = true
		if p.sessions != nil {
			p.sessions.SetPending(sessionID, *reply.pending)
		}
		return reply
	}
	switch reply.Intent {
	case nlu.IntentGreeting, nlu.IntentGoodbye, nlu.IntentFinance:
	default:
		if !reply.Clarifying {
			reply.FollowUp = FollowUpText
		}
	}
	if reply.Intent == nlu.IntentGoodbye {
		reply.EndOfChat = true
		p.clear(sessionID)
	}
	return reply
}

func (p *Processor) clear(sessionID string) {
	if p.sessions != nil {
		p.sessions.Clear(sessionID)
	}
}

// endsChat reports whether "bye" or "goodbye" appears anywhere.
func endsChat(text string) bool {
	toks := stringutil.Tokenize(stringutil.Clean(text))
	return slices.Contains(toks, "bye") || slices.Contains(toks, "goodbye")
}

// recordCourse counts one course resolution.
func (p *Processor) recordCourse(res resolver.CourseResolution) {
	if p.metrics != nil {
		p.metrics.RecordResolution("course", res.Match.String())
	}
}

func (p *Processor) recordProgram(res resolver.ProgramResolution) {
	if p.metrics != nil {
		p.metrics.RecordResolution("program", string(res.Via))
	}
}
