// Package simulator fabricates monitoring-assistant replies locally by
// keyword matching, standing in for a live MCP server.
package simulator

import (
	"context"
	"embed"
	"math/rand"
	"path"
	"strings"
	"sync"
	"time"
)

//go:embed templates/*.md
var templateFS embed.FS

// Topic is the category a user message is classified into
type Topic int

const (
	TopicGeneral Topic = iota
	TopicDashboards
	TopicErrorRate
	TopicLogs
	TopicDatasources
	TopicLatency
	TopicHealth
)

var topicFiles = map[Topic]string{
	TopicGeneral:     "default.md",
	TopicDashboards:  "dashboards.md",
	TopicErrorRate:   "error_rate.md",
	TopicLogs:        "logs.md",
	TopicDatasources: "datasources.md",
	TopicLatency:     "latency.md",
	TopicHealth:      "health.md",
}

var templates = loadTemplates()

// messagePlaceholder is replaced with the user's text in the general reply
const messagePlaceholder = "{{message}}"

func loadTemplates() map[Topic]string {
	out := make(map[Topic]string, len(topicFiles))
	for topic, name := range topicFiles {
		data, err := templateFS.ReadFile(path.Join("templates", name))
		if err != nil {
			panic("simulator: missing template " + name)
		}
		out[topic] = string(data)
	}
	return out
}

// String returns the topic name
func (t Topic) String() string {
	switch t {
	case TopicDashboards:
		return "dashboards"
	case TopicErrorRate:
		return "error-rate"
	case TopicLogs:
		return "logs"
	case TopicDatasources:
		return "datasources"
	case TopicLatency:
		return "latency"
	case TopicHealth:
		return "health"
	default:
		return "general"
	}
}

// Classify maps text to a topic by case-insensitive substring matching.
// Rules are checked in a fixed order and the first match wins, so
// "dashboard logs" is about dashboards and "error logs" is about logs.
func Classify(text string) Topic {
	lower := strings.ToLower(text)
	has := func(s string) bool { return strings.Contains(lower, s) }

	switch {
	case has("dashboard"):
		return TopicDashboards
	case has("error") && has("rate"):
		return TopicErrorRate
	case has("log"):
		return TopicLogs
	case has("datasource"):
		return TopicDatasources
	case has("latency") || has("p95"):
		return TopicLatency
	case has("health") || has("blackbox"):
		return TopicHealth
	default:
		return TopicGeneral
	}
}

// Template returns the canned reply for topic, unexpanded
func Template(topic Topic) string {
	return templates[topic]
}

// Reply returns the canned reply for text. The general reply quotes text
// back verbatim.
func Reply(text string) string {
	topic := Classify(text)
	reply := templates[topic]
	if topic == TopicGeneral {
		reply = strings.Replace(reply, messagePlaceholder, text, 1)
	}
	return reply
}

// Simulator answers after a random delay, like a slow backend would
type Simulator struct {
	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Simulator
type Option func(*Simulator)

// WithDelay sets the response latency range [min, max). A zero range
// answers immediately.
func WithDelay(min, max time.Duration) Option {
	return func(s *Simulator) {
		if min < 0 {
			min = 0
		}
		if max < min {
			max = min
		}
		s.minDelay, s.maxDelay = min, max
	}
}

// WithRand sets the random source used to pick delays
func WithRand(rnd *rand.Rand) Option {
	return func(s *Simulator) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// New creates a simulator with a 1-2s latency range
func New(opts ...Option) *Simulator {
	s := &Simulator{
		minDelay: time.Second,
		maxDelay: 2 * time.Second,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay picks the latency for the next response
func (s *Simulator) Delay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minDelay + time.Duration(s.rnd.Int63n(int64(span)))
}

// Respond waits for the simulated latency and returns the canned reply.
// It gives up early with ctx.Err() when ctx is done.
func (s *Simulator) Respond(ctx context.Context, text string) (string, error) {
	if d := s.Delay(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}
	return Reply(text), nil
}
