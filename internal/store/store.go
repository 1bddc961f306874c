package store

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/blacktop/imagecraft/internal/gallery"
	"github.com/blacktop/imagecraft/internal/generate"
)

// Generator produces a renderable image URL for a request.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (string, error)
}

// NewID returns a time ordered UUIDv7.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Store serialises access to a State. The lock is never held while a
// generation request is outstanding.
type Store struct {
	mu     sync.Mutex
	state  State
	gen    Generator
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }
func WithIDs(next func() string) Option     { return func(s *Store) { s.newID = next } }

func WithSettings(settings gallery.Settings) Option {
	return func(s *Store) { s.state.Settings = settings }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(gen Generator, opts ...Option) *Store {
	s := &Store{
		state:  NewState(gallery.DefaultSettings()),
		gen:    gen,
		now:    time.Now,
		newID:  NewID,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies a and returns the job it emitted, if any.
func (s *Store) Dispatch(a Action) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	var job *Job
	s.state, job = Reduce(s.state, a)
	return job
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Generate submits prompt and blocks until the endpoint answers.
func (s *Store) Generate(ctx context.Context, prompt string) (*gallery.GeneratedImage, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	job := s.Dispatch(Submit{Prompt: prompt})
	if job == nil {
		return nil, ErrBusy
	}
	return s.Run(ctx, *job)
}

// Regenerate reruns the current selection's prompt with the current settings.
func (s *Store) Regenerate(ctx context.Context) (*gallery.GeneratedImage, error) {
	job, err := s.regenerate()
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, *job)
}

// regenerate checks the selection and reduces under one lock so a concurrent
// Delete cannot slip in between.
func (s *Store) regenerate() (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Current == nil {
		return nil, ErrNoSelection
	}
	var job *Job
	s.state, job = Reduce(s.state, Regenerate{})
	if job == nil {
		return nil, ErrBusy
	}
	return job, nil
}

// Run performs the network call for job and applies its outcome.
func (s *Store) Run(ctx context.Context, job Job) (*gallery.GeneratedImage, error) {
	settings := job.Settings
	url, err := s.gen.Generate(ctx, generate.Request{Prompt: job.Prompt, Settings: &settings})
	if err != nil {
		s.logger.Error("Image generation failed", "err", err, "prompt", job.Prompt)
		s.Dispatch(Failed{Token: job.Token, Err: err})
		return nil, err
	}
	img := gallery.GeneratedImage{
		ID:        s.newID(),
		URL:       url,
		Prompt:    job.Prompt,
		Timestamp: s.now(),
		Settings:  job.Settings,
	}
	s.Dispatch(Succeeded{Token: job.Token, URL: img.URL, ID: img.ID, At: img.Timestamp})
	s.logger.Debug("Image generated", "id", img.ID, "prompt", img.Prompt)
	return &img, nil
}

func (s *Store) Select(id string) bool {
	s.Dispatch(Select{ID: id})
	cur := s.Snapshot().Current
	return cur != nil && cur.ID == id
}

func (s *Store) Delete(id string) { s.Dispatch(Delete{ID: id}) }

func (s *Store) UpdateSettings(p gallery.SettingsPatch) { s.Dispatch(UpdateSettings{Patch: p}) }
