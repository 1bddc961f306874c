// Package store is the application state: the current selection, the
// session history, the in-flight flag and the active settings.
//
// All transitions go through Reduce, which is pure. Store wraps it for
// callers that want a blocking Generate.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/blacktop/imagecraft/internal/gallery"
)

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a dismissible message for the presentation layer.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

// Job describes the single generation call a transition asks the caller to start.
type Job struct {
	Token    uint64
	Prompt   string
	Settings gallery.Settings
}

type State struct {
	Current    *gallery.GeneratedImage
	History    []gallery.GeneratedImage // newest first
	Generating bool
	Settings   gallery.Settings
	Pending    Job // zero unless Generating
	Notice     *Notice

	seq uint64
}

func NewState(settings gallery.Settings) State {
	return State{Settings: settings}
}

type Action interface{ action() }

// Submit starts a generation for Prompt. Blank prompts are ignored.
type Submit struct{ Prompt string }

// Regenerate resubmits the current selection's prompt with the current settings.
type Regenerate struct{}

// Succeeded completes the pending job. ID and At are supplied by the caller so
// Reduce stays deterministic.
type Succeeded struct {
	Token uint64
	URL   string
	ID    string
	At    time.Time
}

type Failed struct {
	Token uint64
	Err   error
}

type Select struct{ ID string }

type Delete struct{ ID string }

type UpdateSettings struct{ Patch gallery.SettingsPatch }

// Dismiss clears the current notice.
type Dismiss struct{}

func (Submit) action()         {}
func (Regenerate) action()     {}
func (Succeeded) action()      {}
func (Failed) action()         {}
func (Select) action()         {}
func (Delete) action()         {}
func (UpdateSettings) action() {}
func (Dismiss) action()        {}

// Reduce applies a to s and returns the next state. A non-nil Job means
// exactly one generation call must be started for it. s is never modified.
//
// Only one generation may be in flight: Submit and Regenerate are rejected
// while Generating, and completions for any other token are dropped.
func Reduce(s State, a Action) (State, *Job) {
	switch a := a.(type) {
	case Submit:
		prompt := strings.TrimSpace(a.Prompt)
		if prompt == "" {
			return s, nil
		}
		if s.Generating {
			s.Notice = &Notice{Kind: NoticeInfo, Message: ErrBusy.Error(), Err: ErrBusy}
			return s, nil
		}
		s.seq++
		s.Pending = Job{Token: s.seq, Prompt: prompt, Settings: s.Settings}
		s.Generating = true
		s.Notice = nil
		job := s.Pending
		return s, &job

	case Regenerate:
		if s.Current == nil {
			return s, nil
		}
		return Reduce(s, Submit{Prompt: s.Current.Prompt})

	case Succeeded:
		if !s.Generating || a.Token != s.Pending.Token {
			return s, nil
		}
		img := gallery.GeneratedImage{
			ID:        a.ID,
			URL:       a.URL,
			Prompt:    s.Pending.Prompt,
			Timestamp: a.At,
			Settings:  s.Pending.Settings,
		}
		history := make([]gallery.GeneratedImage, 0, len(s.History)+1)
		s.History = append(append(history, img), s.History...)
		s.Current = &img
		s.Generating = false
		s.Pending = Job{}
		return s, nil

	case Failed:
		if !s.Generating || a.Token != s.Pending.Token {
			return s, nil
		}
		s.Generating = false
		s.Pending = Job{}
		s.Notice = &Notice{
			Kind:    NoticeError,
			Message: fmt.Sprintf("Image generation failed: %v", a.Err),
			Err:     a.Err,
		}
		return s, nil

	case Select:
		if img, ok := s.Find(a.ID); ok {
			s.Current = &img
		}
		return s, nil

	case Delete:
		history := make([]gallery.GeneratedImage, 0, len(s.History))
		for _, img := range s.History {
			if img.ID != a.ID {
				history = append(history, img)
			}
		}
		s.History = history
		if s.Current != nil && s.Current.ID == a.ID {
			s.Current = nil
		}
		return s, nil

	case UpdateSettings:
		s.Settings = s.Settings.Apply(a.Patch)
		return s, nil

	case Dismiss:
		s.Notice = nil
		return s, nil
	}
	return s, nil
}

// Find returns the history entry with id.
func (s State) Find(id string) (gallery.GeneratedImage, bool) {
	for _, img := range s.History {
		if img.ID == id {
			return img, true
		}
	}
	return gallery.GeneratedImage{}, false
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	if s.Current != nil {
		cur := *s.Current
		s.Current = &cur
	}
	if s.Notice != nil {
		n := *s.Notice
		s.Notice = &n
	}
	if s.History != nil {
		s.History = append([]gallery.GeneratedImage(nil), s.History...)
	}
	return s
}
