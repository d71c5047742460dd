// Package session serializes access to an inset model. A Session owns one
// model on a dedicated goroutine and answers requests strictly in the order
// they were accepted.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"git.sr.ht/~gioverse/patchkit"
	"git.sr.ht/~gioverse/patchkit/compose"
	"git.sr.ht/~gioverse/patchkit/debug"
	"git.sr.ht/~gioverse/patchkit/export"
	"git.sr.ht/~gioverse/patchkit/inset"
	"git.sr.ht/~gioverse/patchkit/manifest"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

// ErrClosed is returned for requests made after Close.
var ErrClosed = errors.New("session closed")

// Request types handled by the session goroutine.
type (
	attachRequest struct {
		Source inset.Bitmap
		Scale  ninepatch.Scale
	}
	scaleRequest struct {
		Scale ninepatch.Scale
	}
	modeRequest struct {
		Mode   ninepatch.Mode
		Center ninepatch.CenterMode
	}
	insetsRequest struct {
		Patch                inset.Patch
		Horizontal, Vertical inset.Edge
	}
	edgeRequest struct {
		X, Y float64
	}
	stateRequest struct{}
	renderRequest struct {
		Size    image.Point
		Options compose.Options
	}
	canvasRequest     struct{}
	descriptorRequest struct {
		Target ninepatch.Scale
	}
	exportRequest struct {
		Ctx     context.Context
		Options export.Options
	}
)

// request pairs a typed request with the channel its result is sent on.
type request struct {
	Value interface{}
	Reply chan<- response
}

type response struct {
	Value interface{}
	Err   error
}

// Session is a FIFO request/response front to an inset.Model.
//
// Requests are accepted one at a time. A context only bounds the wait for
// acceptance; once accepted, a request runs to completion and its reply is
// always delivered.
type Session struct {
	requests chan request
	quit     chan struct{}
	done     chan struct{}
	closing  sync.Once
}

// New starts a session around an empty model.
func New() *Session {
	s := &Session{
		requests: make(chan request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run(inset.New())
	return s
}

// run owns m until the session is closed.
func (s *Session) run(m *inset.Model) {
	defer close(s.done)
	defer m.Release()
	for {
		select {
		case req := <-s.requests:
			v, err := handle(m, req.Value)
			req.Reply <- response{Value: v, Err: err}
		case <-s.quit:
			return
		}
	}
}

func handle(m *inset.Model, req interface{}) (interface{}, error) {
	switch req := req.(type) {
	case attachRequest:
		return nil, m.Attach(req.Source, req.Scale)
	case scaleRequest:
		return nil, m.SetScale(req.Scale)
	case modeRequest:
		return nil, m.SetMode(req.Mode, req.Center)
	case insetsRequest:
		return nil, m.SetInsets(req.Patch, req.Horizontal, req.Vertical)
	case edgeRequest:
		return m.NearestEdge(req.X, req.Y), nil
	case stateRequest:
		return m.State(), nil
	case renderRequest:
		src := m.Source()
		if src == nil {
			return nil, inset.ErrNoSource
		}
		return compose.Render(src, compose.ParamsOf(m.State()), req.Size, req.Options)
	case canvasRequest:
		return debug.Canvas(m.Source(), m.State()), nil
	case descriptorRequest:
		if m.Source() == nil {
			return nil, inset.ErrNoSource
		}
		return manifest.Build(compose.ParamsOf(m.State()), req.Target)
	case exportRequest:
		src := m.Source()
		if src == nil {
			return nil, inset.ErrNoSource
		}
		return export.Export(req.Ctx, src, compose.ParamsOf(m.State()), req.Options)
	}
	return nil, fmt.Errorf("unknown request %T", req)
}

// do submits req and waits for its response.
func (s *Session) do(ctx context.Context, req interface{}) (interface{}, error) {
	reply := make(chan response, 1)
	select {
	case s.requests <- request{Value: req, Reply: reply}:
		patchkit.Logger().Debug("session request dispatched", "request", fmt.Sprintf("%T", req))
	case <-s.quit:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	resp := <-reply
	if resp.Err != nil {
		patchkit.Logger().Debug("session request failed",
			"request", fmt.Sprintf("%T", req), "error", resp.Err)
	}
	return resp.Value, resp.Err
}

// Attach hands src to the session, releasing the previously attached
// bitmap. On error src is not retained.
func (s *Session) Attach(ctx context.Context, src inset.Bitmap, scale ninepatch.Scale) error {
	_, err := s.do(ctx, attachRequest{Source: src, Scale: scale})
	return err
}

func (s *Session) SetScale(ctx context.Context, scale ninepatch.Scale) error {
	_, err := s.do(ctx, scaleRequest{Scale: scale})
	return err
}

func (s *Session) SetMode(ctx context.Context, mode ninepatch.Mode, center ninepatch.CenterMode) error {
	_, err := s.do(ctx, modeRequest{Mode: mode, Center: center})
	return err
}

// SetInsets applies p, letting the named edges give way on overflow.
func (s *Session) SetInsets(ctx context.Context, p inset.Patch, horizontal, vertical inset.Edge) error {
	_, err := s.do(ctx, insetsRequest{Patch: p, Horizontal: horizontal, Vertical: vertical})
	return err
}

// NearestEdge reports the inset edge closest to the canvas point (x, y).
func (s *Session) NearestEdge(ctx context.Context, x, y float64) (inset.Edge, error) {
	v, err := s.do(ctx, edgeRequest{X: x, Y: y})
	if err != nil {
		return 0, err
	}
	return v.(inset.Edge), nil
}

// State returns a snapshot of the model.
func (s *Session) State(ctx context.Context) (inset.State, error) {
	v, err := s.do(ctx, stateRequest{})
	if err != nil {
		return inset.State{}, err
	}
	return v.(inset.State), nil
}

// Render composes the attached source at size.
func (s *Session) Render(ctx context.Context, size image.Point, opts compose.Options) (*image.NRGBA, error) {
	v, err := s.do(ctx, renderRequest{Size: size, Options: opts})
	if err != nil {
		return nil, err
	}
	return v.(*image.NRGBA), nil
}

// Canvas renders the annotated preview of the current state.
func (s *Session) Canvas(ctx context.Context) (*image.NRGBA, error) {
	v, err := s.do(ctx, canvasRequest{})
	if err != nil {
		return nil, err
	}
	return v.(*image.NRGBA), nil
}

// Descriptor builds the resizing descriptor for the target scale.
func (s *Session) Descriptor(ctx context.Context, target ninepatch.Scale) (manifest.Descriptor, error) {
	v, err := s.do(ctx, descriptorRequest{Target: target})
	if err != nil {
		return manifest.Descriptor{}, err
	}
	return v.(manifest.Descriptor), nil
}

// Export produces the asset bundle of the current state. Cancelling ctx
// after the request was accepted does not abort it.
func (s *Session) Export(ctx context.Context, opts export.Options) (*export.Bundle, error) {
	v, err := s.do(ctx, exportRequest{Ctx: context.WithoutCancel(ctx), Options: opts})
	if err != nil {
		return nil, err
	}
	return v.(*export.Bundle), nil
}

// Close stops the session and releases the attached bitmap. Requests
// accepted before Close still complete. Close is idempotent.
func (s *Session) Close() error {
	s.closing.Do(func() {
		close(s.quit)
	})
	<-s.done
	return nil
}
