package project

import (
	"context"
	"io"

	"github.com/sensmetry/sysand/internal/model"
)

// AsyncProjectRead mirrors ProjectRead for the cooperative stack: every
// blocking call instead takes a context.Context, the idiomatic Go stand-in
// for the "supplied cooperative executor" of §5 (Go has no user-level
// coroutine scheduler, so cancellation is modeled the way the rest of the
// corpus does concurrency — context.Context plus goroutines, not a custom
// executor type).
type AsyncProjectRead interface {
	GetProject(ctx context.Context) (*model.Info, *model.Meta, error)
	ReadSource(ctx context.Context, path string) (io.ReadCloser, error)
	Sources(ctx context.Context) ([]model.Source, error)
	IsDefinitelyInvalid(ctx context.Context) bool
}

// AsAsync adapts a ProjectRead to the async interface. Per §5, this
// adapter never performs work lazily on a foreign goroutine: each call
// runs the synchronous operation directly. GetProject, ReadSource and
// Sources return early if ctx is already canceled; IsDefinitelyInvalid
// does not consult ctx.
type AsAsync struct {
	Sync ProjectRead
}

func (a AsAsync) GetProject(ctx context.Context) (*model.Info, *model.Meta, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return a.Sync.GetProject()
}

func (a AsAsync) ReadSource(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.Sync.ReadSource(path)
}

func (a AsAsync) Sources(ctx context.Context) ([]model.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.Sync.Sources()
}

func (a AsAsync) IsDefinitelyInvalid(ctx context.Context) bool {
	return a.Sync.IsDefinitelyInvalid()
}

// AsSync adapts an AsyncProjectRead back to the blocking interface,
// running each call against Ctx, or context.Background when Ctx is nil,
// adding no deadline of its own: the caller's goroutine blocks until the async
// operation completes, matching "the async→sync adapter blocks the
// current thread on the supplied executor".
type AsSync struct {
	Async AsyncProjectRead
	Ctx   context.Context
}

func (s AsSync) GetProject() (*model.Info, *model.Meta, error) {
	return s.Async.GetProject(s.ctx())
}

func (s AsSync) ReadSource(path string) (io.ReadCloser, error) {
	return s.Async.ReadSource(s.ctx(), path)
}

func (s AsSync) Sources() ([]model.Source, error) {
	return s.Async.Sources(s.ctx())
}

func (s AsSync) IsDefinitelyInvalid() bool {
	return s.Async.IsDefinitelyInvalid(s.ctx())
}

func (s AsSync) ctx() context.Context {
	if s.Ctx != nil {
		return s.Ctx
	}
	return context.Background()
}

var (
	_ ProjectRead      = AsSync{}
	_ AsyncProjectRead = AsAsync{}
)
