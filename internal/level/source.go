package level

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"golang.org/x/sync/singleflight"
)

//go:generate go tool mockgen -destination=./mocks/fetcher_mock.go -package=mocks . Fetcher

// Fetcher resolves a level name to the raw level document.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// ErrNotFound is returned by a Fetcher when no level has the given name.
var ErrNotFound = errors.New("level not found")

// LoadError describes a failed fetch-then-parse of a named level.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load level %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

//go:embed builtin/*.json
var builtinFS embed.FS

// Builtin returns a Fetcher over the levels compiled into the binary.
func Builtin() *FSFetcher {
	return &FSFetcher{FS: builtinFS, Dir: "builtin"}
}

// FSFetcher reads <Dir>/<name>.json from FS.
type FSFetcher struct {
	FS  fs.FS
	Dir string
}

// Fetch implements Fetcher.
func (f *FSFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validName(name) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}
	data, err := fs.ReadFile(f.FS, path.Join(f.Dir, name+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// HTTPFetcher GETs <BaseURL>/<name>.json.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}
	u, err := url.JoinPath(f.BaseURL, name+".json")
	if err != nil {
		return nil, fmt.Errorf("build level url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Chain tries each Fetcher in order, moving on only when a fetcher reports
// ErrNotFound.
type Chain []Fetcher

// Fetch implements Fetcher.
func (c Chain) Fetch(ctx context.Context, name string) ([]byte, error) {
	for _, f := range c {
		data, err := f.Fetch(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return data, err
	}
	return nil, ErrNotFound
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}

// Source loads levels by name. Concurrent loads of the same name share a
// single fetch.
type Source struct {
	fetcher Fetcher
	group   singleflight.Group
}

// NewSource returns a Source backed by f.
func NewSource(f Fetcher) *Source {
	return &Source{fetcher: f}
}

// Load fetches and decodes the named level. Every failure is a *LoadError.
//
// The shared fetch does not inherit any one caller's cancellation, so a
// caller that gives up never fails the others waiting on the same name.
func (s *Source) Load(ctx context.Context, name string) (*Level, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(name, func() (any, error) {
		data, err := s.fetcher.Fetch(fetchCtx, name)
		if err != nil {
			return nil, err
		}
		return Decode(data)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		s.group.Forget(name)
		return nil, &LoadError{Name: name, Err: ctx.Err()}
	}
	if res.Err != nil {
		return nil, &LoadError{Name: name, Err: res.Err}
	}
	lvl := res.Val.(*Level)
	if lvl.Name == "" {
		cp := *lvl
		cp.Name = name
		lvl = &cp
	}
	return lvl, nil
}
