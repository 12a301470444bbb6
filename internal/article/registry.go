package article

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jerradgenson/auteur/internal/fileio"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

// Registry is the ordered collection of all articles, ascending by
// publication date. It is constructed once at program entry and passed by
// reference; mutations stay in memory until Commit writes them back.
//
// Single-writer assumption: no locking, no cross-process coordination.
type Registry struct {
	path       string
	articles   []*Article
	registered map[uuid.UUID]struct{}
	logger     interfaces.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger attaches a logger to the registry. Defaults to a no-op.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns an empty registry that persists to path.
func New(path string, opts ...Option) *Registry {
	r := &Registry{
		path:       path,
		registered: map[uuid.UUID]struct{}{},
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads the registry file at path. A missing or unreadable file yields
// an empty registry, not an error; a fresh project has no registry yet.
// A file that exists but does not decode yields a CorruptStateError.
func Load(path string, opts ...Option) (*Registry, error) {
	r := New(path, opts...)

	text, err := fileio.ReadFile(path)
	if err != nil {
		if fileio.Exists(path) {
			r.logger.Warn("registry file unreadable, starting empty", "path", path, "error", err)
		} else {
			r.logger.Debug("registry file absent, starting empty", "path", path)
		}
		return r, nil
	}

	var records []record
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, &CorruptStateError{Path: path, Err: err}
	}

	for _, rec := range records {
		a, err := fromRecord(rec)
		if err != nil {
			return nil, &CorruptStateError{Path: path, Err: err}
		}
		r.articles = append(r.articles, a)
		r.registered[a.ID()] = struct{}{}
	}

	r.logger.Debug("registry loaded", "path", path, "articles", len(r.articles))
	return r, nil
}

// Path returns the file the registry persists to.
func (r *Registry) Path() string {
	return r.path
}

// Len returns the number of registered articles.
func (r *Registry) Len() int {
	return len(r.articles)
}

// At returns the article at index i in chronological order.
func (r *Registry) At(i int) *Article {
	return r.articles[i]
}

// Articles returns the articles in ascending chronological order. The slice
// is a copy; the articles are shared.
func (r *Registry) Articles() []*Article {
	out := make([]*Article, len(r.articles))
	copy(out, r.articles)
	return out
}

// Insert registers a and splices it into sorted position. The scan uses
// strict less-than, so an article whose date ties an existing entry lands
// after it (stable insertion). An existing entry with the same target is
// removed first; re-adding an article updates it instead of duplicating it.
func (r *Registry) Insert(a *Article) {
	if i, err := r.Find(a.Target, false); err == nil {
		old := r.articles[i]
		r.articles = append(r.articles[:i], r.articles[i+1:]...)
		delete(r.registered, old.ID())
		r.logger.Debug("replacing registry entry", "target", a.Target, "title", old.Title)
	}

	idx := len(r.articles)
	for i, existing := range r.articles {
		if a.PublicationDate.Before(existing.PublicationDate) {
			idx = i
			break
		}
	}

	r.articles = append(r.articles, nil)
	copy(r.articles[idx+1:], r.articles[idx:])
	r.articles[idx] = a
	r.registered[a.ID()] = struct{}{}

	r.logger.Debug("article inserted", "target", a.Target, "title", a.Title, "position", idx)
}

// Find returns the index of the entry whose target (or title, when byTitle)
// equals key, or a NotFoundError.
func (r *Registry) Find(key string, byTitle bool) (int, error) {
	for i, a := range r.articles {
		candidate := a.Target
		if byTitle {
			candidate = a.Title
		}
		if candidate == key {
			return i, nil
		}
	}
	return -1, &NotFoundError{Key: key, ByTitle: byTitle}
}

// Remove deletes the entry whose target (or title, when byTitle) equals key
// and returns it. Absent entries yield a NotFoundError.
func (r *Registry) Remove(key string, byTitle bool) (*Article, error) {
	i, err := r.Find(key, byTitle)
	if err != nil {
		return nil, err
	}

	removed := r.articles[i]
	r.articles = append(r.articles[:i], r.articles[i+1:]...)
	delete(r.registered, removed.ID())

	r.logger.Debug("article removed", "target", removed.Target, "title", removed.Title)
	return removed, nil
}

// Previous returns the article immediately before a in chronological order,
// or nil when a is first. The lookup scans by title, the traversal identity;
// an article that was never inserted yields a NotRegisteredError.
func (r *Registry) Previous(a *Article) (*Article, error) {
	if err := r.requireRegistered(a); err != nil {
		return nil, err
	}
	for i, existing := range r.articles {
		if existing.Title == a.Title {
			if i == 0 {
				return nil, nil
			}
			return r.articles[i-1], nil
		}
	}
	return nil, nil
}

// Next returns the article immediately after a in chronological order, or
// nil when a is last. Same identity rules as Previous.
func (r *Registry) Next(a *Article) (*Article, error) {
	if err := r.requireRegistered(a); err != nil {
		return nil, err
	}
	for i, existing := range r.articles {
		if existing.Title == a.Title {
			if i == len(r.articles)-1 {
				return nil, nil
			}
			return r.articles[i+1], nil
		}
	}
	return nil, nil
}

// Commit serializes the full ordered sequence to the registry file,
// overwriting it. Write failures surface as a fileio.FileAccessError.
func (r *Registry) Commit() error {
	records := make([]record, 0, len(r.articles))
	for _, a := range r.articles {
		records = append(records, toRecord(a))
	}

	if err := fileio.WriteJSON(r.path, records); err != nil {
		return err
	}

	r.logger.Debug("registry committed", "path", r.path, "articles", len(records))
	return nil
}

func (r *Registry) requireRegistered(a *Article) error {
	if _, ok := r.registered[a.ID()]; !ok {
		return &NotRegisteredError{Title: a.Title}
	}
	return nil
}
