package repo

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/metrics"
	"github.com/foomo/contentreports/responses"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownSite the requested site is not part of the repository
	ErrUnknownSite = errors.New("unknown site")
	// ErrNodeNotFound no node matches the requested id or path
	ErrNodeNotFound = errors.New("node not found")
)

// Repo content repository
type (
	Repo struct {
		l                       *zap.Logger
		url                     string
		poll                    bool
		pollInterval            time.Duration
		pollVersion             string
		onLoaded                func()
		loaded                  *atomic.Bool
		history                 *History
		httpClient              *http.Client
		siteUpdateChannel       chan *content.Site
		siteUpdateDoneChannel   chan error
		updateInProgressChannel chan chan updateResponse
		directory               map[string]*SiteIndex
		directoryLock           sync.RWMutex
		jsonBuffer              *bytes.Buffer
		jsonBufferLock          sync.RWMutex
	}
	Option func(*Repo)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, url string, history *History, opts ...Option) *Repo {
	inst := &Repo{
		l:                       l.Named("repo"),
		url:                     url,
		poll:                    false,
		loaded:                  &atomic.Bool{},
		pollInterval:            time.Minute,
		history:                 history,
		httpClient:              http.DefaultClient,
		directory:               map[string]*SiteIndex{},
		siteUpdateChannel:       make(chan *content.Site),
		siteUpdateDoneChannel:   make(chan error),
		updateInProgressChannel: make(chan chan updateResponse),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// NewStatic a repository preloaded with the given sites. It serves queries
// without a content url, used by tests and embedded consumers.
func NewStatic(l *zap.Logger, sites map[string]*content.Site) (*Repo, error) {
	inst := New(l, "", nil)
	directory := map[string]*SiteIndex{}
	for key, site := range sites {
		if site.Key == "" {
			site.Key = key
		}
		index, err := buildSiteIndex(site)
		if err != nil {
			return nil, err
		}
		directory[key] = index
	}
	inst.SetDirectory(directory)
	inst.loaded.Store(true)
	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Repo) {
		o.httpClient = v
	}
}

func WithPoll(v bool) Option {
	return func(o *Repo) {
		o.poll = v
	}
}

func WithPollInterval(v time.Duration) Option {
	return func(o *Repo) {
		o.pollInterval = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (r *Repo) Loaded() bool {
	return r.loaded.Load()
}

func (r *Repo) Directory() map[string]*SiteIndex {
	r.directoryLock.RLock()
	defer r.directoryLock.RUnlock()
	return r.directory
}

func (r *Repo) SetDirectory(v map[string]*SiteIndex) {
	r.directoryLock.Lock()
	defer r.directoryLock.Unlock()
	r.directory = v
}

func (r *Repo) JSONBufferBytes() []byte {
	r.jsonBufferLock.RLock()
	defer r.jsonBufferLock.RUnlock()
	if r.jsonBuffer == nil {
		return nil
	}
	return r.jsonBuffer.Bytes()
}

func (r *Repo) SetJSONBuffer(v *bytes.Buffer) {
	r.jsonBufferLock.Lock()
	defer r.jsonBufferLock.Unlock()
	r.jsonBuffer = v
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) OnLoaded(fn func()) {
	r.onLoaded = fn
}

// Sites all sites of the repository in stable key order
func (r *Repo) Sites() []*content.Site {
	directory := r.Directory()
	keys := make([]string, 0, len(directory))
	for key := range directory {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	sites := make([]*content.Site, 0, len(keys))
	for _, key := range keys {
		sites = append(sites, directory[key].Site)
	}
	return sites
}

// Site the site for a key
func (r *Repo) Site(key string) (*content.Site, error) {
	index, ok := r.Directory()[key]
	if !ok {
		return nil, errors.Wrap(ErrUnknownSite, key)
	}
	return index.Site, nil
}

// NodeByPath the node at the given path of a site
func (r *Repo) NodeByPath(siteKey, path string) (*content.Node, error) {
	index, ok := r.Directory()[siteKey]
	if !ok {
		return nil, errors.Wrap(ErrUnknownSite, siteKey)
	}
	node, ok := index.PathDirectory[path]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "no node at path %q in site %q", path, siteKey)
	}
	return node, nil
}

// NodeByID looks a node up by id across all sites
func (r *Repo) NodeByID(id string) (string, *content.Node, error) {
	directory := r.Directory()
	keys := make([]string, 0, len(directory))
	for key := range directory {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if node, ok := directory[key].Directory[id]; ok {
			return key, node, nil
		}
	}
	return "", nil, errors.Wrap(ErrNodeNotFound, id)
}

// QueryNodes evaluates the query against the directory current at call time
// and returns the requested window in stable order. A limit < 0 disables
// windowing.
func (r *Repo) QueryNodes(ctx context.Context, q Query, offset, limit int) ([]*content.Node, error) {
	matched, err := r.evaluate(ctx, q)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count evaluates the query without a window. Count and QueryNodes are two
// independent evaluations, there is no snapshot isolation between them.
func (r *Repo) Count(ctx context.Context, q Query) (int, error) {
	matched, err := r.evaluate(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (r *Repo) Update() (updateResponse *responses.Update) {
	floatSeconds := func(nanoSeconds int64) float64 {
		return float64(nanoSeconds) / float64(1000000000)
	}

	r.l.Info("Update triggered")

	start := time.Now()
	updateRepotime, err := r.tryUpdate()
	updateResponse = &responses.Update{}
	updateResponse.Stats.RepoRuntime = floatSeconds(updateRepotime)

	if err != nil {
		updateResponse.Success = false
		updateResponse.Stats.NumberOfNodes = -1
		updateResponse.Stats.NumberOfSites = -1

		// only try to restore if the update failed during processing
		if !errors.Is(err, ErrUpdateRejected) {
			updateResponse.ErrorMessage = err.Error()
			r.l.Error("Failed to update repository", zap.Error(err))

			restoreErr := r.tryToRestoreCurrent()
			if restoreErr != nil {
				r.l.Error("Failed to restore preceding repository version", zap.Error(restoreErr))
			} else {
				r.l.Info("Successfully restored current repository from local history")
			}
		}
	} else {
		updateResponse.Success = true
		// persist the currently loaded one
		historyErr := r.history.Add(context.Background(), r.JSONBufferBytes())
		if historyErr != nil {
			r.l.Error("Could not persist current repo in history", zap.Error(historyErr))
			metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
		} else {
			r.l.Info("Successfully persisted current repo to history")
		}
		// add some stats
		for _, index := range r.Directory() {
			updateResponse.Stats.NumberOfNodes += len(index.Directory)
			updateResponse.Stats.NumberOfSites++
		}
	}
	updateResponse.Stats.OwnRuntime = floatSeconds(time.Since(start).Nanoseconds()) - updateResponse.Stats.RepoRuntime
	return updateResponse
}

func (r *Repo) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	l := r.l.Named("start")

	up := make(chan bool, 1)
	g.Go(func() error {
		l.Debug("starting update routine")
		up <- true
		return r.UpdateRoutine(gCtx)
	})
	l.Debug("waiting for UpdateRoutine")
	<-up

	g.Go(func() error {
		l.Debug("starting site update routine")
		up <- true
		return r.SiteUpdateRoutine(gCtx)
	})
	l.Debug("waiting for SiteUpdateRoutine")
	<-up

	l.Debug("trying to restore previous repo")
	if err := r.tryToRestoreCurrent(); errors.Is(err, os.ErrNotExist) {
		l.Info("previous repo content file does not exist")
	} else if err != nil {
		l.Warn("could not restore previous repo content", zap.Error(err))
	} else {
		l.Info("restored previous repo")
	}

	if r.poll {
		g.Go(func() error {
			l.Debug("starting poll routine")
			return r.PollRoutine(gCtx)
		})
	}

	if !r.Loaded() {
		l.Debug("trying to update initial state")
		if resp := r.Update(); !resp.Success {
			l.Error("failed to update initial state",
				zap.String("error", resp.ErrorMessage),
				zap.Int("num_nodes", resp.Stats.NumberOfNodes),
				zap.Int("num_sites", resp.Stats.NumberOfSites),
				zap.Float64("own_runtime", resp.Stats.OwnRuntime),
				zap.Float64("repo_runtime", resp.Stats.RepoRuntime),
			)
		}
	}

	return g.Wait()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) evaluate(ctx context.Context, q Query) ([]*content.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	index, ok := r.Directory()[q.Site]
	if !ok {
		return nil, errors.Wrap(ErrUnknownSite, q.Site)
	}
	var matched []*content.Node
	for _, node := range index.candidates(q) {
		if q.matches(node) {
			matched = append(matched, node)
		}
	}
	if q.OrderBy != "" || q.Descending {
		sortNodes(matched, q.OrderBy, q.Descending)
	}
	return matched, nil
}
