package repo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/metrics"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	json              = jsoniter.ConfigCompatibleWithStandardLibrary
	ErrUpdateRejected = errors.New("update rejected: queue full")
)

type updateResponse struct {
	repoRuntime int64
	err         error
}

func (r *Repo) PollRoutine(ctx context.Context) error {
	l := r.l.Named("routine.poll")
	ticker := time.NewTicker(r.pollInterval)
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			chanReponse := make(chan updateResponse)
			r.updateInProgressChannel <- chanReponse
			response := <-chanReponse
			if response.err == nil {
				l.Info("update success", zap.String("revision", r.pollVersion))
			} else {
				l.Error("update failed", zap.Error(response.err))
			}
		}
	}
}

func (r *Repo) UpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.update")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case resChan := <-r.updateInProgressChannel:
			start := time.Now()
			l := l.With(zap.String("run_id", uuid.New().String()))

			l.Info("update started")

			repoRuntime, err := r.update(context.WithoutCancel(ctx))
			if err != nil {
				l.Error("update failed", zap.Error(err))
				metrics.UpdatesFailedCounter.WithLabelValues().Inc()
			} else {
				if !r.Loaded() {
					r.loaded.Store(true)
					l.Info("initial update success")
					if r.onLoaded != nil {
						r.onLoaded()
					}
				} else {
					l.Info("update success")
				}
				metrics.UpdatesCompletedCounter.WithLabelValues().Inc()
			}

			resChan <- updateResponse{
				repoRuntime: repoRuntime,
				err:         err,
			}

			metrics.UpdateDuration.WithLabelValues().Observe(time.Since(start).Seconds())
		}
	}
}

func (r *Repo) SiteUpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.siteUpdate")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled",
				zap.Error(ctx.Err()),
			)
			return nil
		case newSite := <-r.siteUpdateChannel:
			l.Debug("received a new site", zap.String("site", newSite.Key))

			err := r._updateSite(newSite)
			if err != nil {
				l.Debug("update failed", zap.Error(err))
			}
			r.siteUpdateDoneChannel <- err
		}
	}
}

func (r *Repo) updateSite(site *content.Site) error {
	r.l.Debug("trying to push site into update channel", zap.String("site", site.Key))
	r.siteUpdateChannel <- site
	r.l.Debug("waiting for done signal")
	return <-r.siteUpdateDoneChannel
}

// do not call directly, but only through channel
func (r *Repo) _updateSite(site *content.Site) error {
	index, err := buildSiteIndex(site)
	if err != nil {
		return errors.Wrapf(err, "update of site %q failed when building its index", site.Key)
	}

	// copy old datastructure to prevent concurrent map access
	// collect the other sites in the directory
	newDirectory := map[string]*SiteIndex{}
	for key, existing := range r.Directory() {
		if key != site.Key {
			newDirectory[key] = existing
		}
	}

	// add the new site
	newDirectory[site.Key] = index
	r.SetDirectory(newDirectory)

	return nil
}

func (r *Repo) loadSitesFromJSON() (sites map[string]*content.Site, err error) {
	sites = make(map[string]*content.Site)
	err = json.Unmarshal(r.JSONBufferBytes(), &sites)
	if err != nil {
		r.l.Error("Failed to deserialize sites", zap.Error(err))
		return nil, errors.New("failed to deserialize sites")
	}
	for key, site := range sites {
		if site.Key == "" {
			site.Key = key
		}
	}
	return sites, nil
}

func (r *Repo) tryToRestoreCurrent() error {
	buffer := &bytes.Buffer{}
	err := r.history.GetCurrent(context.Background(), buffer)
	if err != nil {
		return err
	}
	r.SetJSONBuffer(buffer)
	return r.loadJSONBytes()
}

func (r *Repo) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create get repo request")
	}
	response, err := r.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to get repo")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return errors.Errorf("bad response code from repository %q want %q", response.Status, http.StatusOK)
	}

	buffer := &bytes.Buffer{}

	_, err = io.Copy(buffer, response.Body)
	if err != nil {
		return errors.Wrap(err, "failed to copy IO stream")
	}
	r.SetJSONBuffer(buffer)

	return nil
}

func (r *Repo) update(ctx context.Context) (repoRuntime int64, err error) {
	startTimeRepo := time.Now().UnixNano()

	repoURL := r.url
	if r.poll {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
		if err != nil {
			return repoRuntime, err
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return repoRuntime, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return repoRuntime, errors.New("could not poll latest repo download url - non 200 response")
		}
		responseBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return repoRuntime, errors.New("could not poll latest repo download url, could not read body")
		}
		repoURL = string(responseBytes)
		if repoURL == r.pollVersion {
			r.l.Info(
				"repo is up to date",
				zap.String("pollVersion", r.pollVersion),
			)
			// already up to date
			return repoRuntime, nil
		}
		r.l.Info(
			"new repo poll version",
			zap.String("pollVersion", r.pollVersion),
		)
	}

	err = r.get(ctx, repoURL)
	repoRuntime = time.Now().UnixNano() - startTimeRepo
	if err != nil {
		// we have no json to load - the repo server did not reply
		r.l.Debug("failed to load json", zap.Error(err))
		return repoRuntime, err
	}
	r.l.Debug("loading json", zap.String("server", repoURL), zap.Int("length", len(r.JSONBufferBytes())))
	sites, err := r.loadSitesFromJSON()
	if err != nil {
		// could not load sites from json
		return repoRuntime, err
	}
	err = r.loadSites(sites)
	if err != nil {
		// repo failed to load sites
		return repoRuntime, err
	}
	if r.poll {
		r.pollVersion = repoURL
	}
	return repoRuntime, nil
}

// limit ressources and allow only one update request at once
func (r *Repo) tryUpdate() (repoRuntime int64, err error) {
	c := make(chan updateResponse)
	select {
	case r.updateInProgressChannel <- c:
		r.l.Debug("update request added to queue")
		ur := <-c
		return ur.repoRuntime, ur.err
	default:
		r.l.Info("update request rejected, another update is already in progress")
		return 0, ErrUpdateRejected
	}
}

func (r *Repo) loadJSONBytes() error {
	sites, err := r.loadSitesFromJSON()
	if err != nil {
		data := r.JSONBufferBytes()

		if len(data) > 10 {
			r.l.Debug("could not parse json",
				zap.String("jsonStart", string(data[:10])),
				zap.String("jsonEnd", string(data[len(data)-10:])),
			)
		}
		return err
	}

	err = r.loadSites(sites)
	if err == nil {
		errHistory := r.history.Add(context.Background(), r.JSONBufferBytes())
		if errHistory != nil {
			r.l.Error("Could not add valid JSON to history", zap.Error(errHistory))
			metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
		} else {
			r.l.Info("added valid JSON to history")
		}
	}
	return err
}

func (r *Repo) loadSites(newSites map[string]*content.Site) error {
	var err error
	newKeys := make([]string, 0, len(newSites))
	for key, newSite := range newSites {
		newKeys = append(newKeys, key)
		r.l.Debug("loading site", zap.String("site", key))
		errLoad := r.updateSite(newSite)
		if errLoad != nil {
			err = multierr.Append(err, errLoad)
		}
	}
	if err != nil {
		return errors.Wrap(err, "failed to update site")
	}
	siteIsValid := func(key string) bool {
		for _, newKey := range newKeys {
			if key == newKey {
				return true
			}
		}
		return false
	}
	// we need to throw away orphaned sites
	directory := map[string]*SiteIndex{}
	for key, value := range r.Directory() {
		if !siteIsValid(key) {
			r.l.Info("removing orphaned site", zap.String("site", key))
			continue
		}
		directory[key] = value
	}
	r.SetDirectory(directory)
	return nil
}
