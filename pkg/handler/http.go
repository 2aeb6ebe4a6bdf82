package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/foomo/contentreports/pkg/metrics"
	"github.com/foomo/contentreports/pkg/repo"
	"github.com/foomo/contentreports/pkg/reports"
	"github.com/foomo/contentreports/requests"
	"github.com/foomo/contentreports/responses"
	httputils "github.com/foomo/keel/utils/net/http"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	HTTP struct {
		l       *zap.Logger
		path    string
		repo    *repo.Repo
		catalog *reports.Catalog
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns a shiny new web server
func NewHTTP(l *zap.Logger, repo *repo.Repo, catalog *reports.Catalog, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:       l.Named("http"),
		path:    "/contentreports",
		repo:    repo,
		catalog: catalog,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithPath(v string) HTTPOption {
	return func(o *HTTP) {
		o.path = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputils.ServerError(h.l, w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	if r.Body == nil {
		httputils.BadRequestServerError(h.l, w, r, errors.New("empty request body"))
		return
	}

	bytes, err := io.ReadAll(r.Body)
	if err != nil {
		httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read incoming request"))
		return
	}

	route := Route(strings.TrimPrefix(r.URL.Path, h.path+"/"))
	reply, errReply := h.handleRequest(r.Context(), route, bytes, "webserver")
	if errReply != nil {
		http.Error(w, errReply.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(reply)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) handleRequest(ctx context.Context, route Route, jsonBytes []byte, source string) ([]byte, error) {
	start := time.Now()

	reply, err := h.executeRequest(ctx, route, jsonBytes)
	result := "success"
	if err != nil {
		result = "error"
	}

	metrics.ServiceRequestCounter.WithLabelValues(string(route), result, source).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(string(route), result, source).Observe(time.Since(start).Seconds())

	return reply, err
}

func (h *HTTP) executeRequest(ctx context.Context, route Route, jsonBytes []byte) (replyBytes []byte, err error) {
	var (
		reply             interface{}
		apiErr            error
		jsonErr           error
		processIfJSONIsOk = func(err error, processingFunc func()) {
			if err != nil {
				jsonErr = err
				return
			}
			processingFunc()
		}
	)

	// handle and process
	switch route {
	case RouteOverview:
		overviewRequest := &requests.Overview{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &overviewRequest), func() {
			reply, apiErr = h.runReport(ctx, requests.RawReport{
				Site:     overviewRequest.Site,
				ReportID: "17",
				Language: overviewRequest.Language,
			})
		})
	case RouteRawReport:
		rawReportRequest := &requests.RawReport{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &rawReportRequest), func() {
			reply, apiErr = h.runReport(ctx, *rawReportRequest)
		})
	case RouteSites:
		sitesRequest := &requests.Sites{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &sitesRequest), func() {
			reply = h.sites()
		})
	case RouteUpdate:
		updateRequest := &requests.Update{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &updateRequest), func() {
			reply = h.repo.Update()
		})
	default:
		reply = responses.NewError(1, "unknown route: "+string(route))
	}

	// error handling
	if jsonErr != nil {
		h.l.Error("could not read incoming json", zap.Error(jsonErr))
		reply = responses.NewError(2, "could not read incoming json "+jsonErr.Error())
	} else if apiErr != nil {
		h.l.Error("an API error occurred", zap.Error(apiErr))
		switch {
		case errors.Is(apiErr, reports.ErrUnknownReport):
			reply = responses.NewError(4, apiErr.Error())
		case errors.Is(apiErr, repo.ErrUnknownSite):
			reply = responses.NewError(5, apiErr.Error())
		default:
			reply = responses.NewError(3, "internal error "+apiErr.Error())
		}
	}

	return h.encodeReply(reply)
}

func (h *HTTP) runReport(ctx context.Context, req requests.RawReport) (map[string]interface{}, error) {
	start := time.Now()

	// a missing limit returns everything
	if req.Limit == 0 {
		req.Limit = -1
	}

	site, err := h.repo.Site(req.Site)
	if err != nil {
		return nil, err
	}
	aggregate, err := h.catalog.Build(site, req.ReportID, reports.Parameters(req.Parameters), req.Language, req.SortColumn, req.SortDirection)
	if err != nil {
		metrics.ReportRequestCounter.WithLabelValues(req.ReportID, "error").Inc()
		return nil, err
	}
	if err := aggregate.Execute(ctx, h.repo, req.Offset, req.Limit); err != nil {
		metrics.ReportRequestCounter.WithLabelValues(req.ReportID, "error").Inc()
		return nil, err
	}

	metrics.ReportRequestCounter.WithLabelValues(req.ReportID, "success").Inc()
	metrics.ReportDuration.WithLabelValues(req.ReportID).Observe(time.Since(start).Seconds())
	return aggregate.Payload(), nil
}

func (h *HTTP) sites() []responses.Site {
	sites := h.repo.Sites()
	reply := make([]responses.Site, 0, len(sites))
	for _, site := range sites {
		reply = append(reply, responses.Site{
			Key:             site.Key,
			Name:            site.Name,
			DisplayName:     site.DisplayName,
			DefaultLanguage: site.DefaultLanguage,
			Languages:       site.Languages,
		})
	}
	return reply
}

// encodeReply takes an interface and encodes it as JSON
// it returns the resulting JSON and a marshalling error
func (h *HTTP) encodeReply(reply interface{}) (bytes []byte, err error) {
	bytes, err = json.Marshal(map[string]interface{}{
		"reply": reply,
	})
	if err != nil {
		h.l.Error("could not encode reply", zap.Error(err))
	}
	return
}
