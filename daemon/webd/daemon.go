package webd

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/olahol/melody"
	"github.com/rotblauer/transectd/api"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/source"
	"github.com/rotblauer/transectd/types/fix"
	"github.com/rotblauer/transectd/types/poi"
)

// Catalog is the read side of the POI store the daemon serves.
// state.Store and state.Memory both provide it.
type Catalog interface {
	ListPOIs() ([]poi.POI, error)
}

// WebDaemon is the HTTP face of one recorder: devices POST fixes to
// /populate, maps read /track and /pois, and the websocket pushes live
// updates. It owns no recording state itself; everything routes through
// the recorder and its feeds.
type WebDaemon struct {
	Config         *params.WebDaemonConfig
	logger         *slog.Logger
	started        time.Time
	recorder       *api.Recorder
	push           *source.Push
	catalog        Catalog
	melodyInstance *melody.Melody
	feedPopulated  event.FeedOf[[]fix.Fix]
}

// NewWebDaemon wires the HTTP surface to a recorder. The push source
// must be the one the recorder consumes; /populate feeds it. A nil
// catalog disables /pois.
func NewWebDaemon(config *params.WebDaemonConfig, rec *api.Recorder, push *source.Push, catalog Catalog) *WebDaemon {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	s := &WebDaemon{
		Config:   config,
		recorder: rec,
		push:     push,
		catalog:  catalog,

		logger:        slog.With("d", "web"),
		started:       time.Now(),
		feedPopulated: event.FeedOf[[]fix.Fix]{},
	}
	s.initMelody()
	return s
}

// Run starts the HTTP server (ListenAndServe) and waits for it,
// returning any server error.
func (s *WebDaemon) Run() error {
	router := s.NewRouter()
	listeningOn := s.Config.Address
	log.Printf("Starting web daemon on %s", listeningOn)
	return http.ListenAndServe(listeningOn, router)
}

func (s *WebDaemon) NewRouter() *mux.Router {

	/*
		StrictSlash defines the trailing slash behavior for new routes. The initial value is false.
		When true, if the route path is "/path/", accessing "/path" will perform a redirect to the former and vice versa. In other words, your application will always see the path as specified in the route.
		When false, if the route path is "/path", accessing "/path/" will not match this route and vice versa.
		The re-direct is a HTTP 301 (Moved Permanently). Note that when this is set for routes with a non-idempotent method (e.g. POST, PUT), the subsequent re-directed request will be made as a GET by most clients. Use middleware or client settings to modify this behaviour as needed.
	*/
	router := mux.NewRouter().StrictSlash(false)
	router.Use(loggingMiddleware)

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	// Websocket. The server pushes, clients listen.
	apiRoutes.Path("/sotran").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = s.melodyInstance.HandleRequest(w, r)
	})

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	jsonMiddleware := contentTypeMiddlewareFunc("application/json")
	apiJSONRoutes.Use(jsonMiddleware)

	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet)
	apiJSONRoutes.Path("/last").HandlerFunc(s.handleLastKnown).Methods(http.MethodGet)
	apiJSONRoutes.Path("/track").HandlerFunc(s.handleTrack).Methods(http.MethodGet)
	apiJSONRoutes.Path("/pois").HandlerFunc(s.handlePOIs).Methods(http.MethodGet)

	authenticatedAPIRoutes := apiJSONRoutes.NewRoute().Subrouter()
	authenticatedAPIRoutes.Use(s.tokenAuthenticationMiddleware)

	populateRoutes := authenticatedAPIRoutes.NewRoute().Subrouter()

	populateRoutes.Path("/populate/").HandlerFunc(s.handlePopulate).Methods(http.MethodPost)
	populateRoutes.Path("/populate").HandlerFunc(s.handlePopulate).Methods(http.MethodPost)

	return router
}
