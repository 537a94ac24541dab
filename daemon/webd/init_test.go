package webd

import (
	"context"
	"os"

	"github.com/rotblauer/transectd/api"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/source"
	"github.com/rotblauer/transectd/state"
	"github.com/rotblauer/transectd/types/poi"
)

// newTestWebDaemon creates a WebDaemon for testing, backed by an
// in-memory POI catalog and a recorder already consuming the push
// source. If datadir is empty, one will be provided for you.
func newTestWebDaemon(datadir string, pois ...poi.POI) (daemon *WebDaemon, teardown func() error) {
	config := params.DefaultTestWebDaemonConfig()
	if datadir != "" {
		config.DataDir = datadir
	} else {
		tmpd, err := os.MkdirTemp(os.TempDir(), "transectd-webd-test")
		if err != nil {
			panic(err)
		}
		config.DataDir = tmpd
	}

	catalog := state.NewMemory(pois...)
	push := source.NewPush(params.DefaultFixBufferSize)
	rec := api.NewRecorder(nil, catalog, nil)
	if err := rec.Start(context.Background(), push); err != nil {
		panic(err)
	}

	daemon = NewWebDaemon(config, rec, push, catalog)
	teardown = func() error {
		rec.Close()
		return os.RemoveAll(config.DataDir)
	}
	return daemon, teardown
}
