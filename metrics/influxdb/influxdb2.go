package influxdb

import (
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rotblauer/transectd/notify"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/track"
)

// export runs writes against a fresh Write API client and returns
// the last error encountered during async writes.
func export(writes func(api.WriteAPI)) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.INFLUXDB_URL, params.INFLUXDB_TOKEN, opts)
	writeAPI := client.WriteAPI(params.INFLUXDB_ORG, params.INFLUXDB_BUCKET)

	// Errors returns a channel for reading errors which occurs during async writes.
	// Must be called before performing any writes for errors to be collected.
	// The chan is unbuffered and must be drained or the writer will block.
	// https://github.com/influxdata/influxdb-client-go?tab=readme-ov-file#reading-async-errors
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	writes(writeAPI)

	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}

// ExportTrack posts a survey's track points.
// Because it accepts a slice, use batches. The Write API will buffer and flush.
// The last error encountered is returned.
func ExportTrack(survey string, points []track.TrackPoint) error {
	return export(func(writeAPI api.WriteAPI) {
		for _, tp := range points {
			p := influxdb2.NewPointWithMeasurement("trackpoint").
				SetTime(tp.Time).
				AddTag("survey", survey).
				AddField("latitude", tp.Lat).
				AddField("longitude", tp.Lng).
				AddField("elevation", tp.Elevation).
				AddField("accuracy", tp.Accuracy).
				AddField("speed", tp.Speed).
				AddField("heading", tp.Heading).
				AddField("distance", tp.DistanceFromStart)
			writeAPI.WritePoint(p)
		}
	})
}

// ExportNotifications posts arrival events.
func ExportNotifications(ns []notify.Notification) error {
	return export(func(writeAPI api.WriteAPI) {
		for _, n := range ns {
			p := influxdb2.NewPointWithMeasurement("arrival").
				SetTime(n.At).
				AddTag("survey", n.Survey).
				AddTag("category", n.POI.Category.String()).
				AddField("poi", n.POI.Name).
				AddField("poi_id", n.POI.ID).
				AddField("meters", n.Meters).
				AddField("latitude", n.Fix.Lat).
				AddField("longitude", n.Fix.Lng).
				AddField("region", n.Region)
			writeAPI.WritePoint(p)
		}
	})
}
