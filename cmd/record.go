/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rotblauer/transectd/api"
	"github.com/rotblauer/transectd/common"
	"github.com/rotblauer/transectd/metrics/influxdb"
	"github.com/rotblauer/transectd/names"
	"github.com/rotblauer/transectd/notify"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/rgeo"
	"github.com/rotblauer/transectd/source"
	"github.com/rotblauer/transectd/state"
	"github.com/rotblauer/transectd/types/poi"
	"github.com/spf13/cobra"
)

var optRecordName string
var optRecordGPX string
var optRecordSeed string
var optRecordRearm time.Duration
var optRecordAccuracy float64
var optRecordSmooth bool
var optRecordCategories categoriesValue
var optRecordArchive string
var optRecordS3 bool
var optRecordRgeo bool

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a survey walk from fixes on stdin",
	Long: `Record reads GPS fixes as JSON lines from stdin and runs them
through a recorder until stdin runs dry or you hit ctrl-c.

Fixes flow through the source gate first (accuracy threshold, dedupe),
then accumulate into the track. Every recorded fix is checked against
the active POIs; the first fix inside a fence you haven't visited yet
rings the bell, marks the POI visited, and that's that -- one arrival
per POI per survey, unless --rearm puts them on a cooldown instead.

When the walk ends the session summary (distance, points, visited POI
ids) is written to the state db, and the finished track can be archived
as gzipped GeoJSON locally (--archive) and/or to S3 (--s3, bucket from
AWS_BUCKETNAME).

Flags:

  --name        Survey name. Tags logs, archives, metrics. (Default "transect".)
  --gpx         Import waypoints from a GPX file into the store before starting.
  --seed        Import POIs from a JSON seed file into the store before starting.
  --rearm       Re-arm notified POIs after this long. 0 means notify once per survey.
  --accuracy    Drop fixes reporting worse horizontal accuracy than this, meters.
  --smooth      Kalman-smooth fixes before evaluation.
  --categories  Only check POIs of these categories, comma separated.
  --archive     Append the finished track to <path>/surveys/<name> as gzipped GeoJSON.
  --s3          Also put the gzipped track to S3. Requires AWS_BUCKETNAME and AWS creds.
  --rgeo        Load the reverse geocoder and stamp notifications with a region.
                Costs about a minute and a couple gigabytes up front.

Examples:

  gpsd2json | transectd record --gpx cairns.gpx --accuracy 50
  cat replay.json | transectd record --name transect-7 --categories natural,historic --archive ~/field

Notifications log via slog always; set NOTIFY_WEBHOOK_URL to also POST
them somewhere that beeps. Set INFLUXDB_URL (et al.) to export the
finished track and arrivals to InfluxDB when the walk ends.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Info("record.Run")

		store, err := state.Open(filepath.Join(params.DatadirRoot, params.StateDBName))
		if err != nil {
			log.Fatalln(err)
		}
		defer store.Close()

		if optRecordGPX != "" || optRecordSeed != "" {
			file := optRecordGPX
			if file == "" {
				file = optRecordSeed
			}
			pois, err := loadPOIs(optRecordGPX, optRecordSeed)
			if err != nil {
				log.Fatalln(err)
			}
			n, err := store.ReplaceSource(filepath.Base(file), pois)
			if err != nil {
				log.Fatalln(err)
			}
			slog.Info("Imported POIs", "file", file, "count", n)
		}

		config := params.DefaultRecorderConfig()
		if optRecordName != "" {
			config.Name = names.Sanitize(optRecordName)
		}
		config.Smooth = optRecordSmooth
		config.Proximity.RearmAfter = optRecordRearm
		config.Categories = optRecordCategories.categories

		rec := api.NewRecorder(config, store, recordSink())

		// Arrivals double as the session's visited list and, later,
		// the Influx export batch.
		hitCh := make(chan notify.Notification, 8)
		hitSub := rec.SubscribeHits(hitCh)
		arrivals := []notify.Notification{}
		collected := make(chan struct{})
		go func() {
			defer close(collected)
			for {
				select {
				case n := <-hitCh:
					arrivals = append(arrivals, n)
				case <-hitSub.Err():
					return
				}
			}
		}()

		srcConfig := params.DefaultSourceConfig
		srcConfig.AccuracyThreshold = optRecordAccuracy

		started := time.Now()
		if err := rec.Start(context.Background(), source.NewReader(os.Stdin, srcConfig)); err != nil {
			log.Fatalln(err)
		}

		select {
		case <-rec.Done():
			// stdin ran dry
		case sig := <-common.Interrupted():
			slog.Info("record interrupted", "signal", sig)
		}

		snap, err := rec.Stop()
		if err != nil {
			log.Fatalln(err)
		}
		hitSub.Unsubscribe()
		<-collected
		rec.Close()

		if last, ok := rec.Last(); ok {
			if err := store.StoreLastFix(last); err != nil {
				slog.Error("Failed to store last fix", "error", err)
			}
		}

		sess := state.Session{
			ID:     uuid.New().String(),
			Name:   config.Name,
			Start:  snap.Start(),
			End:    time.Now(),
			Meters: snap.Distance,
			Points: len(snap.Points),
		}
		if sess.Start.IsZero() {
			sess.Start = started
		}
		for _, n := range arrivals {
			sess.Visited = append(sess.Visited, n.POI.ID)
		}
		if err := store.PutSession(sess); err != nil {
			slog.Error("Failed to store session", "error", err)
		}

		if optRecordArchive != "" && !snap.IsEmpty() {
			path, err := rec.ArchiveFlat(optRecordArchive)
			if err != nil {
				slog.Error("Failed to archive track", "error", err)
			} else {
				slog.Info("Archived track", "path", path)
			}
		}
		if optRecordS3 && !snap.IsEmpty() {
			key := filepath.Join(config.Name, started.UTC().Format("20060102T150405Z")+".geojson.gz")
			if err := rec.ArchiveS3(context.Background(), key); err != nil {
				slog.Error("Failed to archive track to S3", "error", err)
			} else {
				slog.Info("Archived track to S3", "key", key)
			}
		}

		if params.INFLUXDB_URL != "" && !snap.IsEmpty() {
			if err := influxdb.ExportTrack(config.Name, snap.Points); err != nil {
				slog.Error("Failed to export track", "error", err)
			}
			if len(arrivals) > 0 {
				if err := influxdb.ExportNotifications(arrivals); err != nil {
					slog.Error("Failed to export notifications", "error", err)
				}
			}
		}

		status := rec.Status()
		fmt.Printf("Survey %s: %s points over %s m in %s\n",
			config.Name,
			humanize.Comma(status.Recorded),
			humanize.CommafWithDigits(snap.Distance, 1),
			snap.Duration().Round(time.Second),
		)
		fmt.Printf("Received %s fixes, skipped %s, visited %d POIs\n",
			humanize.Comma(status.Received),
			humanize.Comma(status.Skipped),
			len(sess.Visited),
		)
	},
}

// recordSink builds the notification fan-out: slog always, a webhook
// when NOTIFY_WEBHOOK_URL is set, and region decoration when --rgeo
// paid for the geocoder.
func recordSink() notify.Sink {
	sinks := notify.Multi{notify.Slog{}}
	if params.NOTIFY_WEBHOOK_URL != "" {
		sinks = append(sinks, notify.NewWebhook(params.NOTIFY_WEBHOOK_URL))
	}
	if !optRecordRgeo {
		return sinks
	}
	if err := rgeo.Init(); err != nil {
		slog.Error("Failed to init reverse geocoder", "error", err)
		return sinks
	}
	geocoder, err := rgeo.R()
	if err != nil {
		slog.Error("Failed to get reverse geocoder", "error", err)
		return sinks
	}
	return notify.Regional{Next: sinks, Geocoder: geocoder}
}

// categoriesValue is a pflag.Value holding a comma-separated category
// list, eg. --categories natural,historic.
type categoriesValue struct {
	categories []poi.Category
}

func (v *categoriesValue) String() string {
	names := make([]string, len(v.categories))
	for i, c := range v.categories {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

func (v *categoriesValue) Set(s string) error {
	v.categories = v.categories[:0]
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c := poi.FromString(part)
		if c == poi.CategoryUnknown {
			return fmt.Errorf("unknown category %q (known: %s)",
				part, strings.Join(poi.AllCategoryNames, ", "))
		}
		v.categories = append(v.categories, c)
	}
	return nil
}

func (v *categoriesValue) Type() string { return "categories" }

func init() {
	rootCmd.AddCommand(recordCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// recordCmd.PersistentFlags().String("foo", "", "A help for foo")
	defaults := params.DefaultRecorderConfig()

	recordCmd.Flags().StringVar(&optRecordName, "name", defaults.Name, "survey name")
	recordCmd.Flags().StringVar(&optRecordGPX, "gpx", "", "import waypoints from this GPX file first")
	recordCmd.Flags().StringVar(&optRecordSeed, "seed", "", "import POIs from this JSON seed file first")
	recordCmd.Flags().DurationVar(&optRecordRearm, "rearm", defaults.Proximity.RearmAfter, "re-arm notified POIs after this long (0: once per survey)")
	recordCmd.Flags().Float64Var(&optRecordAccuracy, "accuracy", params.DefaultSourceConfig.AccuracyThreshold, "drop fixes with worse horizontal accuracy, meters (0: keep all)")
	recordCmd.Flags().BoolVar(&optRecordSmooth, "smooth", defaults.Smooth, "Kalman-smooth fixes before evaluation")
	recordCmd.Flags().Var(&optRecordCategories, "categories", "only check POIs of these categories, comma separated")
	recordCmd.Flags().StringVar(&optRecordArchive, "archive", "", "archive the finished track under this root")
	recordCmd.Flags().BoolVar(&optRecordS3, "s3", false, "archive the finished track to S3 (AWS_BUCKETNAME)")
	recordCmd.Flags().BoolVar(&optRecordRgeo, "rgeo", false, "reverse geocode notifications (slow start, big memory)")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// recordCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
