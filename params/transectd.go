package params

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/metrics"
)

func init() {
	metrics.Enabled = true
}

const (
	SurveysDir = "surveys"

	ArchiveGZFileName = "transects.geojson.gz"

	// UploadsGZFileName is the daemon's raw intake file: every push
	// body appended as received, before any decoding or gating.
	UploadsGZFileName = "uploads.json.gz"
)

var DatadirRoot = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".transectd")
}()

var StateDBName = "state.db"
var POIBucket = []byte("pois")
var SessionBucket = []byte("sessions")
var StateBucket = []byte("state")

var DefaultFixBufferSize = 1_000

var DefaultGZipCompressionLevel = gzip.BestCompression

// AWS_BUCKETNAME names the S3 bucket for archived transects.
// Empty disables S3 archiving; the local gz archive still happens.
var AWS_BUCKETNAME = os.Getenv("AWS_BUCKETNAME")

var (
	INFLUXDB_URL    = os.Getenv("INFLUXDB_URL")
	INFLUXDB_TOKEN  = os.Getenv("INFLUXDB_TOKEN")
	INFLUXDB_ORG    = os.Getenv("INFLUXDB_ORG")
	INFLUXDB_BUCKET = os.Getenv("INFLUXDB_BUCKET")
)

// NOTIFY_WEBHOOK_URL, when set, gets a JSON POST for every arrival
// notification.
var NOTIFY_WEBHOOK_URL = os.Getenv("NOTIFY_WEBHOOK_URL")

var (
	CacheLastKnownTTL = 7 * 24 * time.Hour
)
