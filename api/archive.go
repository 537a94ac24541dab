package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/transectd/flatgz"
	"github.com/rotblauer/transectd/params"
)

// ArchiveFeature is the finished track as one GeoJSON feature, tagged
// with the survey name.
func (r *Recorder) ArchiveFeature() (*geojson.Feature, error) {
	snap := r.track.Snapshot()
	if snap.IsEmpty() {
		return nil, ErrEmptyTrack
	}
	f := snap.Feature()
	f.Properties["Name"] = r.config.Name
	return f, nil
}

// Archive writes the finished track to w as gzipped GeoJSON.
func (r *Recorder) Archive(w io.Writer) error {
	f, err := r.ArchiveFeature()
	if err != nil {
		return err
	}
	gz, err := gzip.NewWriterLevel(w, params.DefaultGZipCompressionLevel)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(gz).Encode(f); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// ArchiveFlat appends the finished track to the survey's archive file
// under root, one feature line per finished session, and returns the
// path.
func (r *Recorder) ArchiveFlat(root string) (string, error) {
	f, err := r.ArchiveFeature()
	if err != nil {
		return "", err
	}
	dir := flatgz.NewFlatWithRoot(root).ForSurvey(r.config.Name)
	if err := dir.MkdirAll(); err != nil {
		return "", err
	}
	wr, err := dir.NewGZFileWriter(params.ArchiveGZFileName, nil)
	if err != nil {
		return "", err
	}
	if err := wr.WriteJSONLine(f); err != nil {
		wr.MaybeClose()
		return "", err
	}
	if err := wr.Close(); err != nil {
		return "", err
	}
	r.logger.Info("Archived track", "path", wr.Path(),
		"points", len(r.track.Snapshot().Points))
	return wr.Path(), nil
}

// ArchiveS3 puts the gzipped track at key in the bucket named by
// AWS_BUCKETNAME. The AWS library configures itself from the
// environment.
func (r *Recorder) ArchiveS3(ctx context.Context, key string) error {
	if params.AWS_BUCKETNAME == "" {
		return fmt.Errorf("AWS_BUCKETNAME not set")
	}
	buf := bytes.NewBuffer([]byte{})
	if err := r.Archive(buf); err != nil {
		return err
	}

	// All clients require a Session. The Session provides the client with
	// shared configuration such as region, endpoint, and credentials.
	sess := session.Must(session.NewSession())
	svc := s3.New(sess)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(params.AWS_BUCKETNAME),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String("application/gzip"),
		ContentLength: aws.Int64(int64(buf.Len())),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == request.CanceledErrorCode {
			r.logger.Error("AWS S3 upload canceled due to timeout", "error", err)
		} else {
			r.logger.Error("Failed to upload archive", "error", err)
		}
		return err
	}
	r.logger.Info("Uploaded archive to AWS S3",
		"bucket", params.AWS_BUCKETNAME, "key", key)
	return nil
}
