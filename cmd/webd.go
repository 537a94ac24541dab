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
	"errors"
	"log"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotblauer/transectd/api"
	"github.com/rotblauer/transectd/common"
	"github.com/rotblauer/transectd/daemon/webd"
	"github.com/rotblauer/transectd/names"
	"github.com/rotblauer/transectd/notify"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/source"
	"github.com/rotblauer/transectd/state"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var optHTTPAddr string
var optHTTPPort int
var optWebdName string

// webdCmd represents the webd command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the web daemon",
	Long: `Webd serves the survey over HTTP.

Devices push fixes to POST /populate; a recorder consumes them and the
usual proximity rules apply. GET /status, /last, /track, and /pois
publish state, and /sotran is a websocket broadcasting track snapshots
and arrivals as they happen.

Set TRANSECTD_TOKEN to require a token on mutating endpoints.
Set NOTIFY_WEBHOOK_URL to POST arrivals somewhere that beeps.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Info("webd.Run")

		store, err := state.Open(filepath.Join(params.DatadirRoot, params.StateDBName))
		if err != nil {
			log.Fatalln(err)
		}

		config := params.DefaultWebDaemonConfig()
		config.Address = optHTTPAddr
		config.DataDir = params.DatadirRoot
		if optHTTPPort != 0 {
			host, _, err := net.SplitHostPort(optHTTPAddr)
			if err != nil {
				log.Fatalln(err)
			}
			config.Address = net.JoinHostPort(host, strconv.Itoa(optHTTPPort))
		}

		recConfig := params.DefaultRecorderConfig()
		if optWebdName != "" {
			recConfig.Name = names.Sanitize(optWebdName)
		}

		rec := api.NewRecorder(recConfig, store, recordSink())
		push := source.NewPush(params.DefaultFixBufferSize)

		hitCh := make(chan notify.Notification, 8)
		hitSub := rec.SubscribeHits(hitCh)
		visited := []string{}
		collected := make(chan struct{})
		go func() {
			defer close(collected)
			for {
				select {
				case n := <-hitCh:
					visited = append(visited, n.POI.ID)
				case <-hitSub.Err():
					return
				}
			}
		}()

		started := time.Now()
		if err := rec.Start(context.Background(), push); err != nil {
			log.Fatalln(err)
		}

		server := webd.NewWebDaemon(config, rec, push, store)
		go func() {
			if err := server.Run(); err != nil {
				log.Fatalln(err)
			}
		}()

		sig := <-common.Interrupted()
		slog.Info("webd interrupted", "signal", sig)

		snap, err := rec.Stop()
		if err != nil && !errors.Is(err, api.ErrNotRecording) {
			slog.Error("Failed to stop recorder", "error", err)
		}
		hitSub.Unsubscribe()
		<-collected
		rec.Close()

		if last, ok := rec.Last(); ok {
			if err := store.StoreLastFix(last); err != nil {
				slog.Error("Failed to store last fix", "error", err)
			}
		}
		if !snap.IsEmpty() {
			sess := state.Session{
				ID:      uuid.New().String(),
				Name:    recConfig.Name,
				Start:   snap.Start(),
				End:     time.Now(),
				Meters:  snap.Distance,
				Points:  len(snap.Points),
				Visited: visited,
			}
			if sess.Start.IsZero() {
				sess.Start = started
			}
			if err := store.PutSession(sess); err != nil {
				slog.Error("Failed to store session", "error", err)
			}
		}
		if err := store.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// webdCmd.PersistentFlags().String("foo", "", "A help for foo")
	defaults := params.DefaultWebDaemonConfig()

	pFlags := webdCmd.PersistentFlags()
	pFlags.AddFlagSet(&pflag.FlagSet{})
	pFlags.StringVar(&optHTTPAddr, "address", defaults.Address, "HTTP address to listen on")
	pFlags.IntVar(&optHTTPPort, "port", 0, "override the port in --address")
	pFlags.StringVar(&optWebdName, "name", "", "survey name for the daemon's recorder")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// webdCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
