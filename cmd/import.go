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
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rotblauer/transectd/gpx"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/state"
	"github.com/rotblauer/transectd/types/poi"
	"github.com/spf13/cobra"
)

var optImportGPX string
var optImportSeed string
var optImportSource string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import POIs into the store",
	Long: `Import loads points of interest from a GPX file (waypoints) or a
JSON seed file into the state db. Seed files hold flat POI objects or
GeoJSON Point features, newline-delimited or as one array.

Each import replaces everything previously loaded from the same source,
so re-running with a corrected file converges instead of accumulating
duplicates. POIs from other sources are left alone.

Flags:

  --gpx     GPX file; waypoints become POIs, category guessed from type and symbol.
  --seed    JSON seed file.
  --source  Source label scoping the replace. Defaults to the file's base name.

Examples:

  transectd import --gpx cairns.gpx
  transectd import --seed fences.json --source virtual-fences
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Info("import.Run")

		if optImportGPX == "" && optImportSeed == "" {
			log.Fatalln("nothing to import; pass --gpx or --seed")
		}
		if optImportGPX != "" && optImportSeed != "" {
			log.Fatalln("pass --gpx or --seed, not both")
		}

		file := optImportGPX
		if file == "" {
			file = optImportSeed
		}
		source := optImportSource
		if source == "" {
			source = filepath.Base(file)
		}

		pois, err := loadPOIs(optImportGPX, optImportSeed)
		if err != nil {
			log.Fatalln(err)
		}

		store, err := state.Open(filepath.Join(params.DatadirRoot, params.StateDBName))
		if err != nil {
			log.Fatalln(err)
		}
		defer store.Close()

		n, err := store.ReplaceSource(source, pois)
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("Imported %d POIs from %s (source %q)\n", n, file, source)
	},
}

// loadPOIs reads POIs from whichever path is non-empty. Source tagging
// and validation happen in the store's ReplaceSource, not here.
func loadPOIs(gpxFile, seedFile string) ([]poi.POI, error) {
	if gpxFile != "" {
		return gpx.File(gpxFile, "")
	}
	f, err := os.Open(seedFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pois, skipped, err := poi.ScanPOIs(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", seedFile, err)
	}
	if skipped > 0 {
		slog.Warn("Skipped undecodable POIs", "file", seedFile, "count", skipped)
	}
	return pois, nil
}

func init() {
	rootCmd.AddCommand(importCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// importCmd.PersistentFlags().String("foo", "", "A help for foo")

	importCmd.Flags().StringVar(&optImportGPX, "gpx", "", "GPX file of waypoints")
	importCmd.Flags().StringVar(&optImportSeed, "seed", "", "JSON seed file of POIs")
	importCmd.Flags().StringVar(&optImportSource, "source", "", "source label for the replace scope")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// importCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
