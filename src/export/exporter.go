// Package export writes snapshots of the catalog, joined with the bundled
// colors, to Parquet and CSV files in S3.
package export

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BielosX/wombat/pokedex/src/csv"
	"github.com/BielosX/wombat/pokedex/src/future"
	"github.com/BielosX/wombat/pokedex/src/parquet"
	"github.com/BielosX/wombat/pokedex/src/pokeapi"
	"github.com/BielosX/wombat/pokedex/src/pokedex"
)

const (
	DefaultConcurrency = 8
	KeyPrefix          = "pokedex"
)

type Uploader interface {
	PutFile(ctx context.Context, reader io.Reader, bucket, key, contentType string) error
}

type Request struct {
	Term string `json:"term"`
}

type Result struct {
	RunId           string `json:"runId"`
	Count           int    `json:"count"`
	ParquetFileName string `json:"parquetFileName,omitempty"`
	CsvFileName     string `json:"csvFileName,omitempty"`
}

type Exporter struct {
	fetcher     pokedex.Fetcher
	uploader    Uploader
	bucket      string
	concurrency int
	sugar       *zap.SugaredLogger
}

func NewExporter(fetcher pokedex.Fetcher, uploader Uploader, bucket string, sugar *zap.SugaredLogger) *Exporter {
	return &Exporter{
		fetcher:     fetcher,
		uploader:    uploader,
		bucket:      bucket,
		concurrency: DefaultConcurrency,
		sugar:       sugar,
	}
}

// Export snapshots every catalog entry matching req.Term. Any failed fetch or
// upload aborts the run.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	runId := uuid.NewString()
	e.sugar.Infof("Starting export %s, term: %q", runId, req.Term)

	pageFuture := future.Go(ctx, e.fetcher.ListPokemons)
	colorsFuture := future.Go(ctx, e.fetcher.GetColors)
	page, colors, err := future.Join(ctx, pageFuture, colorsFuture)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	entries := pokedex.Filter(page.Results, req.Term)
	e.sugar.Infof("Got %d Pokemon results, %d after filtering", len(page.Results), len(entries))
	result := &Result{RunId: runId}
	if len(entries) == 0 {
		return result, nil
	}

	rows, err := e.fetchRows(ctx, entries, colors)
	if err != nil {
		return nil, err
	}

	pokemonWriter, err := parquet.NewPokemonWriter()
	if err != nil {
		e.sugar.Errorf("Failed to create Pokemon Parquet Writer: %s", err)
		return nil, err
	}
	csvWriter := csv.NewPokemonWriter()
	if err := csvWriter.WriteHeader(); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := pokemonWriter.WritePokemon(&rows[i]); err != nil {
			e.sugar.Errorf("Error writing Pokemon to Parquet: %s", err)
			return nil, err
		}
		if err := csvWriter.Write(rows[i]); err != nil {
			e.sugar.Errorf("Error writing Pokemon to CSV: %s", err)
			return nil, err
		}
	}
	if err := pokemonWriter.Finish(); err != nil {
		return nil, err
	}
	if err := csvWriter.Finish(); err != nil {
		return nil, err
	}

	result.Count = len(rows)
	result.ParquetFileName = fmt.Sprintf("%s/%s.parquet", KeyPrefix, runId)
	result.CsvFileName = fmt.Sprintf("%s/%s.csv", KeyPrefix, runId)
	e.sugar.Infof("Sending parquet file of size %d to S3", pokemonWriter.Size())
	err = e.uploader.PutFile(ctx, pokemonWriter.BufferReader(), e.bucket, result.ParquetFileName, "application/vnd.apache.parquet")
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", result.ParquetFileName, err)
	}
	e.sugar.Infof("Sending CSV file of size %d to S3", csvWriter.Size())
	err = e.uploader.PutFile(ctx, csvWriter.BufferReader(), e.bucket, result.CsvFileName, "text/csv")
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", result.CsvFileName, err)
	}
	return result, nil
}

func (e *Exporter) fetchRows(ctx context.Context,
	entries []pokeapi.PokemonResult,
	colors []pokeapi.PokemonColor) ([]parquet.Pokemon, error) {
	rows := make([]parquet.Pokemon, len(entries))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.concurrency)
	for i, entry := range entries {
		group.Go(func() error {
			e.sugar.Debugf("Fetching Pokemon %s", entry.Name)
			detail, err := e.fetcher.GetPokemon(groupCtx, entry.Name)
			if err != nil {
				return fmt.Errorf("get pokemon %s: %w", entry.Name, err)
			}
			rows[i] = parquet.ToPokemon(detail, pokedex.FindColor(colors, detail.Name))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		e.sugar.Errorf("Failed to fetch Pokemon details: %s", err)
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Id < rows[j].Id
	})
	return rows, nil
}
