package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"

	"github.com/xitongsys/parquet-go-source/buffer"

	"github.com/BielosX/wombat/pokedex/src/parquet"
	"github.com/BielosX/wombat/pokedex/src/utils"
)

// PokemonWriter writes snapshot rows as CSV, using the parquet column names
// as the header so both exports share one schema.
type PokemonWriter struct {
	buffer *buffer.BufferFile
	writer *csv.Writer
	fields []reflect.StructField
}

const InitialCapacity = 64 * 1024

func NewPokemonWriter() *PokemonWriter {
	bufferFile := buffer.NewBufferFileCapacity(InitialCapacity)
	return &PokemonWriter{
		buffer: bufferFile,
		writer: csv.NewWriter(bufferFile),
		fields: utils.GetFields(parquet.Pokemon{}),
	}
}

func (w *PokemonWriter) WriteHeader() error {
	return w.writer.Write(utils.ColumnNames(w.fields))
}

func (w *PokemonWriter) Write(pokemon parquet.Pokemon) error {
	value := reflect.ValueOf(pokemon)
	converted := make([]string, 0, len(w.fields))
	for _, field := range w.fields {
		converted = append(converted, fmt.Sprint(value.FieldByIndex(field.Index).Interface()))
	}
	return w.writer.Write(converted)
}

// Finish flushes pending rows and rewinds the buffer for BufferReader.
func (w *PokemonWriter) Finish() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return err
	}
	_, err := w.buffer.Seek(0, io.SeekStart)
	return err
}

func (w *PokemonWriter) Size() int {
	return len(w.buffer.Bytes())
}

func (w *PokemonWriter) BufferReader() io.Reader {
	return w.buffer
}
