package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"sirnaetl/internal/dataset"
)

// arrowType maps a column kind to its arrow type. Every field is nullable.
func arrowType(k dataset.Kind) arrow.DataType {
	switch k {
	case dataset.Int:
		return arrow.PrimitiveTypes.Int64
	case dataset.Float:
		return arrow.PrimitiveTypes.Float64
	case dataset.Bool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// ArrowSchema returns the arrow schema WriteParquet uses for d.
func ArrowSchema(d *dataset.Dataset) *arrow.Schema {
	cols := d.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// ToRecord converts d into a single arrow record. The caller must Release it.
func ToRecord(mem memory.Allocator, d *dataset.Dataset) arrow.Record {
	b := array.NewRecordBuilder(mem, ArrowSchema(d))
	defer b.Release()
	for j, c := range d.Columns() {
		fb := b.Field(j)
		for _, v := range c.Values {
			if v.IsMissing() {
				fb.AppendNull()
				continue
			}
			switch fb := fb.(type) {
			case *array.Int64Builder:
				n, _ := v.Int()
				fb.Append(n)
			case *array.Float64Builder:
				f, _ := v.Float()
				fb.Append(f)
			case *array.BooleanBuilder:
				x, _ := v.Bool()
				fb.Append(x)
			case *array.StringBuilder:
				fb.Append(v.String())
			}
		}
	}
	return b.NewRecord()
}

// WriteParquet writes d as a snappy-compressed parquet file.
func WriteParquet(path string, d *dataset.Dataset) error {
	if d.Width() == 0 {
		return errors.New("persist: parquet needs at least one column")
	}
	return writeFile(path, func(w io.Writer) error {
		return EncodeParquet(w, d)
	})
}

// EncodeParquet writes d to w in the WriteParquet format. w is not closed.
func EncodeParquet(w io.Writer, d *dataset.Dataset) error {
	mem := memory.NewGoAllocator()
	rec := ToRecord(mem, d)
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	// The file writer closes its sink when it implements io.Closer; hide
	// Close so the caller keeps ownership of w.
	fw, err := pqarrow.NewFileWriter(rec.Schema(), struct{ io.Writer }{w}, props, pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		return err
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

// ReadParquet reads a parquet file into a dataset. Int64, Float64, Boolean
// and String columns map back to their kinds; other arrow types are read as
// text via their string form.
func ReadParquet(ctx context.Context, path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", path, err)
	}
	defer tbl.Release()

	cols := make([]dataset.Column, tbl.NumCols())
	for i := range cols {
		field := tbl.Schema().Field(i)
		col := dataset.Column{Name: field.Name, Kind: kindOf(field.Type)}
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			col.Values = appendValues(col.Values, chunk)
		}
		cols[i] = col
	}
	return dataset.New(cols...)
}

func kindOf(t arrow.DataType) dataset.Kind {
	switch t.ID() {
	case arrow.INT64, arrow.INT32, arrow.INT16, arrow.INT8:
		return dataset.Int
	case arrow.FLOAT64, arrow.FLOAT32:
		return dataset.Float
	case arrow.BOOL:
		return dataset.Bool
	default:
		return dataset.Text
	}
}

func appendValues(out []dataset.Value, arr arrow.Array) []dataset.Value {
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			out = append(out, dataset.Null())
			continue
		}
		switch a := arr.(type) {
		case *array.Int64:
			out = append(out, dataset.IntOf(a.Value(i)))
		case *array.Int32:
			out = append(out, dataset.IntOf(int64(a.Value(i))))
		case *array.Int16:
			out = append(out, dataset.IntOf(int64(a.Value(i))))
		case *array.Int8:
			out = append(out, dataset.IntOf(int64(a.Value(i))))
		case *array.Float64:
			out = append(out, dataset.FloatOf(a.Value(i)))
		case *array.Float32:
			out = append(out, dataset.FloatOf(float64(a.Value(i))))
		case *array.Boolean:
			out = append(out, dataset.BoolOf(a.Value(i)))
		case *array.String:
			out = append(out, dataset.TextOf(a.Value(i)))
		default:
			out = append(out, dataset.TextOf(arr.ValueStr(i)))
		}
	}
	return out
}
