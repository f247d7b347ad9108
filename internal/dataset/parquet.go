package dataset

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// readParquet loads a whole Parquet file through an Arrow table.
func readParquet(ctx context.Context, r parquet.ReaderAtSeeker) (*Dataset, error) {
	mem := memory.NewGoAllocator()

	pf, err := file.NewParquetReader(r, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	var cols columnSet
	for _, f := range schema.Fields() {
		cols.add(f.Name)
	}

	records := make([]Record, 0, table.NumRows())
	tr := array.NewTableReader(table, 1024)
	defer tr.Release()
	for tr.Next() {
		batch := tr.Record()
		for i := 0; i < int(batch.NumRows()); i++ {
			rec := make(Record, batch.NumCols())
			for j, col := range batch.Columns() {
				rec[schema.Field(j).Name] = arrowValue(col, i)
			}
			records = append(records, rec)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("error reading table: %w", err)
	}

	return &Dataset{Columns: cols.names, Records: records}, nil
}

// arrowValue converts one Arrow cell into a record value.
func arrowValue(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}

	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.LargeString:
		return c.Value(pos)
	case *array.Binary:
		return string(c.Value(pos))
	case *array.Boolean:
		return c.Value(pos)
	case *array.Int8:
		return int64(c.Value(pos))
	case *array.Int16:
		return int64(c.Value(pos))
	case *array.Int32:
		return int64(c.Value(pos))
	case *array.Int64:
		return c.Value(pos)
	case *array.Uint8:
		return int64(c.Value(pos))
	case *array.Uint16:
		return int64(c.Value(pos))
	case *array.Uint32:
		return int64(c.Value(pos))
	case *array.Uint64:
		return c.Value(pos)
	case *array.Float16:
		return float64(c.Value(pos).Float32())
	case *array.Float32:
		return float64(c.Value(pos))
	case *array.Float64:
		return c.Value(pos)
	case *array.Date32:
		return c.Value(pos).ToTime().Format(time.DateOnly)
	case *array.Date64:
		return c.Value(pos).ToTime().Format(time.DateOnly)
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(pos).ToTime(unit).UTC()
	case *array.Decimal128:
		return c.Value(pos).BigInt().String()
	}
	return col.ValueStr(pos)
}

// writeParquet stores d as a single Snappy-compressed row group. Column
// types are inferred from the values: bool, int64, float64, timestamp or
// string.
func writeParquet(w io.Writer, d *Dataset) error {
	mem := memory.NewGoAllocator()

	fields := make([]arrow.Field, len(d.Columns))
	for i, name := range d.Columns {
		fields[i] = arrow.Field{Name: name, Type: inferArrowType(d.Column(name)), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	for _, r := range d.Records {
		for i, name := range d.Columns {
			appendArrow(b.Field(i), r[name])
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	fw, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("failed to write parquet data: %w", err)
	}
	return fw.Close()
}

func inferArrowType(values []any) arrow.DataType {
	var hasBool, hasInt, hasFloat, hasTime, hasOther bool
	for _, v := range values {
		switch v.(type) {
		case nil:
		case bool:
			hasBool = true
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
			hasInt = true
		case float32, float64:
			hasFloat = true
		case time.Time:
			hasTime = true
		default:
			hasOther = true
		}
	}
	switch {
	case hasOther:
		return arrow.BinaryTypes.String
	case hasBool && !hasInt && !hasFloat && !hasTime:
		return arrow.FixedWidthTypes.Boolean
	case hasTime && !hasBool && !hasInt && !hasFloat:
		return arrow.FixedWidthTypes.Timestamp_us
	case hasInt && !hasFloat && !hasBool && !hasTime:
		return arrow.PrimitiveTypes.Int64
	case (hasInt || hasFloat) && !hasBool && !hasTime:
		return arrow.PrimitiveTypes.Float64
	}
	return arrow.BinaryTypes.String
}

func appendArrow(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch fb := b.(type) {
	case *array.BooleanBuilder:
		fb.Append(v.(bool))
	case *array.Int64Builder:
		i, _ := asInt64(v)
		fb.Append(i)
	case *array.Float64Builder:
		fb.Append(asFloat64(v))
	case *array.TimestampBuilder:
		fb.Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
	case *array.StringBuilder:
		fb.Append(cellString(v))
	default:
		b.AppendNull()
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) float64 {
	if i, ok := asInt64(v); ok {
		return float64(i)
	}
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}
