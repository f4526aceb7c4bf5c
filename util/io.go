package util

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
)

//*******************************************
// binary buffers
//*******************************************

func NewBufferReader(data []byte) BufferReader {
	reader := bytes.NewReader(data)
	return BufferReader{
		reader: reader,
	}
}

type BufferReader struct {
	reader *bytes.Reader
}

func Read[T any](reader BufferReader) (T, error) {
	var value T
	err := binary.Read(reader.reader, binary.LittleEndian, &value)
	return value, err
}

func ReadArray[T any](reader BufferReader) (Array[T], error) {
	var size int32
	if err := binary.Read(reader.reader, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid array size %v", size)
	}
	value := NewArray[T](int(size))
	if err := binary.Read(reader.reader, binary.LittleEndian, value); err != nil {
		return nil, err
	}
	return value, nil
}

func NewBufferWriter() BufferWriter {
	buffer := bytes.Buffer{}
	return BufferWriter{
		buffer: &buffer,
	}
}

type BufferWriter struct {
	buffer *bytes.Buffer
}

func (self *BufferWriter) Bytes() []byte {
	return self.buffer.Bytes()
}

func Write[T any](writer BufferWriter, value T) {
	binary.Write(writer.buffer, binary.LittleEndian, value)
}
func WriteArray[T any](writer BufferWriter, value Array[T]) {
	binary.Write(writer.buffer, binary.LittleEndian, int32(value.Length()))
	binary.Write(writer.buffer, binary.LittleEndian, value)
}

func WriteArrayToFile[T any](value Array[T], file string) error {
	writer := NewBufferWriter()
	WriteArray[T](writer, value)
	return os.WriteFile(file, writer.Bytes(), 0644)
}

func ReadArrayFromFile[T any](file string) (Array[T], error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	reader := NewBufferReader(data)
	return ReadArray[T](reader)
}

func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0644)
}

func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	data, err := os.ReadFile(file)
	if err != nil {
		return value, err
	}
	err = json.Unmarshal(data, &value)
	return value, err
}

//*******************************************
// csv
//*******************************************

// Reads all rows of a csv file into structs using `csv:"column"` tags.
//
// Untagged fields and columns missing from the header are left at their zero value.
// Slice fields of integers or floats are read from space separated cells,
// pointer fields stay nil for empty cells.
// Rows with a wrong field count are skipped.
func ReadCSVFromFile[T any](filename string, delimiter rune) (List[T], error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV[T](file, delimiter)
}

func ReadCSV[T any](r io.Reader, delimiter rune) (List[T], error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	name_row_mapping := NewDict[string, int](10)
	for i, name := range header {
		name_row_mapping[strings.TrimSpace(name)] = i
	}

	var val T
	typ := reflect.TypeOf(val)
	num_field := typ.NumField()
	fields := NewList[Triple[int, int, reflect.Type]](num_field)
	for i := 0; i < num_field; i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("csv")
		if tag == "" {
			continue
		}
		if !name_row_mapping.ContainsKey(tag) {
			continue
		}
		fields.Add(MakeTriple(i, name_row_mapping[tag], field.Type))
	}

	rows := NewList[T](100)
	line := 1
	for {
		record, err := reader.Read()
		line += 1
		if err == io.EOF {
			break
		} else if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, err
		}
		t := reflect.New(typ).Elem()
		for _, field := range fields {
			value := strings.TrimSpace(record[field.B])
			if value == "" {
				continue
			}
			if err := _SetField(t.Field(field.A), field.C, value); err != nil {
				return nil, fmt.Errorf("line %v, column %v: %w", line, header[field.B], err)
			}
		}
		rows.Add(t.Interface().(T))
	}
	return rows, nil
}

func _SetField(f reflect.Value, typ reflect.Type, value string) error {
	switch typ.Kind() {
	case reflect.Bool:
		num, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		f.SetBool(num)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		num, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		f.SetInt(num)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		num, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		f.SetUint(num)
	case reflect.Float32, reflect.Float64:
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.SetFloat(num)
	case reflect.String:
		f.SetString(value)
	case reflect.Slice:
		tokens := strings.Fields(value)
		slice := reflect.MakeSlice(typ, len(tokens), len(tokens))
		for i, token := range tokens {
			if err := _SetField(slice.Index(i), typ.Elem(), token); err != nil {
				return err
			}
		}
		f.Set(slice)
	case reflect.Pointer:
		ptr := reflect.New(typ.Elem())
		if err := _SetField(ptr.Elem(), typ.Elem(), value); err != nil {
			return err
		}
		f.Set(ptr)
	default:
		return fmt.Errorf("unsupported field type %v", typ)
	}
	return nil
}

// Writes rows as csv using the `csv:"column"` tags as header.
func WriteCSVToFile[T any](rows []T, filename string, delimiter rune) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, rows, delimiter); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func WriteCSV[T any](w io.Writer, rows []T, delimiter rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	var val T
	typ := reflect.TypeOf(val)
	header := NewList[string](typ.NumField())
	indices := NewList[int](typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("csv")
		if tag == "" {
			continue
		}
		header.Add(tag)
		indices.Add(i)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, len(indices))
	for _, row := range rows {
		v := reflect.ValueOf(row)
		for j, index := range indices {
			record[j] = _FormatField(v.Field(index))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func _FormatField(f reflect.Value) string {
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(f.Float(), 'f', -1, 64)
	case reflect.Pointer:
		if f.IsNil() {
			return ""
		}
		return _FormatField(f.Elem())
	case reflect.Slice:
		tokens := make([]string, f.Len())
		for i := 0; i < f.Len(); i++ {
			tokens[i] = _FormatField(f.Index(i))
		}
		return strings.Join(tokens, " ")
	default:
		return fmt.Sprint(f.Interface())
	}
}
